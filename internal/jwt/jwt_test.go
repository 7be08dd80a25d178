package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignAndValidate(t *testing.T) {
	SetSecret("test-secret")

	a := assert.New(t)
	signed, err := Sign("gabriela")
	a.NoError(err)
	a.NotEmpty(signed)

	nickname, err := ValidNickname(signed)
	a.NoError(err)
	a.Equal("gabriela", nickname)
}

func TestValidNickname_BadToken(t *testing.T) {
	SetSecret("test-secret")

	a := assert.New(t)
	_, err := ValidNickname("not-a-token")
	a.Error(err)

	signed, err := Sign("gabriela")
	a.NoError(err)

	SetSecret("different-secret")
	_, err = ValidNickname(signed)
	a.Error(err)
}
