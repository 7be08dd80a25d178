package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"podrida-server/internal/config"
)

// Issuer issues the JWT
const Issuer = "podrida-server"

// Audience is the intended JWT audience
const Audience = "podrida-client"

var secret []byte

// LoadSecret will load the signing secret from the configuration
// this method should only be called once.
func LoadSecret() error {
	cfg := config.Instance()
	if cfg.JWTSecret == "" {
		return errors.New("missing jwt secret in configuration")
	}

	secret = []byte(cfg.JWTSecret)
	return nil
}

// SetSecret sets the signing secret directly. Tests only.
func SetSecret(s string) {
	secret = []byte(s)
}

// Sign will sign a rejoin token for the nickname
func Sign(nickname string) (string, error) {
	if secret == nil {
		panic("LoadSecret() not called")
	}

	token := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, jwtgo.RegisteredClaims{
		Audience: jwtgo.ClaimStrings{Audience},
		ID:       uuid.New().String(),
		IssuedAt: jwtgo.NewNumericDate(time.Now()),
		Issuer:   Issuer,
		Subject:  nickname,
	})

	return token.SignedString(secret)
}

// ValidNickname will validate a signed rejoin token and return the nickname it was issued for
func ValidNickname(signedString string) (string, error) {
	if secret == nil {
		panic("LoadSecret() not called")
	}

	token, err := jwtgo.ParseWithClaims(signedString, &jwtgo.RegisteredClaims{}, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodHMAC); !ok {
			return nil, errors.New("expected HS256 signing method")
		}

		return secret, nil
	})

	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwtgo.RegisteredClaims)
	if !ok {
		return "", fmt.Errorf("expected jwt.RegisteredClaims, got %T", token.Claims)
	}

	if !containsAudience(claims.Audience, Audience) {
		return "", errors.New("invalid audience")
	}

	if claims.Issuer != Issuer {
		return "", errors.New("invalid issuer")
	}

	if claims.Subject == "" {
		return "", errors.New("empty subject")
	}

	return claims.Subject, nil
}

func containsAudience(audiences jwtgo.ClaimStrings, target string) bool {
	for _, aud := range audiences {
		if aud == target {
			return true
		}
	}
	return false
}
