package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"podrida-server/internal/util"
)

func TestInstance(t *testing.T) {
	clear1 := util.SetEnv("PODRIDA_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := util.SetEnv("PODRIDA_STATE_FILE", "override_state.json")
	defer clear2()

	a := assert.New(t)
	a.NoError(Load())
	cfg := Instance()
	a.Equal("./public", cfg.PublicDir)
	a.Equal("override_state.json", cfg.StateFile)
	a.Equal(1000, cfg.ClearFeltDelayMS)
	a.Equal("debug", cfg.Log.Level)

	// ensure that it's only loaded once
	_ = os.Setenv("PODRIDA_STATE_FILE", "other_state.json")
	// ensure we aren't using a pointer
	cfg.StateFile = "bad"
	cfg = Instance()
	a.Equal("override_state.json", cfg.StateFile)
}

func TestDefaults(t *testing.T) {
	clear1 := util.SetEnv("PODRIDA_CONFIG_FILE", "testdata/does-not-exist.yaml")
	defer clear1()

	assert.NoError(t, Load())
	cfg := Instance()
	assert.Equal(t, "podrida_state.json", cfg.StateFile)
	assert.Equal(t, "./sql", cfg.MigrationsPath)
	assert.Equal(t, 2500, cfg.ClearFeltDelayMS)
}
