package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"podrida-server/internal/util"
)

// Config provides configuration for the podrida server
type Config struct {
	loaded           bool
	StateFile        string `yaml:"stateFile" envconfig:"state_file"`
	PGDSN            string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath   string `yaml:"migrationsPath" envconfig:"migrations_path"`
	PublicDir        string `yaml:"publicDir" envconfig:"public_dir"`
	ClearFeltDelayMS int    `yaml:"clearFeltDelayMs" envconfig:"clear_felt_delay_ms"`
	JWTSecret        string `yaml:"jwtSecret" envconfig:"jwt_secret"`
	Log              struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is not an error; env vars and defaults apply
func Load() error {
	config = Config{}

	configFile := util.Getenv("PODRIDA_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		err = yaml.NewDecoder(file).Decode(&config)
		_ = file.Close()
		if err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("podrida", &config); err != nil {
		return err
	}

	if config.StateFile == "" {
		config.StateFile = "podrida_state.json"
	}

	if config.MigrationsPath == "" {
		config.MigrationsPath = "./sql"
	}

	if config.ClearFeltDelayMS == 0 {
		config.ClearFeltDelayMS = 2500
	}

	config.loaded = true
	return nil
}
