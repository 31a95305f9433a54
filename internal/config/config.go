package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	Audit struct {
		// Blocking makes a failed audit write fail (and roll back) the
		// enclosing batch action instead of only logging the error.
		Blocking bool
	}
}

// Load reads config from environment (TMARKS_ prefix) and optional tmarks.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TMARKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("tmarks")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("audit.blocking", false)

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Audit.Blocking = v.GetBool("audit.blocking")

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("TMARKS_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("TMARKS_DB_DSN is required")
	}

	return cfg, nil
}
