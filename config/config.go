package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort       string `mapstructure:"HTTP_PORT"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	AccessSecret   string `mapstructure:"ACCESS_SECRET"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	CatalogFile    string `mapstructure:"CATALOG_FILE"`
}

// DSN for the postgres driver.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", ":8080")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CATALOG_FILE", "catalog.yaml")

	// Bind explicitly so env-only deployments work without app.env.
	v.BindEnv("HTTP_PORT")
	v.BindEnv("DB_HOST")
	v.BindEnv("DB_PORT")
	v.BindEnv("DB_USER")
	v.BindEnv("DB_PASSWORD")
	v.BindEnv("DB_NAME")
	v.BindEnv("REDIS_ADDR")
	v.BindEnv("ACCESS_SECRET")
	v.BindEnv("ALLOWED_ORIGINS")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("CATALOG_FILE")

	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = v.Unmarshal(&config)
	return
}

// ValidateServe checks the settings only the HTTP server needs.
func (c Config) ValidateServe() error {
	if c.AccessSecret == "" {
		return fmt.Errorf("ACCESS_SECRET is required")
	}
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT is required")
	}
	return nil
}
