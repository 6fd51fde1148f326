package resources

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Name         string
	Version      string
	Env          string
	LogLevel     string
	HttpHost     string
	HttpPort     string
	DebugPort    string
	DBUser       string
	DBPassword   string
	DBHost       string
	DBPort       string
	DBName       string
	Location     *time.Location
	OtelEnabled  bool
	OtelEndpoint string
}

func LoadConfig(name string, version string) (*Config, error) {
	v := viper.New()

	v.SetDefault("APP_ENV", "local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_HOST", "localhost")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DEBUG_PORT", "6060")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "evaluaciones")
	v.SetDefault("ZONA_HORARIA", "America/Santiago")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_ENDPOINT", "localhost:4317")
	v.AutomaticEnv()

	location, err := time.LoadLocation(v.GetString("ZONA_HORARIA"))
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", v.GetString("ZONA_HORARIA"), err)
	}

	return &Config{
		Name:         name,
		Version:      version,
		Env:          v.GetString("APP_ENV"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		HttpHost:     v.GetString("HTTP_HOST"),
		HttpPort:     v.GetString("HTTP_PORT"),
		DebugPort:    v.GetString("DEBUG_PORT"),
		DBUser:       v.GetString("DB_USER"),
		DBPassword:   v.GetString("DB_PASSWORD"),
		DBHost:       v.GetString("DB_HOST"),
		DBPort:       v.GetString("DB_PORT"),
		DBName:       v.GetString("DB_NAME"),
		Location:     location,
		OtelEnabled:  v.GetBool("OTEL_ENABLED"),
		OtelEndpoint: v.GetString("OTEL_ENDPOINT"),
	}, nil
}

// DatabaseURL builds the postgres connection string with the credentials escaped.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}

	return u.String()
}
