package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type TripConfig struct {
	SourceZone        string
	TargetZone        string
	StartMarkers      []string
	EndMarkers        []string
	MatchRadiusM      float64
	MinStopMinutes    float64
	SpecialClientKeys []string
	HomeBaseSentinel  string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Trip        TripConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Trip: TripConfig{
			SourceZone:        v.GetString("TRIP_SOURCE_ZONE"),
			TargetZone:        v.GetString("TRIP_TARGET_ZONE"),
			StartMarkers:      parseList(v.GetString("TRIP_START_MARKERS")),
			EndMarkers:        parseList(v.GetString("TRIP_END_MARKERS")),
			MatchRadiusM:      v.GetFloat64("TRIP_MATCH_RADIUS_M"),
			MinStopMinutes:    v.GetFloat64("TRIP_MIN_STOP_MINUTES"),
			SpecialClientKeys: parseList(v.GetString("TRIP_SPECIAL_CLIENT_KEYS")),
			HomeBaseSentinel:  v.GetString("TRIP_HOME_BASE_SENTINEL"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Trip.SourceZone == "" {
		cfg.Trip.SourceZone = "America/Mexico_City"
	}
	if cfg.Trip.TargetZone == "" {
		cfg.Trip.TargetZone = "America/Tijuana"
	}
	if len(cfg.Trip.StartMarkers) == 0 {
		cfg.Trip.StartMarkers = []string{"inicio de viaje"}
	}
	if len(cfg.Trip.EndMarkers) == 0 {
		cfg.Trip.EndMarkers = []string{"fin de viaje"}
	}
	if cfg.Trip.MatchRadiusM == 0 {
		cfg.Trip.MatchRadiusM = 50
	}
	if cfg.Trip.MinStopMinutes == 0 {
		cfg.Trip.MinStopMinutes = 2
	}
	if cfg.Trip.HomeBaseSentinel == "" {
		cfg.Trip.HomeBaseSentinel = "EMPLEADO TME"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
