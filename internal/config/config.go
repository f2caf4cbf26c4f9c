package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	CatalogPath string

	RouteCacheTTL         time.Duration
	RouteCacheMaxEntries  int
	MaxStopsPerRoute      int
	ConsolidationRadiusKm float64
	PriorityDiscount      float64
	AverageSpeedKmh       float64
	RouteTimeout          time.Duration
	MaxPackUnits          int
	MaxRouteStops         int
	Workers               int

	RateLimitRPS   float64
	RateLimitBurst int

	// ORS geocoding is used by dbtool to resolve seeded addresses.
	ORSAPIKey  string
	ORSBaseURL string
	ORSCountry string
	SeedPath   string
}

// Load reads a .env file when present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	var errs []string
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	cfg := Config{
		Port:        Get("PORT", "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:    strings.TrimSpace(os.Getenv("REDIS_URL")),
		CatalogPath: Get("CATALOG_PATH", "config/vehicles.yaml"),
		ORSAPIKey:   strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		ORSBaseURL:  Get("ORS_BASE_URL", "https://api.openrouteservice.org"),
		ORSCountry:  Get("ORS_COUNTRY", ""),
		SeedPath:    Get("SEED_PATH", "data/seeds/shipments.json"),
	}

	var err error
	cfg.RouteCacheTTL, err = GetDuration("ROUTE_CACHE_TTL", 10*time.Minute)
	collect(err)
	cfg.RouteCacheMaxEntries, err = GetInt("ROUTE_CACHE_MAX_ENTRIES", 10000)
	collect(err)
	cfg.MaxStopsPerRoute, err = GetInt("MAX_STOPS_PER_ROUTE", 15)
	collect(err)
	cfg.ConsolidationRadiusKm, err = GetFloat("CONSOLIDATION_RADIUS_KM", 5)
	collect(err)
	cfg.PriorityDiscount, err = GetFloat("PRIORITY_DISCOUNT", 0.1)
	collect(err)
	cfg.AverageSpeedKmh, err = GetFloat("AVERAGE_SPEED_KMH", 40)
	collect(err)
	cfg.RouteTimeout, err = GetDuration("ROUTE_TIMEOUT", 2*time.Second)
	collect(err)
	cfg.MaxPackUnits, err = GetInt("MAX_PACK_UNITS", 5000)
	collect(err)
	cfg.MaxRouteStops, err = GetInt("MAX_ROUTE_STOPS", 2000)
	collect(err)
	cfg.Workers, err = GetInt("WORKERS", 4)
	collect(err)
	cfg.RateLimitRPS, err = GetFloat("RATE_LIMIT_RPS", 20)
	collect(err)
	cfg.RateLimitBurst, err = GetInt("RATE_LIMIT_BURST", 40)
	collect(err)

	if cfg.PriorityDiscount < 0 || cfg.PriorityDiscount >= 0.25 {
		errs = append(errs, fmt.Sprintf("PRIORITY_DISCOUNT must be in [0, 0.25), got %v", cfg.PriorityDiscount))
	}
	if cfg.ConsolidationRadiusKm < 0 {
		errs = append(errs, fmt.Sprintf("CONSOLIDATION_RADIUS_KM must be >= 0, got %v", cfg.ConsolidationRadiusKm))
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("load config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// Get returns the value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: parse int %q: %w", key, v, err)
	}
	return n, nil
}

func GetFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s: parse float %q: %w", key, v, err)
	}
	return f, nil
}

// GetDuration accepts Go duration strings such as "750ms" or "10m".
func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: parse duration %q: %w", key, v, err)
	}
	return d, nil
}
