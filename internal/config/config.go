package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Format         string
	Template       bool
	WorkerCount    int
	ParseCacheSize int
	GitBinary      string
	HeadRef        string
	Timezone       string
	ExcludePaths   []string
	LogLevel       string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	return &Config{
		Format:         getEnv("L10N_FORMAT", "po"),
		Template:       getEnvBool("L10N_TEMPLATE", false),
		WorkerCount:    getEnvInt("WORKER_COUNT", 1),
		ParseCacheSize: getEnvInt("PARSE_CACHE_SIZE", 512),
		GitBinary:      getEnv("GIT_BINARY", "git"),
		HeadRef:        getEnv("HEAD_REF", "master"),
		Timezone:       getEnv("STATS_TIMEZONE", "Europe/Paris"),
		ExcludePaths:   getEnvList("EXCLUDE_PATHS"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", c.Timezone).Msg("Unknown timezone, using UTC")
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
