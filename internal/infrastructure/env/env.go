package env

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"goalhk/internal/application/port/output"
)

var _ output.ConfigPort = (*EnvService)(nil)

// EnvService reads the process environment. Values loaded from .env files
// end up there too.
type EnvService struct {
	// Loaded lists the env files that were applied, in order.
	Loaded []string
}

// NewEnvService applies .env and then .env.<APP_ENV> (default "dev") to the
// process environment. The second file overrides the first; process
// variables set before start win over .env but not over .env.<APP_ENV>.
// Missing or unreadable files are skipped.
func NewEnvService() *EnvService {
	e := &EnvService{}

	if err := godotenv.Load(".env"); err == nil {
		e.Loaded = append(e.Loaded, ".env")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}
	overlay := ".env." + appEnv
	if err := godotenv.Overload(overlay); err == nil {
		e.Loaded = append(e.Loaded, overlay)
	}

	return e
}

// NewProcessEnv reads the process environment only, without touching .env files.
func NewProcessEnv() *EnvService {
	return &EnvService{}
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}

func (e *EnvService) GetWithDefault(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	return parseOr(key, defaultValue, strconv.ParseBool)
}

func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	return parseOr(key, defaultValue, time.ParseDuration)
}

func parseOr[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}
