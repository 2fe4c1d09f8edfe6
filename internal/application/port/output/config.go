package output

import "time"

// ConfigPort reads settings by key. The typed getters return defaultValue
// when the key is unset or does not parse.
type ConfigPort interface {
	Get(key string) string
	GetWithDefault(key string, defaultValue string) string
	GetBool(key string, defaultValue bool) bool
	GetDuration(key string, defaultValue time.Duration) time.Duration
}
