package env

import "os"

// Get returns the value of the environment variable key, or fallback when unset.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
