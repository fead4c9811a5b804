package shared

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func GetEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetEnvAsInt(key string) int {
	if value := GetEnv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return 0
}

// ParseEnvAsInt is GetEnvAsInt for values where a typo must not silently
// turn into 0. It returns the raw value alongside the parse error.
func ParseEnvAsInt(key string) (int, string, error) {
	value := GetEnv(key)
	if value == "" {
		return 0, "", nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, value, fmt.Errorf("%s: %w", key, err)
	}
	return intValue, value, nil
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	if value := GetEnv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetEnvAsDuration(key string) time.Duration {
	if value := GetEnv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}

	return time.Duration(0)
}
