package config

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnv overrides file values from SOLITARIO_* environment variables.
// Malformed values are ignored.
func (c *Config) ApplyEnv() {
	if dir := os.Getenv("SOLITARIO_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if seed, ok := getEnvInt64("SOLITARIO_SEED"); ok {
		c.Seed = seed
	}
	if val := os.Getenv("SOLITARIO_WARNINGS"); val != "" {
		if marks, ok := parseMinutes(val); ok {
			c.Timer.WarningMinutes = marks
		}
	}
}

func getEnvInt64(key string) (int64, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	num, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// parseMinutes reads "10,5,1". An empty list or "none" disables warnings.
func parseMinutes(val string) ([]int, bool) {
	if strings.EqualFold(strings.TrimSpace(val), "none") {
		return []int{}, true
	}
	var out []int
	for _, f := range strings.Split(val, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n <= 0 {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}
