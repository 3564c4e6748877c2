package config

import (
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultHTTPTimeout  = 30 * time.Second
	defaultLockExpiry   = 10 * time.Second
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second
	defaultConnLifetime = 5 * time.Minute
)

// parseDuration розбирає рядок тривалості з конфігурації; порожній або невалідний рядок дає fallback
func parseDuration(name, value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 {
		logrus.WithFields(logrus.Fields{
			"setting": name,
			"value":   value,
		}).Warnf("Invalid duration, using default %s", fallback)
		return fallback
	}
	return parsed
}
