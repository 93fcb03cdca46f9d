package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port              string
	DiscussionSeconds int
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.DiscussionSeconds = getenvInt("DISCUSSION_SECONDS", 90)
	return c
}

func (c Config) DiscussionDuration() time.Duration {
	return time.Duration(c.DiscussionSeconds) * time.Second
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
