package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr           string
	MongoURI       string
	Database       string
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
	RateLimits     RateLimits
}

type RateLimits struct {
	PostPerMinute    int
	CommentPerMinute int
}

func Load() Config {
	addr := envString("KOTHA_ADDR", "")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}
	return Config{
		Addr:           addr,
		MongoURI:       envString("KOTHA_MONGO_URI", "mongodb://localhost:27017"),
		Database:       envString("KOTHA_DB", "kothaDB"),
		JWTSecret:      envString("KOTHA_JWT_SECRET", "dev-jwt-secret"),
		TokenTTL:       envDuration("KOTHA_TOKEN_TTL", time.Hour),
		AllowedOrigins: envList("KOTHA_CORS_ORIGINS"),
		RateLimits: RateLimits{
			PostPerMinute:    envInt("KOTHA_RL_POST_PER_MIN", 30),
			CommentPerMinute: envInt("KOTHA_RL_COMMENT_PER_MIN", 60),
		},
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
