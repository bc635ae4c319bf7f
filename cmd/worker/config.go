package main

import (
	"log"
	"strconv"

	"scholarsync-backend/internal/shared/utils"
)

// Config holds worker-level configuration.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
}

// loadConfig loads worker configuration from environment variables
func loadConfig() *Config {
	db, err := strconv.Atoi(utils.GetEnvVariable("REDIS_DB", "0"))
	if err != nil {
		db = 0
	}

	concurrency, err := strconv.Atoi(utils.GetEnvVariable("WORKER_CONCURRENCY", "10"))
	if err != nil {
		concurrency = 10
	}

	cfg := &Config{
		RedisAddr:     utils.GetEnvVariable("REDIS_HOST", "localhost:6379"),
		RedisPassword: utils.GetEnvVariable("REDIS_PASSWORD", ""),
		RedisDB:       db,
		Concurrency:   concurrency,
	}

	log.Printf("[Config] Redis: %s, Concurrency: %d", cfg.RedisAddr, cfg.Concurrency)

	return cfg
}
