package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	JWTSecret           string
	LeaderboardCacheTTL time.Duration
	LeaderboardMaxRows  int
	ExamCompletedXP     int
	CorrectAnswerXP     int
	VideoWatchedXP      int
	CourseCompletedXP   int
	WorkerPoolSize      int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BRIGHTPATH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "BrightPath API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("leaderboard.cache_ttl", "5m")
	v.SetDefault("leaderboard.max_rows", 5000)
	v.SetDefault("xp.exam_completed", 50)
	v.SetDefault("xp.correct_answer", 0)
	v.SetDefault("xp.video_watched", 10)
	v.SetDefault("xp.course_completed", 100)
	v.SetDefault("worker.pool_size", 4)

	ttlString := v.GetString("leaderboard.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid leaderboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		JWTSecret:           v.GetString("jwt.secret"),
		LeaderboardCacheTTL: ttl,
		LeaderboardMaxRows:  v.GetInt("leaderboard.max_rows"),
		ExamCompletedXP:     v.GetInt("xp.exam_completed"),
		CorrectAnswerXP:     v.GetInt("xp.correct_answer"),
		VideoWatchedXP:      v.GetInt("xp.video_watched"),
		CourseCompletedXP:   v.GetInt("xp.course_completed"),
		WorkerPoolSize:      v.GetInt("worker.pool_size"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.LeaderboardMaxRows <= 0 {
		cfg.LeaderboardMaxRows = 5000
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 4
	}

	return cfg, nil
}
