package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the server configuration, read from the environment after
// godotenv has run.
type Config struct {
	HTTPPort  string
	MongoURI  string
	MongoDB   string
	RedisAddr string
	JWTSecret string

	RoomIdleTimeout time.Duration
	PlayerTimeout   time.Duration
	AnswerTime      time.Duration
	SweepInterval   time.Duration

	DetectionBonus int
	EvasionBonus   int

	LogPretty bool
}

// Load reads the environment, falling back to development defaults.
func Load() *Config {
	return &Config{
		HTTPPort:  getEnv("PORT", "8080"),
		MongoURI:  getEnv("MONGO_URI", ""),
		MongoDB:   getEnv("MONGO_DB", "numberhunt"),
		RedisAddr: getEnv("REDIS_ADDR", ""),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-production"),

		RoomIdleTimeout: getEnvDuration("ROOM_IDLE_TIMEOUT", time.Hour),
		PlayerTimeout:   getEnvDuration("PLAYER_TIMEOUT", 90*time.Second),
		AnswerTime:      getEnvDuration("ANSWER_TIME", 2*time.Minute),
		SweepInterval:   getEnvDuration("SWEEP_INTERVAL", time.Minute),

		DetectionBonus: getEnvInt("DETECTION_BONUS", 2),
		EvasionBonus:   getEnvInt("EVASION_BONUS", 3),

		LogPretty: getEnv("LOG_PRETTY", "") != "",
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
