package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HttpAddr         string
	UploadDir        string
	DatasetTTL       time.Duration
	DelimiterSymbol  string
	CategoryCap      int
	MaxPathsRendered int
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the singleton configuration instance
func GetConfig() *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil {
			log.Println("no .env file, using environment and defaults")
		}

		config = &Config{
			HttpAddr:         getEnv("HTTP_ADDR", ":8005"),
			UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
			DatasetTTL:       time.Duration(getEnvInt("DATASET_TTL_HOURS", 24)) * time.Hour,
			DelimiterSymbol:  getEnv("DELIMITER_SYMBOL", "|"),
			CategoryCap:      getEnvInt("CATEGORY_CAP", 10),
			MaxPathsRendered: getEnvInt("MAX_PATHS_RENDERED", 100),
		}
	})
	return config
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
