package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	Environment       string
	DatabasePath      string
	SessionSecret     string
	UploadDir         string
	MaxUploadSize     int64
	EvolutionBaseURL  string
	EvolutionInstance string
	EvolutionAPIKey   string
}

func Load() *Config {
	if envFile, ok := os.LookupEnv("CONTEUDOTESTE_ENV_FILE"); ok {
		_ = godotenv.Load(envFile)
	} else {
		_ = godotenv.Load()
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		DatabasePath:      getEnv("DATABASE_PATH", "./data/conteudoteste.db"),
		SessionSecret:     getEnv("SESSION_SECRET", "segredo-super-seguro-change-in-production"),
		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize:     parseInt64(getEnv("MAX_UPLOAD_SIZE", "10485760")), // 10MB default
		EvolutionBaseURL:  strings.TrimRight(getEnv("EVOLUTION_BASE_URL", ""), "/"),
		EvolutionInstance: getEnv("EVOLUTION_INSTANCE", ""),
		EvolutionAPIKey:   getEnv("EVOLUTION_API_KEY", ""),
	}
}

// Validate reports missing required values. The gateway settings have no
// sensible defaults, so a blank value means the conversation pages cannot
// work at all.
func (c *Config) Validate() error {
	var missing []string
	if c.EvolutionBaseURL == "" {
		missing = append(missing, "EVOLUTION_BASE_URL")
	}
	if c.EvolutionInstance == "" {
		missing = append(missing, "EVOLUTION_INSTANCE")
	}
	if c.EvolutionAPIKey == "" {
		missing = append(missing, "EVOLUTION_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseInt64(s string) int64 {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 10485760 // 10MB default
	}
	return val
}
