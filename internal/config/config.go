package config

import (
	"os"
	"strconv"
	"strings"
)

// Config конфигурация приложения.
// Загружается из переменных окружения с значениями по умолчанию,
// индексы столбцов листов задаются отдельным YAML-профилем.
type Config struct {
	// Профиль листов
	ProfilePath string

	// Обработка
	ChunkSize int

	// Каскад сопоставления
	CandidateThreshold   float64
	AcceptThreshold      float64
	FuzzyCandidateCap    int
	CounterpartyKeywords []string

	// Логирование
	LogLevel string
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	config := &Config{
		ProfilePath:          getEnv("COSTCALC_PROFILE", ""),
		ChunkSize:            getEnvInt("COSTCALC_CHUNK_SIZE", 500),
		CandidateThreshold:   getEnvFloat("COSTCALC_CANDIDATE_THRESHOLD", 0.6),
		AcceptThreshold:      getEnvFloat("COSTCALC_ACCEPT_THRESHOLD", 0.75),
		FuzzyCandidateCap:    getEnvInt("COSTCALC_FUZZY_CANDIDATE_CAP", 2000),
		CounterpartyKeywords: getEnvList("COSTCALC_COUNTERPARTY_KEYWORDS", []string{"ск тпх", "ск татпром-холдинг"}),
		LogLevel:             getEnv("COSTCALC_LOG_LEVEL", "info"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ";")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
