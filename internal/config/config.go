package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"prompt-server/shared/utils"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

// Поддерживаемые реализации AI клиента.
const (
	AIClientOpenAI = "openai"
	AIClientOllama = "ollama"
)

// apiKeySecretName - имя файла Docker Secret с ключом API.
const apiKeySecretName = "gemini_api_key"

// Config содержит конфигурацию сервиса. Читается один раз при старте и дальше не меняется.
type Config struct {
	Env      string `envconfig:"ENV" default:"development"`
	Port     string `envconfig:"PORT" default:"3000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// json или console
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	// Настройки AI. По умолчанию Gemini через OpenAI-совместимый endpoint.
	AIClientType string        `envconfig:"AI_CLIENT_TYPE" default:"openai"`
	AIBaseURL    string        `envconfig:"AI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai"`
	AIModel      string        `envconfig:"AI_MODEL" default:"gemini-2.5-flash"`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
	// Секретное поле БЕЗ envconfig тега
	AIAPIKey string `ignored:"true"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS"`
	StaticDir          string `envconfig:"STATIC_DIR"`
	MetricsEnabled     bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// LoadConfig загружает .env (если есть), переменные окружения и секрет с ключом API.
// Отсутствие ключа не ошибка: запросы к AI будут завершаться ошибкой, которую увидит пользователь.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	if key, ok := utils.FirstNonEmptyEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"); ok {
		cfg.AIAPIKey = key
	} else if key, err := utils.ReadSecret(apiKeySecretName); err == nil {
		cfg.AIAPIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет значения, без которых сервис не может стартовать.
func (c *Config) Validate() error {
	var errs []error
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %q", c.Port))
	}
	switch strings.ToLower(c.AIClientType) {
	case AIClientOpenAI, AIClientOllama:
	default:
		errs = append(errs, fmt.Errorf("unknown AI_CLIENT_TYPE %q", c.AIClientType))
	}
	if c.AITimeout <= 0 {
		errs = append(errs, fmt.Errorf("AI_TIMEOUT must be positive, got %v", c.AITimeout))
	}
	if strings.TrimSpace(c.AIModel) == "" {
		errs = append(errs, errors.New("AI_MODEL must not be empty"))
	}
	return errors.Join(errs...)
}

// IsDevelopment сообщает, запущен ли сервис в режиме разработки.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// GetAllowedOrigins разбирает CORS_ALLOWED_ORIGINS. Пустой список означает "разрешить все".
func (c *Config) GetAllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// LogFields возвращает конфигурацию для логирования (без ключа API).
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("env", c.Env),
		zap.String("port", c.Port),
		zap.String("logLevel", c.LogLevel),
		zap.String("aiClientType", c.AIClientType),
		zap.String("aiBaseURL", c.AIBaseURL),
		zap.String("aiModel", c.AIModel),
		zap.Duration("aiTimeout", c.AITimeout),
		zap.Bool("aiAPIKeyLoaded", c.AIAPIKey != ""),
		zap.Strings("corsAllowedOrigins", c.GetAllowedOrigins()),
		zap.String("staticDir", c.StaticDir),
		zap.Bool("metricsEnabled", c.MetricsEnabled),
	}
}
