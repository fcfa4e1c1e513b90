// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// ErrCallTimeoutTooLong таймаут одного провайдера не помещается в бюджет запроса.
var ErrCallTimeoutTooLong = errors.New("provider call timeout exceeds request budget")

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	GRPCHealth              `yaml:"grpc_health"`
	JWTToken                `yaml:"jwttoken"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	Stripe                  Stripe     `yaml:"stripe"`
	Generation              Generation `yaml:"generation"`
	Quota                   Quota      `yaml:"quota"`
	CORS                    CORS       `yaml:"cors"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"60s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"120s"`
}

// GRPCHealth адрес gRPC health-сервера. Пустой адрес отключает сервер.
type GRPCHealth struct {
	AddressGRPC string `yaml:"address" env:"GRPC_HEALTH_ADDRESS"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"720h"`
	RefreshAfter time.Duration `yaml:"refresh_window" env-default:"168h"`
}

// RabbitMQ настройки очереди уведомлений. Пустой URL отключает очередь.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// SMTP настройки почтового транспорта. Пустой хост означает, что почта не настроена.
type SMTP struct {
	SMTPHost string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"password" env:"SMTP_PASS"`
}

// Stripe настройки платёжного провайдера.
type Stripe struct {
	SecretKey     string        `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	WebhookSecret string        `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	PriceID       string        `yaml:"price_id" env:"STRIPE_PRICE_ID"`
	FrontendURL   string        `yaml:"frontend_url" env:"FRONTEND_URL"`
	Tolerance     time.Duration `yaml:"tolerance" env-default:"300s"`
}

// Generation настройки провайдеров генерации идей.
type Generation struct {
	GroqAPIKey      string        `yaml:"groq_api_key" env:"GROQ_API_KEY"`
	GroqBaseURL     string        `yaml:"groq_base_url" env-default:"https://api.groq.com/openai/v1"`
	GroqModel       string        `yaml:"groq_model" env-default:"llama-3.3-70b-versatile"`
	VertexProject   string        `yaml:"vertex_project" env:"GOOGLE_CLOUD_PROJECT"`
	VertexLocation  string        `yaml:"vertex_location" env:"GOOGLE_CLOUD_LOCATION" env-default:"us-central1"`
	VertexModel     string        `yaml:"vertex_model" env-default:"gemini-2.0-flash-001"`
	CredentialsFile string        `yaml:"credentials_file" env:"GOOGLE_APPLICATION_CREDENTIALS"`
	CallTimeout     time.Duration `yaml:"call_timeout" env-default:"30s"`
	// DisableStaticFallback отключает выдачу шаблонных идей, когда все провайдеры недоступны.
	DisableStaticFallback bool `yaml:"disable_static_fallback"`
}

// generationReserve запас времени между бюджетом генерации и таймаутом записи
// на чтение тела, статический каталог и запись ответа.
const generationReserve = 5 * time.Second

// Quota лимиты генераций для анонимных и бесплатных пользователей.
type Quota struct {
	AnonLimit  int           `yaml:"anon_limit" env-default:"3"`
	AnonWindow time.Duration `yaml:"anon_window" env-default:"24h"`
	FreeLimit  int           `yaml:"free_limit" env-default:"5"`
	FreeWindow time.Duration `yaml:"free_window" env-default:"168h"`
}

// CORS разрешённый источник запросов.
type CORS struct {
	AllowedOrigin string `yaml:"allowed_origin" env:"CORS_ALLOWED_ORIGIN" env-default:"http://localhost:5173"`
}

// MustLoad функция для загрузки конфига, возвращает конфиг, сгенерированный из config/config.go
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}
	return &cfg
}

// GenerationBudget суммарное время на опрос провайдеров генерации.
// Бюджет заканчивается раньше таймаута записи сервера, чтобы статические идеи успели уйти клиенту.
func (c *Config) GenerationBudget() time.Duration {
	return c.TimeoutHTTP - generationReserve
}

// Validate проверяет согласованность таймаутов.
func (c *Config) Validate() error {
	const op = "config.Validate"

	budget := c.GenerationBudget()
	if budget <= 0 {
		return fmt.Errorf("%s: http_server.timeouthttp %s must exceed %s", op, c.TimeoutHTTP, generationReserve)
	}
	if c.Generation.CallTimeout > budget {
		return fmt.Errorf("%s: %w: generation.call_timeout %s, budget %s", op, ErrCallTimeoutTooLong, c.Generation.CallTimeout, budget)
	}
	return nil
}

// BillingConfigured сообщает, заданы ли ключи и цена Stripe.
func (c *Config) BillingConfigured() bool {
	return c.Stripe.SecretKey != "" && c.Stripe.PriceID != ""
}

// MailConfigured сообщает, задан ли SMTP-сервер.
func (c *Config) MailConfigured() bool {
	return c.SMTPHost != ""
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"Billing configured: %t\n"+
			"Mail configured: %t\n"+
			"Quota: anon %d/%s, free %d/%s\n",
		c.Env,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
		c.BillingConfigured(),
		c.MailConfigured(),
		c.Quota.AnonLimit, c.Quota.AnonWindow,
		c.Quota.FreeLimit, c.Quota.FreeWindow,
	)
}
