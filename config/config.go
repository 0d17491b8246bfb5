package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// 服务配置
	ServerPort  string `env:"SERVER_PORT" envDefault:"8888"`
	ServerHost  string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName string `env:"SERVICE_NAME" envDefault:"teatime-authority"`

	// PostgreSQL 配置
	PostgreSQLHost       string `env:"POSTGRESQL_HOST" envDefault:"localhost"`
	PostgreSQLPort       string `env:"POSTGRESQL_PORT" envDefault:"5432"`
	PostgreSQLUser       string `env:"POSTGRESQL_USER" envDefault:"postgres"`
	PostgreSQLPassword   string `env:"POSTGRESQL_PASSWORD" envDefault:"postgres"`
	PostgreSQLDatabase   string `env:"POSTGRESQL_DATABASE" envDefault:"teatime"`
	PostgreSQLSchema     string `env:"POSTGRESQL_SCHEMA" envDefault:"public"`
	PostgreSQLSSLMode    string `env:"POSTGRESQL_SSLMODE" envDefault:"disable"`
	PostgreSQLMaxIdle    int    `env:"POSTGRESQL_MAX_IDLE" envDefault:"30"`
	PostgreSQLMaxOpen    int    `env:"POSTGRESQL_MAX_OPEN" envDefault:"200"`
	PostgreSQLReplicaDSN string `env:"POSTGRESQL_REPLICA_DSN"` // 只读副本，空则单实例

	// Redis 配置
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"tta"`

	// RabbitMQ 配置
	RabbitMQAddr     string `env:"RABBITMQ_ADDR" envDefault:"localhost"`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUsername string `env:"RABBITMQ_USERNAME" envDefault:"guest"`
	RabbitMQPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`

	// JWT 配置
	JWTSecret        string `env:"JWT_SECRET"` // 必填，用于签名 JWT
	JWTExpireMinutes int    `env:"JWT_EXPIRE_MINUTES" envDefault:"30"`
	JWTRefreshDays   int    `env:"JWT_REFRESH_DAYS" envDefault:"7"`

	// 下午茶窗口配置，本地时间
	TeatimeHour          int `env:"TEATIME_HOUR" envDefault:"17"`
	TeatimeMinute        int `env:"TEATIME_MINUTE" envDefault:"0"`
	TeatimeWindowMinutes int `env:"TEATIME_WINDOW_MINUTES" envDefault:"10"`
	ReminderLeadMinutes  int `env:"REMINDER_LEAD_MINUTES" envDefault:"15"`

	// 罚款与捐赠策略，金额一律以便士计
	FineBaseAmountPence int64   `env:"FINE_BASE_AMOUNT_PENCE" envDefault:"500"`
	FineMaxAmountPence  int64   `env:"FINE_MAX_AMOUNT_PENCE" envDefault:"0"` // 0 表示不封顶
	FineDueDays         int     `env:"FINE_DUE_DAYS" envDefault:"14"`
	DonationRatio       float64 `env:"DONATION_RATIO" envDefault:"0.1"`

	// 照片审核服务配置
	VerifierProvider      string `env:"VERIFIER_PROVIDER" envDefault:"mock"` // vision, mock
	VisionEndpoint        string `env:"VISION_ENDPOINT"`
	VisionAPIKey          string `env:"VISION_API_KEY"`
	VisionTimeoutSeconds  int    `env:"VISION_TIMEOUT_SECONDS" envDefault:"30"`
	MockVerifierSeed      int64  `env:"MOCK_VERIFIER_SEED" envDefault:"0"`

	// 图片存储配置
	ImageStoreProvider string `env:"IMAGE_STORE_PROVIDER" envDefault:"local"` // local, mock
	ImageStoreRoot     string `env:"IMAGE_STORE_ROOT" envDefault:"./data/images"`
	ImageStoreBaseURL  string `env:"IMAGE_STORE_BASE_URL" envDefault:"http://localhost:8888/images"`

	// 推送服务配置
	PushProvider   string `env:"PUSH_PROVIDER" envDefault:"mock"` // webhook, mock
	PushWebhookURL string `env:"PUSH_WEBHOOK_URL"`

	// Snowflake ID 生成器配置
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`

	// 日志配置
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// 链路追踪配置
	TracingEnabled bool   `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"localhost:4317"`

	// 速率限制配置, 配置在中间件内
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"100"` // 每秒请求数
}

func init() {

	if err := godotenv.Load(); err != nil {

		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	Cfg = Config{}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}

	validateConfig()
}

func validateConfig() {
	if Cfg.JWTSecret == "" {
		if Cfg.IsProduction() {
			log.Fatal("JWT_SECRET is required in production")
		}
		log.Printf("WARN: JWT_SECRET is not set, using an insecure development secret")
		Cfg.JWTSecret = "teatime-dev-secret"
	}

	if Cfg.TeatimeHour < 0 || Cfg.TeatimeHour > 23 || Cfg.TeatimeMinute < 0 || Cfg.TeatimeMinute > 59 {
		log.Fatal("TEATIME_HOUR/TEATIME_MINUTE out of range")
	}

	if Cfg.TeatimeWindowMinutes <= 0 {
		log.Fatal("TEATIME_WINDOW_MINUTES must be positive")
	}

	if Cfg.FineBaseAmountPence <= 0 {
		log.Fatal("FINE_BASE_AMOUNT_PENCE must be positive")
	}

	if Cfg.DonationRatio <= 0 || Cfg.DonationRatio >= 1 {
		log.Fatal("DONATION_RATIO must be in (0, 1)")
	}

	if Cfg.VerifierProvider == "vision" && Cfg.VisionEndpoint == "" {
		log.Printf("WARN: VISION_ENDPOINT is not set, photo verification will not work")
	}

	if Cfg.PushProvider == "webhook" && Cfg.PushWebhookURL == "" {
		log.Printf("WARN: PUSH_WEBHOOK_URL is not set, push delivery will not work")
	}
}

func (c *Config) GetDSN() string {
	return "host=" + c.PostgreSQLHost +
		" port=" + c.PostgreSQLPort +
		" user=" + c.PostgreSQLUser +
		" password=" + c.PostgreSQLPassword +
		" dbname=" + c.PostgreSQLDatabase +
		" sslmode=" + c.PostgreSQLSSLMode +
		" search_path=" + c.PostgreSQLSchema
}

func (c *Config) GetRabbitMQURL() string {
	return "amqp://" + c.RabbitMQUsername + ":" + c.RabbitMQPassword + "@" + c.RabbitMQAddr + ":" + c.RabbitMQPort + c.RabbitMQVhost
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
