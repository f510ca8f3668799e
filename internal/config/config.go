package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	BaseURL     string
	JWTSecret   string
	SessionTTL  time.Duration
	CORSOrigins []string

	ScyllaHosts    []string
	ScyllaKeyspace string
	ScyllaUser     string
	ScyllaPassword string

	RedisHost     string
	RedisPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string

	RabbitMQURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	PixKey      string
	PixMerchant string
	PixCity     string
}

func Load() Config {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Nenhum arquivo .env encontrado, seguimos com as variáveis de ambiente do sistema")
	} else {
		log.Println("✅ Arquivo .env carregado com sucesso")
	}

	return Config{
		Port:        getEnv("PORT", "8080"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		SessionTTL:  getDuration("SESSION_TTL", 24*time.Hour),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		ScyllaHosts:    splitList(getEnv("SCYLLA_HOSTS", "127.0.0.1")),
		ScyllaKeyspace: getEnv("SCYLLA_KEYSPACE", "feira"),
		ScyllaUser:     os.Getenv("SCYLLA_USER"),
		ScyllaPassword: os.Getenv("SCYLLA_PASSWORD"),

		RedisHost:     getEnv("REDIS_HOST", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "feira"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",

		ElasticURL:      os.Getenv("ELASTIC_URL"),
		ElasticUser:     os.Getenv("ELASTIC_USER"),
		ElasticPassword: os.Getenv("ELASTIC_PASSWORD"),

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "nao-responda@feira.app"),

		PixKey:      os.Getenv("PIX_KEY"),
		PixMerchant: getEnv("PIX_MERCHANT_NAME", "FEIRA"),
		PixCity:     getEnv("PIX_MERCHANT_CITY", "SAO PAULO"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
