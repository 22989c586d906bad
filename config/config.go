package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Line     LineConfig
	Shop     ShopConfig
	Observ   ObservabilityConfig
	Business BusinessConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Path string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers       []string
	TopicContract string
	ConsumerGroup string
}

type LineConfig struct {
	ChannelToken string
	RecipientID  string
}

type ShopConfig struct {
	Name     string
	Address  string
	TaxID    string
	Signer   string
	ImageDir string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

type BusinessConfig struct {
	ContractPrefix      string
	CustomerPrefix      string
	DefaultDays         int
	DefaultInterestRate float64
	ForfeitScanMinutes  int
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	defaultDays, _ := strconv.Atoi(getEnv("DEFAULT_CONTRACT_DAYS", "30"))
	defaultRate, _ := strconv.ParseFloat(getEnv("DEFAULT_INTEREST_RATE", "3"), 64)
	scanMinutes, _ := strconv.Atoi(getEnv("FORFEIT_SCAN_MINUTES", "60"))

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "pawnshop.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			TopicContract: getEnv("KAFKA_TOPIC_CONTRACT_EVENTS", "contract-events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "pawnshop-service-group"),
		},
		Line: LineConfig{
			ChannelToken: getEnv("LINE_CHANNEL_TOKEN", ""),
			RecipientID:  getEnv("LINE_RECIPIENT_ID", ""),
		},
		Shop: ShopConfig{
			Name:     getEnv("SHOP_NAME", ""),
			Address:  getEnv("SHOP_ADDRESS", ""),
			TaxID:    getEnv("SHOP_TAX_ID", ""),
			Signer:   getEnv("SHOP_SIGNER", ""),
			ImageDir: getEnv("PRODUCT_IMAGE_DIR", "product_images"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
		Business: BusinessConfig{
			ContractPrefix:      getEnv("CONTRACT_PREFIX", "CN"),
			CustomerPrefix:      getEnv("CUSTOMER_PREFIX", "C"),
			DefaultDays:         defaultDays,
			DefaultInterestRate: defaultRate,
			ForfeitScanMinutes:  scanMinutes,
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, db=%s", cfg.Server.Env, cfg.Server.Port, cfg.Database.Path)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
