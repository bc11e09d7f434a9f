package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort         string `mapstructure:"SERVER_PORT"`
	DbName             string `mapstructure:"POSTGRES_DB"`
	DbHost             string `mapstructure:"POSTGRES_HOST"`
	DbPort             string `mapstructure:"POSTGRES_PORT"`
	DbUser             string `mapstructure:"POSTGRES_USER"`
	DbPas              string `mapstructure:"POSTGRES_PASSWORD"`
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int    `mapstructure:"REDIS_DB"`
	RedisPrefix        string `mapstructure:"REDIS_PREFIX"`
	KafkaBrokers       string `mapstructure:"KAFKA_BROKERS"`
	KafkaSenderTopic   string `mapstructure:"KAFKA_SENDER_TOPIC"`
	KafkaReceiverTopic string `mapstructure:"KAFKA_RECEIVER_TOPIC"`
	KafkaResultTopic   string `mapstructure:"KAFKA_RESULT_TOPIC"`
	KafkaGroupID       string `mapstructure:"KAFKA_GROUP_ID"`
	JwtSecret          string `mapstructure:"JWT_SECRET"`
}

// Brokers KAFKA_BROKERS 以逗號分隔
func (c *Config) Brokers() []string {
	parts := strings.Split(c.KafkaBrokers, ",")
	brokers := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}

// LoadConfig 讀取 app.env，環境變數優先
func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("POSTGRES_DB", "storefront")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "password")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_PREFIX", "")
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_SENDER_TOPIC", "payments.status.sender")
	viper.SetDefault("KAFKA_RECEIVER_TOPIC", "payments.status.receiver")
	viper.SetDefault("KAFKA_RESULT_TOPIC", "payments.results")
	viper.SetDefault("KAFKA_GROUP_ID", "storefront-payments")
	viper.SetDefault("JWT_SECRET", "")

	if err := viper.ReadInConfig(); err != nil {
		// 設定檔非必要，找不到時只用環境變數與預設值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
