package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const EnvLocal = "local"

type SettlementConfig struct {
	Env          string `yaml:"env" env:"SETTLEMENT_ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	SettlementDB `yaml:"settlement_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	Redis        `yaml:"redis"`
	Settlement   `yaml:"settlement"`
	Performance  `yaml:"performance"`
	Auth         `yaml:"auth"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50051"`
}

type SettlementDB struct {
	// Dsn может быть пустым только в env local: тогда используется хранилище в памяти
	Dsn             string        `yaml:"dsn" env:"SETTLEMENT_DB_DSN"`
	MigrationsPath  string        `yaml:"migrations_path" env-default:"migrations"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"20"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"30m"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

type KafkaService struct {
	Brokers      []string      `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	TopicPrefix  string        `yaml:"topic_prefix"`
	Async        bool          `yaml:"async"`
	BatchSize    int           `yaml:"batch_size" env-default:"100"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"10s"`
}

type Redis struct {
	Addr        string        `yaml:"addr" env:"REDIS_ADDR"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB          int           `yaml:"db"`
	LockTTL     time.Duration `yaml:"lock_ttl" env-default:"10s"`
	LockTimeout time.Duration `yaml:"lock_timeout" env-default:"5s"`
}

type Settlement struct {
	// MoneyScale - число знаков после запятой в суммах: 0 для VND, 2 для USD.
	MoneyScale           int32  `yaml:"money_scale"`
	CommissionTimePolicy string `yaml:"commission_time_policy" env-default:"transition"`
	DefaultFeeType       string `yaml:"default_fee_type" env-default:"PERCENTAGE"`
	DefaultGlobalRate    string `yaml:"default_global_rate" env-default:"5"`
}

type Performance struct {
	Disabled      bool          `yaml:"disabled"`
	Interval      time.Duration `yaml:"interval" env-default:"24h"`
	RevenueWeight float64       `yaml:"revenue_weight" env-default:"40"`
	OrdersWeight  float64       `yaml:"orders_weight" env-default:"30"`
	RatingWeight  float64       `yaml:"rating_weight" env-default:"20"`
	GMVWeight     float64       `yaml:"gmv_weight" env-default:"10"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"SETTLEMENT_JWT_SECRET"`
	Issuer    string `yaml:"issuer"`
}

// Load читает YAML по пути path; переменные окружения перекрывают файл.
func Load(path string) (*SettlementConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg SettlementConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if cfg.CommissionTimePolicy != "transition" && cfg.CommissionTimePolicy != "creation" {
		return nil, fmt.Errorf("unknown commission_time_policy %q", cfg.CommissionTimePolicy)
	}
	if cfg.Dsn == "" && cfg.Env != EnvLocal {
		return nil, fmt.Errorf("settlement_db.dsn is required in env %q", cfg.Env)
	}
	if cfg.JWTSecret == "" && cfg.Env != EnvLocal {
		return nil, fmt.Errorf("auth.jwt_secret is required in env %q", cfg.Env)
	}
	if cfg.MoneyScale < 0 {
		return nil, fmt.Errorf("money_scale must not be negative")
	}
	return &cfg, nil
}

func MustLoad() *SettlementConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	// Processing env config variable and file
	configPath := os.Getenv("SETTLEMENT_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("SETTLEMENT_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	return cfg
}
