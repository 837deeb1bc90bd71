package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	// VAPID key pair used to sign web push deliveries. Subscriber is the
	// contact mailto/URL required by the push protocol.
	VAPID struct {
		PublicKey  string `yaml:"public_key"`
		PrivateKey string `yaml:"private_key"`
		Subscriber string `yaml:"subscriber"`
	} `yaml:"vapid"`

	Push struct {
		TimeoutSeconds int  `yaml:"timeout_seconds"` // per-endpoint send deadline
		VerifyWrites   bool `yaml:"verify_writes"`   // read-back check after registry upsert
	} `yaml:"push"`

	Workers struct {
		LowStockIntervalHours int `yaml:"low_stock_interval_hours"`
		LowStockThreshold     int `yaml:"low_stock_threshold"`
		CleanupDays           int `yaml:"cleanup_days"`
	} `yaml:"workers"`
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	// Environment-variable mode (tests, containers)
	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = os.Getenv("EMAIL_FROM")
	cfg.Email.FromName = "UniPlug"

	cfg.VAPID.PublicKey = os.Getenv("VAPID_PUBLIC_KEY")
	cfg.VAPID.PrivateKey = os.Getenv("VAPID_PRIVATE_KEY")
	cfg.VAPID.Subscriber = os.Getenv("VAPID_SUBSCRIBER")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Push.TimeoutSeconds <= 0 {
		cfg.Push.TimeoutSeconds = 10
	}
	if cfg.Workers.LowStockIntervalHours <= 0 {
		cfg.Workers.LowStockIntervalHours = 6
	}
	if cfg.Workers.LowStockThreshold <= 0 {
		cfg.Workers.LowStockThreshold = 5
	}
	if cfg.Workers.CleanupDays <= 0 {
		cfg.Workers.CleanupDays = 30
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "UniPlug"
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
