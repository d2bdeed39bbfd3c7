// Package config provides configuration management for the PayParts gateway service.
// Configuration can be loaded from YAML files and overridden by environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the PayParts gateway service.
// Environment variables take precedence over YAML values.
type Config struct {
	IsDebug bool `yaml:"is_debug" env:"DEBUG" env-default:"false"`
	Listen  struct {
		BindIP   string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
		Port     string `yaml:"port" env:"PORT" env-default:"5100"`
		TLS      bool   `yaml:"tls_enabled" env:"TLS_ENABLED" env-default:"false"`
		CertFile string `yaml:"cert_file" env:"TLS_CERT_FILE" env-default:""`
		KeyFile  string `yaml:"key_file" env:"TLS_KEY_FILE" env-default:""`
	} `yaml:"listen"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:""`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"payparts"`
	} `yaml:"mongo"`
	Store struct {
		Id          string        `yaml:"id" env:"STORE_ID" env-default:""`
		Password    string        `yaml:"password" env:"STORE_PASSWORD" env-default:""`
		ApiUrl      string        `yaml:"api_url" env:"STORE_API_URL" env-default:"https://payparts2.privatbank.ua/ipp/v2"`
		QrUrl       string        `yaml:"qr_url" env:"STORE_QR_URL" env-default:"https://payparts2.privatbank.ua/ipp/qr/generate"`
		ResponseUrl string        `yaml:"response_url" env:"STORE_RESPONSE_URL" env-default:""`
		RedirectUrl string        `yaml:"redirect_url" env:"STORE_REDIRECT_URL" env-default:""`
		Timeout     time.Duration `yaml:"timeout" env:"STORE_TIMEOUT" env-default:"30s"`
	} `yaml:"store"`
	Payment struct {
		PartsCount   int    `yaml:"parts_count" env:"PAYMENT_PARTS_COUNT" env-default:"2"`
		MerchantType string `yaml:"merchant_type" env:"PAYMENT_MERCHANT_TYPE" env-default:"PP"`
	} `yaml:"payment"`
	Kafka struct {
		Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
		Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:"," env-default:"127.0.0.1:9092"`
		Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"payparts.callbacks"`
	} `yaml:"kafka"`
}

// GetConfig loads configuration from the specified YAML file path. A .env
// file in the working directory, when present, is loaded into the
// environment first. Every call reads the sources again.
//
// Example:
//
//	conf, err := config.GetConfig("config.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func GetConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	conf := &Config{}
	if err := cleanenv.ReadConfig(path, conf); err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("load config: %w; %s", err, desc)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate trims the store credentials and checks the required values.
func (c *Config) Validate() error {
	c.Store.Id = strings.TrimSpace(c.Store.Id)
	c.Store.Password = strings.TrimSpace(c.Store.Password)
	c.Store.ApiUrl = strings.TrimSpace(c.Store.ApiUrl)
	switch {
	case c.Store.Id == "":
		return fmt.Errorf("store id is required")
	case len(c.Store.Id) > 20:
		return fmt.Errorf("store id is longer than 20 characters")
	case c.Store.Password == "":
		return fmt.Errorf("store password is required")
	case c.Store.ApiUrl == "":
		return fmt.Errorf("store api url is required")
	case c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == ""):
		return fmt.Errorf("kafka brokers and topic are required")
	}
	return nil
}
