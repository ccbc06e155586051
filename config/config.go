/*
Copyright 2025 Vaultd Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"log"
	"math/big"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT          = "5001"
	DEFAULT_PRECISION     = 18
	DEFAULT_WEBHOOK_QUEUE = "vaultd:webhook"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"VAULTD_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"VAULTD_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"VAULTD_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"VAULTD_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"VAULTD_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"VAULTD_SERVER_PORT"`
}

// VaultConfig fixes the ledger's construction constants. Limits are decimal
// strings in the native unit so they are not bounded by int64.
type VaultConfig struct {
	CapacityLimit   string `json:"capacity_limit" envconfig:"VAULTD_VAULT_CAPACITY_LIMIT"`
	WithdrawalLimit string `json:"withdrawal_limit" envconfig:"VAULTD_VAULT_WITHDRAWAL_LIMIT"`
	Precision       int32  `json:"precision" envconfig:"VAULTD_VAULT_PRECISION"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"VAULTD_REDIS_DNS"`
}

type KafkaConfig struct {
	Brokers []string `json:"brokers" envconfig:"VAULTD_KAFKA_BROKERS"`
	Topic   string   `json:"topic" envconfig:"VAULTD_KAFKA_TOPIC"`
}

// SettlementConfig points withdrawals at an external payout rail. With no
// URL configured, payouts settle inside the custodian.
type SettlementConfig struct {
	Url        string            `json:"url" envconfig:"VAULTD_SETTLEMENT_URL"`
	TimeoutSec int               `json:"timeout_sec" envconfig:"VAULTD_SETTLEMENT_TIMEOUT_SEC"`
	MaxRetries uint64            `json:"max_retries" envconfig:"VAULTD_SETTLEMENT_MAX_RETRIES"`
	Headers    map[string]string `json:"headers"`
}

type QueueConfig struct {
	WebhookQueue string `json:"webhook_queue" envconfig:"VAULTD_QUEUE_WEBHOOK"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"VAULTD_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"VAULTD_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"VAULTD_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type Configuration struct {
	ProjectName  string           `json:"project_name" envconfig:"VAULTD_PROJECT_NAME"`
	Server       ServerConfig     `json:"server"`
	Vault        VaultConfig      `json:"vault"`
	Redis        RedisConfig      `json:"redis"`
	Kafka        KafkaConfig      `json:"kafka"`
	Settlement   SettlementConfig `json:"settlement"`
	Queue        QueueConfig      `json:"queue"`
	Notification Notification     `json:"notification"`
	RateLimit    RateLimitConfig  `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("vaultd", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called vaultd.json with your config")
	}
	return c, nil
}

// parsePositiveAmount parses a decimal string into a strictly positive big.Int.
func parsePositiveAmount(name, value string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(strings.TrimSpace(value), 10)
	if !ok {
		return nil, errors.New(name + " must be a base-10 integer")
	}
	if amount.Sign() <= 0 {
		return nil, errors.New(name + " must be greater than zero")
	}
	return amount, nil
}

// CapacityLimit returns the configured capacity limit as a big.Int.
// Validation has already guaranteed the value parses.
func (cnf *Configuration) CapacityLimit() *big.Int {
	amount, _ := new(big.Int).SetString(cnf.Vault.CapacityLimit, 10)
	return amount
}

// WithdrawalLimit returns the configured per-call withdrawal limit.
func (cnf *Configuration) WithdrawalLimit() *big.Int {
	amount, _ := new(big.Int).SetString(cnf.Vault.WithdrawalLimit, 10)
	return amount
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Vaultd Server"
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Construction constants of the vault. Both are required and positive.
	cnf.Vault.CapacityLimit = strings.TrimSpace(cnf.Vault.CapacityLimit)
	cnf.Vault.WithdrawalLimit = strings.TrimSpace(cnf.Vault.WithdrawalLimit)
	if _, err := parsePositiveAmount("vault capacity limit", cnf.Vault.CapacityLimit); err != nil {
		log.Printf("Error: %v", err)
		return err
	}
	if _, err := parsePositiveAmount("vault withdrawal limit", cnf.Vault.WithdrawalLimit); err != nil {
		log.Printf("Error: %v", err)
		return err
	}
	if cnf.Vault.Precision == 0 {
		cnf.Vault.Precision = DEFAULT_PRECISION
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Queue.WebhookQueue == "" {
		cnf.Queue.WebhookQueue = DEFAULT_WEBHOOK_QUEUE
	}

	if cnf.Kafka.Topic == "" && len(cnf.Kafka.Brokers) > 0 {
		cnf.Kafka.Topic = "vaultd.events"
		log.Printf("Warning: Kafka topic not specified. Setting default topic: %s", cnf.Kafka.Topic)
	}

	if cnf.Settlement.TimeoutSec == 0 {
		cnf.Settlement.TimeoutSec = 15
	}
	if cnf.Settlement.MaxRetries == 0 {
		cnf.Settlement.MaxRetries = 3
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
		log.Printf("Warning: Rate limit cleanup interval not specified. Setting default value: %d seconds", defaultCleanup)
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	if mockConfig.Vault.CapacityLimit == "" {
		mockConfig.Vault.CapacityLimit = "1000000000000000000"
	}
	if mockConfig.Vault.WithdrawalLimit == "" {
		mockConfig.Vault.WithdrawalLimit = "100000000000000000"
	}
	if mockConfig.Vault.Precision == 0 {
		mockConfig.Vault.Precision = DEFAULT_PRECISION
	}
	if mockConfig.Queue.WebhookQueue == "" {
		mockConfig.Queue.WebhookQueue = DEFAULT_WEBHOOK_QUEUE
	}
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
