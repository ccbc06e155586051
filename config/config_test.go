package config

import (
	"encoding/json"
	"os"
	"testing"
)

func TestValidateAndAddDefaults(t *testing.T) {
	// Missing redis DNS
	cnf := Configuration{
		Vault: VaultConfig{CapacityLimit: "1000", WithdrawalLimit: "100"},
	}
	err := cnf.validateAndAddDefaults()
	if err == nil || err.Error() != "redis DNS is required" {
		t.Errorf("Expected redis DNS required error, got %v", err)
	}

	// Missing vault limits
	cnf = Configuration{
		Redis: RedisConfig{Dns: "localhost:6379"},
	}
	err = cnf.validateAndAddDefaults()
	if err == nil || err.Error() != "vault capacity limit must be a base-10 integer" {
		t.Errorf("Expected capacity limit parse error, got %v", err)
	}

	// Zero limits are rejected at construction
	cnf = Configuration{
		Redis: RedisConfig{Dns: "localhost:6379"},
		Vault: VaultConfig{CapacityLimit: "0", WithdrawalLimit: "100"},
	}
	err = cnf.validateAndAddDefaults()
	if err == nil || err.Error() != "vault capacity limit must be greater than zero" {
		t.Errorf("Expected capacity limit positive error, got %v", err)
	}

	cnf = Configuration{
		Redis: RedisConfig{Dns: "localhost:6379"},
		Vault: VaultConfig{CapacityLimit: "1000", WithdrawalLimit: "0"},
	}
	err = cnf.validateAndAddDefaults()
	if err == nil || err.Error() != "vault withdrawal limit must be greater than zero" {
		t.Errorf("Expected withdrawal limit positive error, got %v", err)
	}

	// All required fields filled, expect no error and defaults applied
	cnf = Configuration{
		ProjectName: "Test Project",
		Redis:       RedisConfig{Dns: "localhost:6379"},
		Vault:       VaultConfig{CapacityLimit: "3000000000000000000", WithdrawalLimit: "1000000000000000000"},
	}
	err = cnf.validateAndAddDefaults()
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if cnf.Server.Port != DEFAULT_PORT {
		t.Errorf("Expected default port %s, got %s", DEFAULT_PORT, cnf.Server.Port)
	}
	if cnf.Vault.Precision != DEFAULT_PRECISION {
		t.Errorf("Expected default precision %d, got %d", DEFAULT_PRECISION, cnf.Vault.Precision)
	}
	if cnf.Queue.WebhookQueue != DEFAULT_WEBHOOK_QUEUE {
		t.Errorf("Expected default webhook queue %s, got %s", DEFAULT_WEBHOOK_QUEUE, cnf.Queue.WebhookQueue)
	}
	if cnf.CapacityLimit().String() != "3000000000000000000" {
		t.Errorf("Expected capacity limit 3000000000000000000, got %s", cnf.CapacityLimit())
	}
	if cnf.WithdrawalLimit().String() != "1000000000000000000" {
		t.Errorf("Expected withdrawal limit 1000000000000000000, got %s", cnf.WithdrawalLimit())
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	// Create a temporary file
	tmpFile, err := os.CreateTemp("", "vaultd.json")
	if err != nil {
		t.Fatalf("Unable to create temporary file: %v", err)
	}
	defer os.Remove(tmpFile.Name()) // Clean up after the test

	// Sample configuration to write to the temp file
	sampleConfig := Configuration{
		ProjectName: "Temp Project",
		Redis:       RedisConfig{Dns: "temp-redis"},
		Vault:       VaultConfig{CapacityLimit: "1000", WithdrawalLimit: "100"},
	}
	if err := json.NewEncoder(tmpFile).Encode(sampleConfig); err != nil {
		t.Fatalf("Unable to write to temporary file: %v", err)
	}
	tmpFile.Close() // Close the file so loadConfigFromFile can open it

	// Set an environment variable to override the project name
	os.Setenv("VAULTD_PROJECT_NAME", "Env Project")
	defer os.Unsetenv("VAULTD_PROJECT_NAME") // Clean up after the test

	// Load the configuration from the file
	if err := loadConfigFromFile(tmpFile.Name()); err != nil {
		t.Fatalf("loadConfigFromFile failed: %v", err)
	}

	// Fetch the loaded configuration
	loadedConfig, err := Fetch()
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	// Check if the environment variable override worked
	if loadedConfig.ProjectName != "Env Project" {
		t.Errorf("Expected ProjectName to be 'Env Project', got '%s'", loadedConfig.ProjectName)
	}

	// Check if the redis DNS was loaded correctly from the file
	if loadedConfig.Redis.Dns != "temp-redis" {
		t.Errorf("Expected Redis.Dns to be 'temp-redis', got '%s'", loadedConfig.Redis.Dns)
	}
}

func TestInitConfig(t *testing.T) {
	// Create a temporary file
	tmpFile, err := os.CreateTemp("", "vaultd.json")
	if err != nil {
		t.Fatalf("Unable to create temporary file: %v", err)
	}
	defer os.Remove(tmpFile.Name()) // Clean up after the test

	sampleConfig := Configuration{
		ProjectName: "InitConfig Test",
		Redis:       RedisConfig{Dns: "localhost:6379"},
		Vault:       VaultConfig{CapacityLimit: "1000", WithdrawalLimit: "100"},
	}
	if err := json.NewEncoder(tmpFile).Encode(sampleConfig); err != nil {
		t.Fatalf("Unable to write to temporary file: %v", err)
	}
	tmpFile.Close() // Close the file so InitConfig can open it

	// Attempt to initialize the configuration using the temporary file
	if err := InitConfig(tmpFile.Name()); err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	// Fetch the loaded configuration to verify it was loaded correctly
	loadedConfig, err := Fetch()
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if loadedConfig.ProjectName != "InitConfig Test" {
		t.Errorf("Expected ProjectName to be 'InitConfig Test', got '%s'", loadedConfig.ProjectName)
	}
}
