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

package vaultd

import (
	"github.com/vaultdhq/vaultd/config"
	"github.com/vaultdhq/vaultd/internal/journal"
	redis_db "github.com/vaultdhq/vaultd/internal/redis-db"
	"github.com/vaultdhq/vaultd/internal/stream"
	"github.com/vaultdhq/vaultd/model"
)

// Vaultd wires the vault core to its observer and delivery surfaces: the
// Redis event journal, the Kafka event stream and the webhook queue. The
// vault owns all ledger state; everything else only observes it.
type Vaultd struct {
	vault     *model.Vault
	queue     *Queue
	journal   *journal.Journal
	stream    *stream.Publisher
	precision int32
}

// NewVaultd initializes a Vaultd instance from the loaded configuration.
// The vault's capacity and withdrawal limits are fixed here for the
// lifetime of the process.
func NewVaultd() (*Vaultd, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	redisClient, err := redis_db.NewRedisClient([]string{configuration.Redis.Dns})
	if err != nil {
		return nil, err
	}

	vault, err := model.NewVault(
		configuration.CapacityLimit(),
		configuration.WithdrawalLimit(),
		NewSettlementTransferer(),
	)
	if err != nil {
		return nil, err
	}

	return &Vaultd{
		vault:     vault,
		queue:     NewQueue(configuration),
		journal:   journal.NewJournal(redisClient.Client()),
		stream:    stream.NewPublisher(configuration.Kafka.Brokers, configuration.Kafka.Topic),
		precision: configuration.Vault.Precision,
	}, nil
}

// Vault exposes the underlying ledger core.
func (l *Vaultd) Vault() *model.Vault {
	return l.vault
}

// Precision returns the configured display precision.
func (l *Vaultd) Precision() int32 {
	return l.precision
}
