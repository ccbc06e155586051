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
	"context"
	"math/big"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vaultdhq/vaultd/internal/notification"
	"github.com/vaultdhq/vaultd/model"
)

var vaultTracer = otel.Tracer("vaultd.vault")

// postEventActions fans a committed event out to the journal, the Kafka
// stream and the webhook queue. Observer failures are reported but never
// fail the ledger operation that produced the event.
func (l *Vaultd) postEventActions(_ context.Context, event *model.Event) {
	go func() {
		if err := l.journal.Append(context.Background(), event); err != nil {
			notification.NotifyError(err)
		}
		if err := l.stream.Publish(context.Background(), event); err != nil {
			notification.NotifyError(err)
		}
		if err := l.SendWebhook(NewWebhook{
			Event:   string(event.Type),
			Payload: event,
		}); err != nil {
			notification.NotifyError(err)
		}
	}()
}

// Deposit credits amount to account through the vault core and fans the
// Deposited event out to observers.
func (l *Vaultd) Deposit(ctx context.Context, account string, amount *big.Int) (*model.Event, error) {
	ctx, span := vaultTracer.Start(ctx, "Deposit")
	defer span.End()

	event, err := l.vault.Deposit(account, amount)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	l.postEventActions(ctx, event)
	span.AddEvent("Deposit committed", trace.WithAttributes(
		attribute.String("event.id", event.EventID),
		attribute.String("vault.account", account),
	))
	return event, nil
}

// Withdraw debits amount from account, pays it out through the settlement
// transferer, and fans the Withdrawn event out to observers.
func (l *Vaultd) Withdraw(ctx context.Context, account string, amount *big.Int) (*model.Event, error) {
	ctx, span := vaultTracer.Start(ctx, "Withdraw")
	defer span.End()

	event, err := l.vault.Withdraw(ctx, account, amount)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	l.postEventActions(ctx, event)
	span.AddEvent("Withdrawal committed", trace.WithAttributes(
		attribute.String("event.id", event.EventID),
		attribute.String("vault.account", account),
	))
	return event, nil
}

// BalanceOf returns the balance held for account, zero for unknown accounts.
func (l *Vaultd) BalanceOf(ctx context.Context, account string) *big.Int {
	_, span := vaultTracer.Start(ctx, "BalanceOf")
	defer span.End()
	return l.vault.BalanceOf(account)
}

// Stats returns a snapshot of the vault's aggregate state.
func (l *Vaultd) Stats(ctx context.Context) model.Stats {
	_, span := vaultTracer.Start(ctx, "Stats")
	defer span.End()
	return l.vault.Stats()
}

// RejectDirectTransfer is the uniform handler for value or calls arriving
// outside the vault's entry points.
func (l *Vaultd) RejectDirectTransfer() error {
	return l.vault.ReceiveDirect(nil)
}
