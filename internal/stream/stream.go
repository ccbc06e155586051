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

package stream

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/vaultdhq/vaultd/model"
)

// Publisher streams committed vault events to Kafka for downstream
// consumers. Messages are keyed by account so a partition preserves each
// account's own operation order.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher builds a Kafka publisher. With no brokers configured the
// publisher is disabled and every Publish is a no-op.
func NewPublisher(brokers []string, topic string) *Publisher {
	if len(brokers) == 0 {
		return &Publisher{}
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Enabled reports whether events are actually being streamed.
func (p *Publisher) Enabled() bool {
	return p.writer != nil
}

func (p *Publisher) Publish(ctx context.Context, event *model.Event) error {
	if p.writer == nil {
		return nil
	}
	value, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Account),
		Value: value,
	})
	return errors.Wrap(err, "publish event")
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
