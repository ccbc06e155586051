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

package journal

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/vaultdhq/vaultd/model"
)

const (
	// StreamKey is the Redis stream all vault events are appended to.
	StreamKey = "vaultd:events"

	// maxStreamLen bounds the stream with approximate trimming. Old entries
	// fall off once external observers have had ample time to consume them.
	maxStreamLen = 100_000
)

// Journal is the append-only, ordered record of committed vault operations.
// It is an observer surface, not a source of truth: the vault's in-memory
// state never depends on it.
type Journal struct {
	client redis.UniversalClient
}

func NewJournal(client redis.UniversalClient) *Journal {
	return &Journal{client: client}
}

// Append writes an event to the stream. Entries carry the full event record
// as JSON plus flat fields for cheap filtering by consumers.
func (j *Journal) Append(ctx context.Context, event *model.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	err = j.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]interface{}{
			"event_id": event.EventID,
			"type":     string(event.Type),
			"account":  event.Account,
			"payload":  payload,
		},
	}).Err()
	return errors.Wrap(err, "append event to journal")
}

// Latest returns up to count most recent events, newest first.
func (j *Journal) Latest(ctx context.Context, count int64) ([]*model.Event, error) {
	entries, err := j.client.XRevRangeN(ctx, StreamKey, "+", "-", count).Result()
	if err != nil {
		return nil, errors.Wrap(err, "read journal")
	}
	events := make([]*model.Event, 0, len(entries))
	for _, entry := range entries {
		raw, ok := entry.Values["payload"].(string)
		if !ok {
			continue
		}
		var event model.Event
		if err := json.Unmarshal([]byte(raw), &event); err != nil {
			return nil, errors.Wrap(err, "decode journal entry")
		}
		events = append(events, &event)
	}
	return events, nil
}

// Len returns the number of entries currently retained in the stream.
func (j *Journal) Len(ctx context.Context) (int64, error) {
	return j.client.XLen(ctx, StreamKey).Result()
}
