package redis_db

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected *redis.Options
		wantErr  bool
	}{
		{
			name: "simple docker style",
			url:  "redis:6379",
			expected: &redis.Options{
				Addr: "redis:6379",
			},
		},
		{
			name: "redis url with password",
			url:  "redis://:password123@localhost:6379",
			expected: &redis.Options{
				Addr:     "localhost:6379",
				Password: "password123",
			},
		},
		{
			name: "bare host with db",
			url:  "redis://localhost:6379/2",
			expected: &redis.Options{
				Addr: "localhost:6379",
				DB:   2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRedisURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected.Addr, got.Addr)
			assert.Equal(t, tt.expected.Password, got.Password)
			assert.Equal(t, tt.expected.DB, got.DB)
		})
	}
}

func TestNewRedisClient(t *testing.T) {
	_, err := NewRedisClient(nil)
	assert.Error(t, err)

	client, err := NewRedisClient([]string{"localhost:6379"})
	assert.NoError(t, err)
	assert.NotNil(t, client.Client())

	cluster, err := NewRedisClient([]string{"localhost:6379", "localhost:6380"})
	assert.NoError(t, err)
	assert.NotNil(t, cluster.Client())
}
