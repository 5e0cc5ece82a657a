package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/milad/energycost/internal/domain"
	"github.com/milad/energycost/internal/repo"
)

const (
	dialTimeout = 5 * time.Second
	ioTimeout   = 3 * time.Second
)

var _ repo.ReadingRepository = (*Store)(nil)

// Connect dials the reading store's redis server and waits for a PING, bounded by
// ctx and the dial timeout. The caller owns the returned client.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis reading store: empty address")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}

// Store keeps each meter's readings in a redis list of JSON documents.
type Store struct {
	client *redis.Client
	prefix string
}

// record is the JSON form of a reading inside the list.
type record struct {
	Time    time.Time      `json:"time"`
	Reading domain.Decimal `json:"reading"`
}

// NewStore returns a redis-backed reading store. Keys are "<prefix>:<meterID>";
// an empty prefix means "readings".
func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "readings"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(meterID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, meterID)
}

// Append pushes all readings with a single RPUSH, so one call is atomic.
func (s *Store) Append(ctx context.Context, meterID string, readings []domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	values, err := encode(readings)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, s.key(meterID), values...).Err()
}

func (s *Store) List(ctx context.Context, meterID string) ([]domain.Reading, error) {
	values, err := s.client.LRange(ctx, s.key(meterID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, repo.ErrNotFound
	}
	return decode(values)
}

func encode(readings []domain.Reading) ([]any, error) {
	out := make([]any, 0, len(readings))
	for _, r := range readings {
		data, err := json.Marshal(record{Time: r.Time.UTC(), Reading: r.Amount})
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

func decode(values []string) ([]domain.Reading, error) {
	out := make([]domain.Reading, 0, len(values))
	for i, v := range values {
		var rec record
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, fmt.Errorf("decode reading %d: %w", i, err)
		}
		out = append(out, domain.Reading{Time: rec.Time, Amount: rec.Reading})
	}
	return out, nil
}
