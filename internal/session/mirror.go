package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/resume-builder/internal/types"
)

// KeyPrefix namespaces mirrored snapshots.
const KeyPrefix = "resume_builder_session:"

// Mirror is a shared tier holding the latest snapshot of each session so that
// any replica can pick up a session by cookie.
type Mirror interface {
	Save(ctx context.Context, id string, snap types.Snapshot, ttl time.Duration) error
	Load(ctx context.Context, id string) (types.Snapshot, bool, error)
	Delete(ctx context.Context, id string) error
}

// RedisConfig holds connection settings for RedisMirror
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisMirror stores snapshots as JSON strings in redis.
type RedisMirror struct {
	client *redis.Client
}

// NewRedisMirror connects to redis and verifies the connection.
func NewRedisMirror(ctx context.Context, cfg RedisConfig) (*RedisMirror, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	log.Printf("[SESSION] Mirroring sessions to redis at %s", cfg.Addr)
	return &RedisMirror{client: client}, nil
}

// Key returns the redis key for a session id.
func Key(id string) string {
	return KeyPrefix + id
}

// saveIfNewer writes ARGV[1] unless the stored snapshot carries a higher revision
// than ARGV[2]. ARGV[3] is the TTL in milliseconds; 0 stores without expiry.
var saveIfNewer = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current then
  local ok, doc = pcall(cjson.decode, current)
  if ok and type(doc) == 'table' and tonumber(doc.revision) and tonumber(doc.revision) > tonumber(ARGV[2]) then
    return 0
  end
end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
  redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// Save stores snap unless redis already holds a newer revision of the session.
func (m *RedisMirror) Save(ctx context.Context, id string, snap types.Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return saveIfNewer.Run(ctx, m.client, []string{Key(id)}, data, snap.Revision, ttl.Milliseconds()).Err()
}

func (m *RedisMirror) Load(ctx context.Context, id string) (types.Snapshot, bool, error) {
	data, err := m.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.Snapshot{}, false, nil
	}
	if err != nil {
		return types.Snapshot{}, false, err
	}

	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return types.Snapshot{}, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, true, nil
}

func (m *RedisMirror) Delete(ctx context.Context, id string) error {
	return m.client.Del(ctx, Key(id)).Err()
}

// Close releases the connection pool.
func (m *RedisMirror) Close() error {
	return m.client.Close()
}

// pendingSave serializes mirror writes for one session. Whichever caller finds
// no write in flight drains the slot; later snapshots only replace the pending
// one, and anything at or below the last written revision is dropped.
type pendingSave struct {
	mu       sync.Mutex
	next     *types.Snapshot
	written  uint64
	saved    bool
	draining bool
}

func (p *pendingSave) offer(snap types.Snapshot, save func(types.Snapshot)) {
	p.mu.Lock()
	if p.next == nil || snap.Revision > p.next.Revision {
		p.next = &snap
	}
	if p.draining {
		p.mu.Unlock()
		return
	}

	p.draining = true
	for p.next != nil {
		next := *p.next
		p.next = nil
		if p.saved && next.Revision <= p.written {
			continue
		}
		p.mu.Unlock()
		save(next)
		p.mu.Lock()
		p.written, p.saved = next.Revision, true
	}
	p.draining = false
	p.mu.Unlock()
}
