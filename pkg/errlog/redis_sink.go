package errlog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	defaultBuffer = 256
	defaultMaxLen = 1000
	pushTimeout   = 2 * time.Second
)

type listClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
}

// Redis keeps the newest failures in a capped list, newest first. Records
// are queued and pushed by one worker; a full queue drops the record.
type Redis struct {
	client listClient
	key    string
	max    int64
	log    *zap.Logger

	mu      sync.RWMutex
	closed  bool
	queue   chan Entry
	done    chan struct{}
	dropped atomic.Int64
	now     func() time.Time
}

func NewRedis(c *redis.Client, key string, max int64, log *zap.Logger) *Redis {
	return newRedis(c, key, max, log, defaultBuffer)
}

func newRedis(c listClient, key string, max int64, log *zap.Logger, buffer int) *Redis {
	if max <= 0 {
		max = defaultMaxLen
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Redis{
		client: c,
		key:    key,
		max:    max,
		log:    log,
		queue:  make(chan Entry, buffer),
		done:   make(chan struct{}),
		now:    time.Now,
	}
	go r.run()
	return r
}

func (r *Redis) Record(_ context.Context, title, message string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- Entry{Title: title, Message: message, Time: r.now().UTC()}:
	default:
		r.dropped.Add(1)
		r.log.Warn("error sink queue full, record dropped", zap.String("title", title))
	}
}

func (r *Redis) run() {
	defer close(r.done)
	for e := range r.queue {
		if err := r.push(e); err != nil {
			r.log.Warn("error sink push failed", zap.String("key", r.key), zap.Error(err))
		}
	}
}

func (r *Redis) push(e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()
	if err := r.client.LPush(ctx, r.key, b).Err(); err != nil {
		return fmt.Errorf("lpush: %w", err)
	}
	if err := r.client.LTrim(ctx, r.key, 0, r.max-1).Err(); err != nil {
		return fmt.Errorf("ltrim: %w", err)
	}
	return nil
}

// Dropped counts records lost to a full queue.
func (r *Redis) Dropped() int64 { return r.dropped.Load() }

// Close stops accepting records and waits for the queue to drain.
func (r *Redis) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("error sink drain: %w", ctx.Err())
	}
}
