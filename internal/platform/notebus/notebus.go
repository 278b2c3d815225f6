package notebus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mindbridge-backend/internal/domain/clinical"
	"github.com/yungbote/mindbridge-backend/internal/platform/envutil"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

// ErrDisabled means REDIS_ADDR is unset; callers run without note events.
var ErrDisabled = errors.New("notebus: REDIS_ADDR not set")

const defaultChannel = "clinical-notes"

// Bus announces stored clinical notes over redis pub/sub.
type Bus interface {
	PublishNoteCreated(ctx context.Context, ev clinical.NoteEvent) error
	Subscribe(ctx context.Context, onEvent func(clinical.NoteEvent)) error
	Close() error
}

type bus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewFromEnv connects using REDIS_ADDR and REDIS_NOTE_CHANNEL.
func NewFromEnv(ctx context.Context, log *logger.Logger) (Bus, error) {
	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		return nil, ErrDisabled
	}
	return New(ctx, log, addr, envutil.String("REDIS_NOTE_CHANNEL", defaultChannel))
}

func New(ctx context.Context, log *logger.Logger, addr, channel string) (Bus, error) {
	if log == nil {
		log = logger.Nop()
	}
	if channel == "" {
		channel = defaultChannel
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &bus{
		log:     log.With("service", "NoteBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *bus) PublishNoteCreated(ctx context.Context, ev clinical.NoteEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// Subscribe forwards events to onEvent until ctx is done.
func (b *bus) Subscribe(ctx context.Context, onEvent func(clinical.NoteEvent)) error {
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var ev clinical.NoteEvent
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					b.log.Warn("bad note event payload", "error", err)
					continue
				}
				onEvent(ev)
			}
		}
	}()
	return nil
}

func (b *bus) Close() error {
	return b.rdb.Close()
}
