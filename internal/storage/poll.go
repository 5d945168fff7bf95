package storage

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

const defaultPollInterval = 2 * time.Second

// poller turns a store without change notifications into one that emits Events by
// periodically re-reading a fixed set of keys.
type poller struct {
	get      func(ctx context.Context, key string) (string, error)
	keys     []string
	interval time.Duration
	logger   zerolog.Logger
}

func (p *poller) read(ctx context.Context, key string) (string, bool) {
	value, err := p.get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", true
	}
	if err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("Failed to poll storage key")
		return "", false
	}
	return value, true
}

func (p *poller) watch(ctx context.Context) (<-chan Event, error) {
	interval := p.interval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	last := make(map[string]string, len(p.keys))
	for _, key := range p.keys {
		if value, ok := p.read(ctx, key); ok {
			last[key] = value
		}
	}

	events := make(chan Event, 16)

	go func() {
		defer close(events)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			for _, key := range p.keys {
				value, ok := p.read(ctx, key)
				if !ok || value == last[key] {
					continue
				}
				last[key] = value

				select {
				case events <- Event{Key: key, NewValue: value}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
