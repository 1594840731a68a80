package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"solana-sweeper/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// SubmissionJournal implements ports.SubmissionJournal using expiring Redis keys.
type SubmissionJournal struct {
	client goredis.UniversalClient
	prefix string
}

// NewSubmissionJournal creates a new Redis-backed submission journal.
func NewSubmissionJournal(client goredis.UniversalClient) *SubmissionJournal {
	return &SubmissionJournal{
		client: client,
		prefix: "sweep:submitted:",
	}
}

func (j *SubmissionJournal) key(address string, kind domain.PlanKind) string {
	return j.prefix + address + ":" + string(kind)
}

// Record stores the signature of a submitted transfer for ttl.
func (j *SubmissionJournal) Record(ctx context.Context, address string, kind domain.PlanKind, signature string, ttl time.Duration) error {
	if err := j.client.Set(ctx, j.key(address, kind), signature, ttl).Err(); err != nil {
		return fmt.Errorf("redis journal record: %w", err)
	}
	return nil
}

// Lookup returns the recorded signature, or "" if none is live.
func (j *SubmissionJournal) Lookup(ctx context.Context, address string, kind domain.PlanKind) (string, error) {
	sig, err := j.client.Get(ctx, j.key(address, kind)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis journal lookup: %w", err)
	}
	return sig, nil
}
