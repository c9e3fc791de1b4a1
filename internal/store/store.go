// Package store provides the time-bounded extraction cache.
package store

import (
	"context"
	"time"

	"github.com/linkmagico/chatbot/internal/model"
)

// DefaultTTL is how long a cached record stays valid, measured from
// insertion. Expiry is checked lazily on read.
const DefaultTTL = time.Hour

// Store caches extracted records keyed by the exact input URL string.
// An expired entry is a miss, not an error. Writes are last-write-wins.
type Store interface {
	Get(ctx context.Context, url string) (*model.ExtractedRecord, bool, error)
	Put(ctx context.Context, url string, rec *model.ExtractedRecord) error
	DeleteExpired(ctx context.Context) (int, error)
	Close() error
}
