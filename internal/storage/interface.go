package storage

import (
	"context"
	"time"

	"github.com/mcoot/portfolio/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
	SessionExists(ctx context.Context, id model.SessionID) (bool, error)

	// Response cache operations. GetCached returns model.ErrCacheMiss for
	// absent or expired keys.
	GetCached(ctx context.Context, key string) ([]byte, error)
	SaveCached(ctx context.Context, key string, data []byte, ttl time.Duration) error
}
