package save

import (
	"context"
	"errors"
)

// Keys of the two persisted blobs.
const (
	InventoryKey = "tavern-inventory"
	UpgradesKey  = "tavern-upgrades"
)

// ErrNotFound is returned by Load when a key was never written.
var ErrNotFound = errors.New("save blob not found")

// Store is a flat key -> blob persistence layer. Blobs are raw JSON
// documents; decoding and defaulting happen in the codec.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
