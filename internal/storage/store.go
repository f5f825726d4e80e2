// internal/storage/store.go
package storage

import (
	"context"
	"errors"

	"github.com/Bets-Dmytro/Lab3-IoT/internal/data"
)

// ErrNotFound is returned by Get, Update and Delete when no row has the
// requested id.
var ErrNotFound = errors.New("record not found")

// Store is the persistence gateway for processed agent data. A batch insert
// is transactional: either every record in the batch gets an id or none do.
type Store interface {
	InsertBatch(ctx context.Context, records []data.ProcessedAgentData) ([]data.StoredAgentData, error)
	Get(ctx context.Context, id int64) (*data.StoredAgentData, error)
	List(ctx context.Context) ([]data.StoredAgentData, error)
	Update(ctx context.Context, id int64, record data.ProcessedAgentData) (*data.StoredAgentData, error)
	Delete(ctx context.Context, id int64) (*data.StoredAgentData, error)
}
