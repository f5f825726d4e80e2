// internal/adapter/batcher.go
package adapter

import (
	"context"

	"github.com/Bets-Dmytro/Lab3-IoT/internal/data"
)

// Batcher accumulates processed records and hands each full batch to the
// gateway. Delivery is one-shot: a failed batch is dropped, not retried.
type Batcher struct {
	gateway StoreGateway
	size    int
	buffer  []data.ProcessedAgentData
}

func NewBatcher(gateway StoreGateway, size int) *Batcher {
	if size < 1 {
		size = 1
	}
	return &Batcher{
		gateway: gateway,
		size:    size,
		buffer:  make([]data.ProcessedAgentData, 0, size),
	}
}

// Add buffers one record and flushes when the batch is full. It reports
// false only when a flush was attempted and failed.
func (b *Batcher) Add(ctx context.Context, record data.ProcessedAgentData) bool {
	b.buffer = append(b.buffer, record)
	if len(b.buffer) < b.size {
		return true
	}
	return b.Flush(ctx)
}

// Flush sends whatever is buffered, if anything.
func (b *Batcher) Flush(ctx context.Context) bool {
	if len(b.buffer) == 0 {
		return true
	}
	batch := b.buffer
	b.buffer = make([]data.ProcessedAgentData, 0, b.size)
	return b.gateway.SaveData(ctx, batch)
}
