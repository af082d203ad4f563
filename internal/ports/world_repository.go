package ports

import (
	"commuter-destination-service/internal/domain"
	"context"
)

// Port: a boundary for loading world records from a data source.
type WorldRepository interface {
	// Retrieve every stop, line and citizen instance of the stored world.
	LoadWorld(ctx context.Context) (*domain.WorldData, error)
}
