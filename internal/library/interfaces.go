package library

import (
	"context"

	"github.com/slpkit/ripped/internal/model"
)

// Loader defines the interface for the replay loading service.
type Loader interface {
	SetUpdateCallback(func(*model.ReplaySet))
	Load(ctx context.Context, folder string, includeSubfolders bool) (*model.ReplaySet, error)
	Current() *model.ReplaySet
	IsScanning() bool

	// SetMaxParallel sets how many files are decoded concurrently
	SetMaxParallel(max int)
}
