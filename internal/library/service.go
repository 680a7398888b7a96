package library

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/atomic"

	"github.com/slpkit/ripped/internal/index"
	"github.com/slpkit/ripped/internal/model"
	"github.com/slpkit/ripped/internal/platform"
	"github.com/slpkit/ripped/internal/slp"
)

// Parallelism bounds
const (
	MinParallel     = 1
	MaxParallel     = 16
	DefaultParallel = 4
)

// Service handles replay loading
type Service struct {
	mu          sync.RWMutex
	current     *model.ReplaySet
	maxParallel int
	index       *index.Index // optional parse cache
	onUpdate    func(*model.ReplaySet)
	log         zerolog.Logger

	scanning   atomic.Int32
	generation atomic.Uint64
	published  uint64 // generation of current, guarded by mu
}

type loadResult struct {
	replay *model.Replay
	err    error
}

// NewService creates a new loading service. ix may be nil to always decode.
func NewService(ix *index.Index, maxParallel int, log zerolog.Logger) *Service {
	return &Service{
		maxParallel: clampParallel(maxParallel),
		index:       ix,
		log:         log,
	}
}

func clampParallel(n int) int {
	if n < MinParallel {
		return MinParallel
	}
	if n > MaxParallel {
		return MaxParallel
	}
	return n
}

// SetUpdateCallback sets the callback invoked whenever a new set is published
func (s *Service) SetUpdateCallback(callback func(*model.ReplaySet)) {
	s.mu.Lock()
	s.onUpdate = callback
	s.mu.Unlock()
}

// SetMaxParallel sets how many files are decoded concurrently
func (s *Service) SetMaxParallel(max int) {
	s.mu.Lock()
	s.maxParallel = clampParallel(max)
	s.mu.Unlock()
}

// Current returns the most recently published set, or nil before the first load
func (s *Service) Current() *model.ReplaySet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// IsScanning reports whether any load is in progress
func (s *Service) IsScanning() bool {
	return s.scanning.Load() > 0
}

// Load scans folder and replaces the current set. Files that cannot be read
// or decoded are dropped and counted in Skipped; glob errors are returned.
// A cancelled load is never published. When live loads overlap, a result
// older than the current set is discarded.
func (s *Service) Load(ctx context.Context, folder string, includeSubfolders bool) (*model.ReplaySet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gen := s.generation.Inc()
	s.scanning.Inc()
	defer s.scanning.Dec()

	started := time.Now()
	set := model.NewReplaySet(folder, includeSubfolders)

	paths, err := platform.FindReplays(folder, includeSubfolders)
	if err != nil {
		set.Fail(err)
		s.publish(ctx, gen, set)
		return set, fmt.Errorf("find replays: %w", err)
	}

	s.mu.RLock()
	workers := s.maxParallel
	s.mu.RUnlock()

	mapper := iter.Mapper[string, loadResult]{MaxGoroutines: workers}
	results := mapper.Map(paths, func(path *string) loadResult {
		replay, err := s.loadOne(ctx, *path)
		return loadResult{replay: replay, err: err}
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	replays := make([]*model.Replay, 0, len(results))
	skipped := 0
	for i, r := range results {
		if r.err != nil {
			skipped++
			s.log.Warn().Str("path", paths[i]).Err(r.err).Msg("skipping replay")
			continue
		}
		replays = append(replays, r.replay)
	}
	set.ReplaceAll(replays, skipped)

	if s.index != nil {
		if _, err := s.index.Prune(ctx, paths); err != nil {
			s.log.Warn().Err(err).Msg("failed to prune replay index")
		}
	}

	s.log.Info().
		Str("folder", folder).
		Bool("subfolders", includeSubfolders).
		Int("replays", len(replays)).
		Int("skipped", skipped).
		Dur("took", time.Since(started)).
		Msg("replay folder loaded")

	if !s.publish(ctx, gen, set) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// loadOne returns the replay for path from the index or by decoding it
func (s *Service) loadOne(ctx context.Context, path string) (*model.Replay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if s.index != nil {
		cached, ok, err := s.index.Lookup(ctx, path, info.Size(), info.ModTime())
		if err != nil {
			s.log.Debug().Str("path", path).Err(err).Msg("index lookup failed")
		} else if ok {
			return cached, nil
		}
	}

	game, err := slp.ParseFile(path, slp.Options{})
	if err != nil {
		return nil, err
	}

	replay := FromGame(path, info, game)
	if s.index != nil {
		if err := s.index.Put(ctx, replay); err != nil {
			s.log.Debug().Str("path", path).Err(err).Msg("index put failed")
		}
	}
	return replay, nil
}

// publish makes set current unless its load was cancelled or a newer load
// has already been published. It reports whether set was published.
func (s *Service) publish(ctx context.Context, gen uint64, set *model.ReplaySet) bool {
	s.mu.Lock()
	if ctx.Err() != nil || gen < s.published {
		s.mu.Unlock()
		s.log.Debug().Uint64("generation", gen).Msg("discarding superseded load")
		return false
	}
	s.current = set
	s.published = gen
	callback := s.onUpdate
	s.mu.Unlock()

	if callback != nil {
		callback(set)
	}
	return true
}
