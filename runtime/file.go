// Copyright 2025 The Upstreamlb Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package runtime

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FileLoader is a Loader that watches a directory of flag files (each
// file named after its key and holding one integer value) on an interval
// and serves the most recently observed snapshot. It never blocks a
// GetInteger call on I/O: reads come from an in-memory snapshot that is
// swapped atomically by a background poller.
type FileLoader struct {
	dir      string
	interval time.Duration
	clock    Clock
	logger   *zap.Logger

	snapshot atomic.Pointer[map[string]uint64]

	closeOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// Clock is the subset of github.com/jonboulle/clockwork.Clock this package
// needs. Production code passes nil to NewFileLoader to get the wall
// clock; tests pass runtimetest.NewFakeClock(), which adapts clockwork's
// fake clock to this interface.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// Ticker mirrors clockwork.Ticker.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// realClock adapts time.NewTicker to the Clock interface, so FileLoader
// has a usable default without requiring callers to import clockwork in
// production code.
type realClock struct{}

func (realClock) NewTicker(d time.Duration) Ticker { return realTicker{time.NewTicker(d)} }

type realTicker struct{ *time.Ticker }

func (r realTicker) Chan() <-chan time.Time { return r.C }

// NewFileLoader starts watching dir for flag files, the file name being
// the key and its contents the value, polling every interval. If clock is nil, the real wall clock is
// used. If logger is nil, a no-op logger is used. The returned loader must
// be stopped by calling Close.
func NewFileLoader(dir string, interval time.Duration, clock Clock, logger *zap.Logger) *FileLoader {
	if clock == nil {
		clock = realClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	loader := &FileLoader{
		dir:      dir,
		interval: interval,
		clock:    clock,
		logger:   logger,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	empty := map[string]uint64{}
	loader.snapshot.Store(&empty)
	loader.reload()
	go loader.pollLoop(ctx)
	return loader
}

func (l *FileLoader) pollLoop(ctx context.Context) {
	defer close(l.done)
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		ticker := l.clock.NewTicker(l.interval)
		defer ticker.Stop()
		for {
			select {
			case <-grpCtx.Done():
				return nil
			case <-ticker.Chan():
				l.reload()
			}
		}
	})
	_ = grp.Wait()
}

func (l *FileLoader) reload() {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		l.logger.Warn("runtime: failed to list flag directory", zap.String("dir", l.dir), zap.Error(err))
		return
	}
	next := make(map[string]uint64, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(l.dir, entry.Name()))
		if err != nil {
			l.logger.Warn("runtime: failed to read flag file", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		value, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 64)
		if err != nil {
			l.logger.Warn("runtime: flag file is not an integer", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		next[entry.Name()] = value
	}
	l.snapshot.Store(&next)
	l.logger.Debug("runtime: reloaded flags", zap.Int("count", len(next)))
}

// GetInteger implements Loader.
func (l *FileLoader) GetInteger(key string, def uint64) uint64 {
	snapshot := *l.snapshot.Load()
	if v, ok := snapshot[key]; ok {
		return v
	}
	return def
}

// Close stops the background poller and waits for it to exit.
func (l *FileLoader) Close() error {
	l.closeOnce.Do(func() {
		l.cancel()
		<-l.done
	})
	return nil
}
