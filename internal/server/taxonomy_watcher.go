package server

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"llmployable/internal/analyzer"
	"llmployable/internal/config"
	"llmployable/internal/errors"
	"llmployable/internal/types"
)

// TaxonomyReloader holds the current extractor and swaps in a new one when
// the taxonomy file changes on disk. Extract always sees one consistent
// extractor; a failed reload keeps the previous one.
type TaxonomyReloader struct {
	mu sync.Mutex

	current atomic.Pointer[analyzer.Extractor]

	cfg    config.TaxonomyConfig
	logger *errors.Logger

	fsWatcher     *fsnotify.Watcher
	debounceTimer *time.Timer
	stopChan      chan struct{}
	running       bool
}

// NewTaxonomyReloader loads the configured taxonomy and builds the initial
// extractor. Watching does not start until Start is called.
func NewTaxonomyReloader(cfg config.TaxonomyConfig, logger *errors.Logger) (*TaxonomyReloader, error) {
	tax, err := config.LoadTaxonomy(cfg)
	if err != nil {
		return nil, err
	}

	r := &TaxonomyReloader{
		cfg:      cfg,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
	r.current.Store(analyzer.NewExtractor(tax))
	return r, nil
}

// Extract delegates to the current extractor
func (r *TaxonomyReloader) Extract(text string) types.RequirementProfile {
	return r.current.Load().Extract(text)
}

// Start begins watching the taxonomy file. A no-op when auto-reload is
// disabled or no file is configured.
func (r *TaxonomyReloader) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.cfg.AutoReload.Enabled || r.cfg.File == "" {
		return nil
	}
	if r.running {
		return fmt.Errorf("taxonomy watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create taxonomy watcher: %w", err)
	}

	// Watch the directory to catch atomic writes (rename operations)
	dir := filepath.Dir(r.cfg.File)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch taxonomy directory %s: %w", dir, err)
	}

	r.fsWatcher = watcher
	r.running = true
	go r.watchLoop()

	r.logger.Info("Taxonomy file watcher started",
		"file", r.cfg.File,
		"debounce_delay", r.debounceDelay())

	return nil
}

// Stop stops the taxonomy file watcher
func (r *TaxonomyReloader) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return nil
	}

	close(r.stopChan)
	if r.debounceTimer != nil {
		r.debounceTimer.Stop()
	}
	err := r.fsWatcher.Close()
	r.running = false

	r.logger.Info("Taxonomy file watcher stopped")
	return err
}

func (r *TaxonomyReloader) debounceDelay() time.Duration {
	if r.cfg.AutoReload.DebounceDelay > 0 {
		return r.cfg.AutoReload.DebounceDelay
	}
	return time.Second
}

func (r *TaxonomyReloader) watchLoop() {
	for {
		select {
		case event, ok := <-r.fsWatcher.Events:
			if !ok {
				return
			}
			if r.shouldProcessEvent(event) {
				r.scheduleReload()
			}

		case err, ok := <-r.fsWatcher.Errors:
			if !ok {
				return
			}
			r.logger.LogError(err, "Taxonomy watcher error")

		case <-r.stopChan:
			return
		}
	}
}

// shouldProcessEvent reports whether a file system event concerns the
// taxonomy file
func (r *TaxonomyReloader) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(r.cfg.File) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// scheduleReload schedules a debounced reload, resetting the timer on
// bursts of events
func (r *TaxonomyReloader) scheduleReload() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.debounceTimer != nil {
		r.debounceTimer.Stop()
	}
	r.debounceTimer = time.AfterFunc(r.debounceDelay(), r.reload)
}

// reload builds a fresh extractor from the file and swaps it in. Load or
// validation failures keep the previous extractor.
func (r *TaxonomyReloader) reload() {
	tax, err := config.LoadTaxonomyFile(r.cfg.File)
	if err != nil {
		r.logger.LogError(err, "Taxonomy reload failed, keeping previous taxonomy",
			"file", r.cfg.File)
		return
	}

	r.current.Store(analyzer.NewExtractor(tax))
	r.logger.Info("Taxonomy reloaded",
		"file", r.cfg.File,
		"categories", len(tax.Categories))
}
