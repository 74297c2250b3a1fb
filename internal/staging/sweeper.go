package staging

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/codebuildervaibhav/transcript-relay/internal/metrics"
)

// Sweeper removes staged files left behind by a crashed or killed process
type Sweeper struct {
	dir      string
	interval time.Duration
	maxAge   time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewSweeper creates a sweeper for dir
func NewSweeper(dir string, intervalMinutes, maxAgeHours int, m *metrics.Metrics) *Sweeper {
	return &Sweeper{
		dir:      dir,
		interval: time.Duration(intervalMinutes) * time.Minute,
		maxAge:   time.Duration(maxAgeHours) * time.Hour,
		metrics:  m,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start runs one sweep immediately, then one per interval
func (s *Sweeper) Start() {
	log.Println("Running initial staging sweep...")
	s.Sweep()

	ticker := time.NewTicker(s.interval)

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.stopChan:
				ticker.Stop()
				return
			}
		}
	}()

	log.Printf("Staging sweeper started (interval: %s, max age: %s)", s.interval, s.maxAge)
}

// Stop stops the periodic sweep. It is safe to call more than once.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		log.Println("Staging sweeper stopped")
	})
}

// Sweep removes regular files in the staging directory older than maxAge
// and returns how many were deleted.
func (s *Sweeper) Sweep() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Printf("Error during staging sweep: %v", err)
		return 0
	}

	now := s.now()
	var deletedCount int
	var deletedSize int64

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue // removed concurrently by its request
		}

		age := now.Sub(info.ModTime())
		if age <= s.maxAge {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			if !os.IsNotExist(err) {
				log.Printf("Failed to delete stale staged file %s: %v", path, err)
			}
			continue
		}

		deletedCount++
		deletedSize += info.Size()
		s.metrics.RecordStagedFileRemoved("expired")
		log.Printf("Deleted stale staged file: %s (age: %s, size: %dKB)",
			entry.Name(), age.Round(time.Minute), info.Size()/1024)
	}

	if deletedCount > 0 {
		log.Printf("Staging sweep complete: %d files deleted, %.2fMB freed",
			deletedCount, float64(deletedSize)/(1024*1024))
	}
	return deletedCount
}
