package staging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/codebuildervaibhav/transcript-relay/internal/metrics"
)

// Stager writes uploaded audio to uniquely named files in a temp directory
type Stager struct {
	dir     string
	metrics *metrics.Metrics
}

// File is one staged upload. It is owned by a single request.
type File struct {
	Path    string
	metrics *metrics.Metrics
}

// NewStager creates a stager rooted at dir
func NewStager(dir string, m *metrics.Metrics) *Stager {
	return &Stager{
		dir:     dir,
		metrics: m,
	}
}

// Dir returns the staging directory
func (s *Stager) Dir() string {
	return s.dir
}

// Stage writes content to a new file named <uuid><ext>. The extension is
// taken from filename and is only a hint for the provider's format sniffing.
// On error nothing is left behind.
func (s *Stager) Stage(content []byte, filename string) (*File, error) {
	path := filepath.Join(s.dir, uuid.New().String()+filepath.Ext(filename))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create staged file: %w", err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write staged file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to close staged file: %w", err)
	}

	return &File{Path: path, metrics: s.metrics}, nil
}

// Remove deletes the staged file. Failures are logged, never returned.
func (f *File) Remove() {
	if f == nil || f.Path == "" {
		return
	}
	if err := os.Remove(f.Path); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Failed to cleanup staged file %s: %v", f.Path, err)
		}
		return
	}
	f.metrics.RecordStagedFileRemoved("request")
}

// EnsureDir creates the staging directory if it doesn't exist
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	log.Printf("Staging directory ready: %s", dir)
	return nil
}
