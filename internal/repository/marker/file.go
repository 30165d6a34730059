package marker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oshokin/pmd-bootstrap/internal/domain/install"
)

// filePermissions is the mode of written marker files.
const filePermissions = 0o644

// Repository defines persistence operations for the version marker.
type Repository interface {
	Load(ctx context.Context) (*install.Marker, error)
	Save(ctx context.Context, marker *install.Marker) error
}

// FileRepository persists the version marker as a plaintext file.
type FileRepository struct {
	// path is the filesystem location of the marker.
	path string
	// mu serializes access to the marker file.
	mu sync.Mutex
}

var (
	// ErrNotFound is returned when the marker file does not exist yet.
	ErrNotFound = errors.New("version marker not found")
	// ErrEmpty is returned when the marker file holds no text.
	ErrEmpty = errors.New("version marker is empty")
)

// NewFileRepository creates a repository that reads/writes the marker at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the marker location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the marker from disk.
func (r *FileRepository) Load(_ context.Context) (*install.Marker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read version marker: %w", err)
	}

	marker := install.ParseMarker(string(contents))
	if marker.Raw == "" {
		return nil, ErrEmpty
	}

	return marker, nil
}

// Save writes the marker text followed by a newline.
func (r *FileRepository) Save(_ context.Context, marker *install.Marker) error {
	if marker == nil || marker.Raw == "" {
		return ErrEmpty
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.WriteFile(r.path, []byte(marker.Raw+"\n"), filePermissions); err != nil {
		return fmt.Errorf("write version marker: %w", err)
	}

	return nil
}
