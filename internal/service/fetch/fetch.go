package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/pmd-bootstrap/internal/logger"
	"github.com/oshokin/pmd-bootstrap/internal/version"
)

const (
	// DefaultFileMode is applied to downloaded files.
	DefaultFileMode os.FileMode = 0o755

	// DefaultTimeout bounds a transfer when no timeout is configured.
	DefaultTimeout = 10 * time.Minute
)

var (
	// ErrBadHTTPStatus is returned when the server does not answer 200 OK.
	ErrBadHTTPStatus = errors.New("unexpected http status")
	// ErrNotDirectory is returned when the destination directory is missing or is a file.
	ErrNotDirectory = errors.New("destination directory does not exist")
)

// ProgressFunc receives the number of bytes written so far and the expected total.
// The total is -1 when the server does not announce it.
type ProgressFunc func(written, total int64)

// HTTPClient is the part of *http.Client used by the Fetcher.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads files.
type Fetcher struct {
	// client performs the requests.
	client HTTPClient
	// timeout bounds every single transfer.
	timeout time.Duration
	// progress is notified while the body is read.
	progress ProgressFunc
	// mode is applied to written files.
	mode os.FileMode
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client HTTPClient) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithTimeout sets the per-transfer timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(f *Fetcher) {
		f.progress = fn
	}
}

// WithFileMode sets the mode of written files.
func WithFileMode(mode os.FileMode) Option {
	return func(f *Fetcher) {
		if mode != 0 {
			f.mode = mode
		}
	}
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		mode:    DefaultFileMode,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch downloads rawURL to destination and returns the number of bytes written.
// The destination directory must already exist.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, destination string) (int64, error) {
	destination = filepath.Clean(destination)

	if err := ensureDirectory(filepath.Dir(destination)); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	response, err := f.get(ctx, rawURL)
	if err != nil {
		return 0, err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	body := &countingReader{
		reader:   response.Body,
		total:    response.ContentLength,
		progress: f.progress,
	}

	// The destination is only touched once the whole body has arrived.
	payload, err := io.ReadAll(body)
	if err != nil {
		return body.read, fmt.Errorf("read %s: %w", rawURL, err)
	}

	if err = f.apply(bytes.NewReader(payload), destination); err != nil {
		return body.read, fmt.Errorf("write %s: %w", destination, err)
	}

	logger.DebugKV(ctx, "Downloaded file", "url", rawURL, "path", destination, "bytes", body.read)

	return body.read, nil
}

// get performs the request and checks the status.
func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", version.UserAgent())

	response, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}

	if response.StatusCode != http.StatusOK {
		_ = response.Body.Close()

		return nil, fmt.Errorf("%s, %s: %w", rawURL, response.Status, ErrBadHTTPStatus)
	}

	return response, nil
}

// apply swaps the body into place with go-update.
func (f *Fetcher) apply(body io.Reader, destination string) error {
	// go-update renames the current target aside, so one has to exist.
	created := false

	if _, err := os.Stat(destination); errors.Is(err, os.ErrNotExist) {
		placeholder, createErr := os.OpenFile(destination, os.O_CREATE|os.O_WRONLY, f.mode)
		if createErr != nil {
			return createErr
		}

		created = true

		if createErr = placeholder.Close(); createErr != nil {
			_ = os.Remove(destination)

			return createErr
		}
	}

	options := goupdate.Options{
		TargetPath: destination,
		TargetMode: f.mode,
	}

	if err := goupdate.Apply(body, options); err != nil {
		if created {
			_ = os.Remove(destination)
		}

		return err
	}

	// Windows only hides the previous file instead of removing it.
	oldFileName := filepath.Join(filepath.Dir(destination), "."+filepath.Base(destination)+".old")
	if _, err := os.Stat(oldFileName); err == nil {
		_ = os.Remove(oldFileName)
	}

	return nil
}

// ensureDirectory confirms that dir exists and is a directory.
func ensureDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", dir, ErrNotDirectory)
		}

		return fmt.Errorf("stat %s: %w", dir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s is a file: %w", dir, ErrNotDirectory)
	}

	return nil
}

// countingReader counts the bytes read and reports progress.
type countingReader struct {
	reader   io.Reader
	total    int64
	read     int64
	progress ProgressFunc
}

// Read implements io.Reader.
func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.reader.Read(b)
	if n > 0 {
		c.read += int64(n)

		if c.progress != nil {
			c.progress(c.read, c.total)
		}
	}

	return n, err
}
