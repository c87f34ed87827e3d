package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foztr/removeer/internal/platform/config"
	"github.com/foztr/removeer/internal/utils"
)

// Artifact describes one stored processed image and its public locator.
type Artifact struct {
	Name string
	Path string
	URL  string
	Size int64
}

// WriteError reports a failed durable write. It is request-fatal and never
// retried by the pipeline.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("storage write failed for %s: %v", e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// Store persists processed image bytes and hands back a resolvable locator.
type Store interface {
	Store(ctx context.Context, data []byte) (*Artifact, error)
}

// LocalStore writes artifacts into a filesystem directory that is served
// read-only under a public path prefix.
type LocalStore struct {
	dir        string
	publicPath string
	baseURL    string
	logger     *utils.Logger
}

// NewLocalStore initialises the storage area (idempotent) and returns a
// store rooted at cfg.Dir.
func NewLocalStore(cfg config.StorageConfig, logger *utils.Logger) (*LocalStore, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory %s: %w", cfg.Dir, err)
	}

	publicPath := cfg.PublicPath
	if publicPath == "" {
		publicPath = "/uploads"
	}

	return &LocalStore{
		dir:        cfg.Dir,
		publicPath: publicPath,
		baseURL:    strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:     logger,
	}, nil
}

// Root returns the storage directory, for static serving.
func (s *LocalStore) Root() string {
	return s.dir
}

// PublicPath returns the URL prefix under which artifacts are served.
func (s *LocalStore) PublicPath() string {
	return s.publicPath
}

// Store writes data under a fresh collision-resistant name. The file is
// fully flushed to disk before the locator is returned.
func (s *LocalStore) Store(ctx context.Context, data []byte) (*Artifact, error) {
	if len(data) == 0 {
		return nil, &WriteError{Path: s.dir, Cause: fmt.Errorf("empty artifact payload")}
	}
	if err := ctx.Err(); err != nil {
		return nil, &WriteError{Path: s.dir, Cause: err}
	}

	name := s.generateName()
	path := filepath.Join(s.dir, name)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, &WriteError{Path: path, Cause: err}
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(path)
		return nil, &WriteError{Path: path, Cause: err}
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(path)
		return nil, &WriteError{Path: path, Cause: err}
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return nil, &WriteError{Path: path, Cause: err}
	}

	s.logger.InfoTag("STORE", "artifact written: %s (%d bytes)", path, len(data))

	return &Artifact{
		Name: name,
		Path: path,
		URL:  fmt.Sprintf("%s%s/%s", s.baseURL, s.publicPath, name),
		Size: int64(len(data)),
	}, nil
}

// generateName combines a millisecond timestamp with a random token so two
// uploads finishing in the same clock tick cannot collide.
func (s *LocalStore) generateName() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("processed-%d-%s.png", time.Now().UnixMilli(), token)
}
