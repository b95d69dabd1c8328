package localmedia

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ericman314/pinewood-server/internal/platform/ctxutil"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

// Kind selects the directory a photo lives in.
type Kind string

const (
	KindCar     Kind = "cars"
	KindCheckIn Kind = "checkin"
)

var (
	ErrInvalidID = errors.New("invalid media id")

	carIDPattern     = regexp.MustCompile(`^[0-9]{1,9}$`)
	checkInIDPattern = regexp.MustCompile(`^[0-9a-f-]{36}$`)
)

// Store keeps JPEG photos on the local disk as <root>/<kind>/<id>.jpg.
type Store interface {
	EnsureDirs(ctx context.Context) error
	Path(kind Kind, id string) (string, error)
	Write(ctx context.Context, kind Kind, id string, data []byte) error
	Exists(ctx context.Context, kind Kind, id string) (bool, error)
}

type store struct {
	log  *logger.Logger
	root string
}

func New(log *logger.Logger, root string) Store {
	if root == "" {
		root = "media"
	}
	return &store{
		log:  log.With("service", "MediaStore", "root", root),
		root: root,
	}
}

// ValidID reports whether id is acceptable for kind. Car photos are keyed by
// numeric car id, check-in photos by UUID.
func ValidID(kind Kind, id string) bool {
	switch kind {
	case KindCar:
		return carIDPattern.MatchString(id)
	case KindCheckIn:
		return checkInIDPattern.MatchString(id)
	default:
		return false
	}
}

func (s *store) EnsureDirs(ctx context.Context) error {
	for _, k := range []Kind{KindCar, KindCheckIn} {
		if err := os.MkdirAll(filepath.Join(s.root, string(k)), 0o755); err != nil {
			return fmt.Errorf("create %s dir: %w", k, err)
		}
	}
	return nil
}

func (s *store) Path(kind Kind, id string) (string, error) {
	if !ValidID(kind, id) {
		return "", ErrInvalidID
	}
	return filepath.Join(s.root, string(kind), id+".jpg"), nil
}

// Write replaces the photo atomically so readers never see a partial file.
func (s *store) Write(ctx context.Context, kind Kind, id string, data []byte) error {
	ctx = ctxutil.Default(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.Path(kind, id)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, id+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		cleanup()
		return fmt.Errorf("rename into place: %w", err)
	}
	s.log.Debug("Photo written", "kind", kind, "id", id, "bytes", len(data))
	return nil
}

func (s *store) Exists(ctx context.Context, kind Kind, id string) (bool, error) {
	path, err := s.Path(kind, id)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
