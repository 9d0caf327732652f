package status

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/door-alarm/internal/config"
	domain "github.com/oshokin/door-alarm/internal/domain/alarm"
)

const (
	fieldState     = "state"
	fieldChangedAt = "changed_at"
)

// Repository defines persistence operations for the status snapshot.
type Repository interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snapshot *domain.Snapshot) error
}

// FileRepository stores the snapshot as protobuf JSON on disk.
type FileRepository struct {
	// path is the filesystem location of the snapshot.
	path string
	// mu serializes file access.
	mu sync.Mutex
}

var (
	// ErrNotFound is returned when no snapshot has been written yet.
	ErrNotFound = errors.New("status not found")
	// ErrMalformed is returned when the file lacks the expected fields.
	ErrMalformed = errors.New("malformed status file")
)

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the snapshot from disk.
func (r *FileRepository) Load(_ context.Context) (*domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read status file: %w", err)
	}

	var doc structpb.Struct
	if err = protojson.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("decode status file: %w", err)
	}

	return fromStruct(&doc)
}

// Save writes the snapshot to disk through a temporary file so readers never
// see a partial document.
func (r *FileRepository) Save(_ context.Context, snapshot *domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := toStruct(snapshot)
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}

	data, err := protojson.MarshalOptions{Multiline: true}.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}

	tmp := r.path + ".tmp"
	if err = os.WriteFile(tmp, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write status file: %w", err)
	}

	if err = os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace status file: %w", err)
	}

	return nil
}

func toStruct(snapshot *domain.Snapshot) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		fieldState:     snapshot.Display.String(),
		fieldChangedAt: snapshot.ChangedAt.UTC().Format(time.RFC3339Nano),
	})
}

func fromStruct(doc *structpb.Struct) (*domain.Snapshot, error) {
	fields := doc.GetFields()

	display, err := domain.ParseDisplay(fields[fieldState].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	changedAt, err := time.Parse(time.RFC3339Nano, fields[fieldChangedAt].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return &domain.Snapshot{
		Display:   display,
		ChangedAt: changedAt,
	}, nil
}
