package storage

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/spigell/job-tracker/internal/jobs"
	"github.com/spigell/job-tracker/internal/logger"
	"github.com/spigell/job-tracker/internal/tracker"
)

const (
	PendingFile = "pending_jobs.json"
	AppliedFile = "applied_jobs.json"

	lockFile   = ".lock"
	tmpSuffix  = ".tmp"
	lockRetry  = 100 * time.Millisecond
	filePerm   = 0o644
	dirPerm    = 0o755
	jsonIndent = "  "
)

var ErrSchema = errors.New("record set does not match schema")

//go:embed schemas/*.json
var schemas embed.FS

// Files stores both record sets as JSON files in one directory.
type Files struct {
	dir    string
	lock   *flock.Flock
	logger *zap.Logger

	pendingSchema *gojsonschema.Schema
	appliedSchema *gojsonschema.Schema
}

var _ tracker.Store = (*Files)(nil)
var _ tracker.Locker = (*Files)(nil)

func New(dir string, log *zap.Logger) (*Files, error) {
	pending, err := loadSchema("pending")
	if err != nil {
		return nil, err
	}
	applied, err := loadSchema("applied")
	if err != nil {
		return nil, err
	}

	return &Files{
		dir:           dir,
		lock:          flock.New(filepath.Join(dir, lockFile)),
		logger:        logger.WithFields(log, zap.String("data_dir", dir)),
		pendingSchema: pending,
		appliedSchema: applied,
	}, nil
}

func loadSchema(name string) (*gojsonschema.Schema, error) {
	data, err := schemas.ReadFile("schemas/" + name + ".schema.json")
	if err != nil {
		return nil, fmt.Errorf("reading %s schema: %w", name, err)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("compiling %s schema: %w", name, err)
	}
	return schema, nil
}

func (f *Files) PendingPath() string {
	return filepath.Join(f.dir, PendingFile)
}

func (f *Files) AppliedPath() string {
	return filepath.Join(f.dir, AppliedFile)
}

// Lock takes the exclusive data dir lock, retrying until ctx is done.
func (f *Files) Lock(ctx context.Context) error {
	if err := os.MkdirAll(f.dir, dirPerm); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	locked, err := f.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("acquiring %s: %w", f.lock.Path(), err)
	}
	if !locked {
		return fmt.Errorf("data dir %s is locked by another process", f.dir)
	}

	f.logger.Debug("data dir locked")
	return nil
}

func (f *Files) Unlock() error {
	return f.lock.Unlock()
}

// Load reads both record sets. Missing files are empty sets.
func (f *Files) Load(ctx context.Context) (*tracker.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := tracker.NewState()

	if err := f.read(f.PendingPath(), f.pendingSchema, state.Pending); err != nil {
		return nil, err
	}
	if err := f.read(f.AppliedPath(), f.appliedSchema, state.Applied); err != nil {
		return nil, err
	}

	if state.Pending.Jobs == nil {
		state.Pending.Jobs = []*jobs.Record{}
	}
	if state.Applied.Jobs == nil {
		state.Applied.Jobs = []*jobs.Application{}
	}

	for _, app := range state.Applied.Jobs {
		if !tracker.IsKnownStatus(app.Status) {
			f.logger.Warn("application has an unknown status",
				append(logger.JobFields(&app.Record), zap.String("status", string(app.Status)))...)
		}
	}

	f.logger.Debug("record sets loaded",
		zap.Int("pending", state.Pending.Len()),
		zap.Int("applied", state.Applied.Len()),
	)

	return state, nil
}

func (f *Files) read(path string, schema *gojsonschema.Schema, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		f.logger.Debug("record set file not found, starting empty", zap.String("path", path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := validate(schema, data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	return nil
}

func validate(schema *gojsonschema.Schema, data []byte) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if res.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
}

// Save writes both record sets. Both files are staged next to the originals
// and renamed into place only when both were written. Applied is replaced
// first: a failure between the renames leaves a recorded job still pending
// rather than lost.
func (f *Files) Save(ctx context.Context, state *tracker.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pending := state.Pending
	if pending == nil {
		pending = &jobs.PendingSet{}
	}
	if pending.Jobs == nil {
		pending.Jobs = []*jobs.Record{}
	}
	applied := state.Applied
	if applied == nil {
		applied = &jobs.AppliedSet{}
	}
	if applied.Jobs == nil {
		applied.Jobs = []*jobs.Application{}
	}

	if err := os.MkdirAll(f.dir, dirPerm); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	staged := make([]string, 0, 2)
	cleanup := func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}

	for _, file := range []struct {
		path  string
		value any
	}{
		{path: f.AppliedPath(), value: applied},
		{path: f.PendingPath(), value: pending},
	} {
		tmp, err := stage(file.path, file.value)
		if err != nil {
			cleanup()
			return err
		}
		staged = append(staged, tmp)
	}

	for _, tmp := range staged {
		if err := os.Rename(tmp, strings.TrimSuffix(tmp, tmpSuffix)); err != nil {
			cleanup()
			return fmt.Errorf("replacing %s: %w", strings.TrimSuffix(tmp, tmpSuffix), err)
		}
	}

	f.logger.Debug("record sets saved",
		zap.Int("pending", pending.Len()),
		zap.Int("applied", applied.Len()),
	)

	return nil
}

func stage(path string, v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", jsonIndent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding %s: %w", path, err)
	}

	tmp := path + tmpSuffix
	if err := os.WriteFile(tmp, buf.Bytes(), filePerm); err != nil {
		return "", fmt.Errorf("writing %s: %w", tmp, err)
	}

	return tmp, nil
}
