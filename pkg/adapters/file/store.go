package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/aretw0/gensyn/pkg/schema"
)

// DefaultDir is where patches live when no base path is given.
var DefaultDir = filepath.Join(".gensyn", "patches")

var extensions = []string{".yaml", ".yml", ".json"}

// Store implements ports.PatchStore using the local filesystem.
// Each patch is one JSON or YAML document named after its ID.
type Store struct {
	BasePath string
	Format   schema.Format
}

// Option configures a Store.
type Option func(*Store)

// WithFormat sets the encoding used for new patches (default YAML).
func WithFormat(f schema.Format) Option {
	return func(s *Store) {
		s.Format = f
	}
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to DefaultDir.
func New(basePath string, opts ...Option) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	s := &Store{BasePath: basePath, Format: schema.FormatYAML}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func checkID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: invalid patch id %q", domain.ErrInvalidArgument, id)
	}
	return nil
}

// path finds the existing document for id, whatever its extension.
func (s *Store) path(id string) (string, bool) {
	for _, ext := range extensions {
		p := filepath.Join(s.BasePath, id+ext)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// Save persists the patch atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
// A previous version stored under another extension is removed.
func (s *Store) Save(ctx context.Context, id string, snap *domain.Snapshot) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure patch directory: %w", err)
	}

	data, err := schema.Marshal(snap, s.Format)
	if err != nil {
		return fmt.Errorf("failed to marshal patch: %w", err)
	}
	destPath := filepath.Join(s.BasePath, id+s.Format.Ext())

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+id+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if old, ok := s.path(id); ok && old != destPath {
		if err := os.Remove(old); err != nil {
			return fmt.Errorf("failed to remove previous patch file: %w", err)
		}
	}
	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing patch file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to patch: %w", err)
	}
	return nil
}

// Load reads and decodes a patch.
func (s *Store) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	p, ok := s.path(id)
	if !ok {
		return nil, domain.ErrPatchNotFound
	}
	return ReadFile(p)
}

// ReadFile decodes a patch document from any path, picking the format from its extension.
func ReadFile(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrPatchNotFound
		}
		return nil, fmt.Errorf("failed to read patch file: %w", err)
	}
	snap, err := schema.Unmarshal(data, schema.FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return snap, nil
}

// Delete removes the patch file.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	for _, ext := range extensions {
		err := os.Remove(filepath.Join(s.BasePath, id+ext))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete patch file: %w", err)
		}
	}
	return nil
}

// List returns all stored patch IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list patches: %w", err)
	}

	seen := map[string]bool{}
	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "tmp-") {
			continue
		}
		for _, ext := range extensions {
			if strings.HasSuffix(name, ext) {
				id := strings.TrimSuffix(name, ext)
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
				break
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}
