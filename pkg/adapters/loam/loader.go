package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/aretw0/gensyn/pkg/ports"
	"github.com/aretw0/gensyn/pkg/schema"
	"github.com/aretw0/loam"
)

// Loader adapts a Loam vault to the GenSyn PatchLoader interface.
// Patches are Markdown files with frontmatter, or plain JSON/YAML documents.
type Loader struct {
	Repo *loam.TypedRepository[PatchMetadata]
}

var _ ports.PatchLoader = (*Loader)(nil)

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[PatchMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only, strict Loam vault at path and wraps it.
func Open(path string) (*Loader, error) {
	repo, err := loam.Init(path, loam.WithStrict(true), loam.WithReadOnly(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open loam vault %s: %w", path, err)
	}
	return New(loam.NewTypedRepository[PatchMetadata](repo)), nil
}

// Load decodes the patch whose normalized ID matches id.
func (l *Loader) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	docs, _, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	meta, ok := docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPatchNotFound, id)
	}

	snap, err := schema.Decode(meta.document())
	if err != nil {
		return nil, fmt.Errorf("patch %s: %w", id, err)
	}
	return snap, nil
}

// Describe returns the title and description declared by a patch.
// Without a description field, the document body is used.
func (l *Loader) Describe(ctx context.Context, id string) (PatchMetadata, error) {
	docs, paths, err := l.index(ctx)
	if err != nil {
		return PatchMetadata{}, err
	}
	meta, ok := docs[id]
	if !ok {
		return PatchMetadata{}, fmt.Errorf("%w: %s", domain.ErrPatchNotFound, id)
	}
	if meta.Description != "" {
		return meta, nil
	}

	// List does not carry document bodies.
	doc, err := l.Repo.Get(ctx, paths[id])
	if err != nil {
		doc, err = l.Repo.Get(ctx, id)
	}
	if err != nil {
		return PatchMetadata{}, fmt.Errorf("loam get %s failed: %w", id, err)
	}
	meta.Description = strings.TrimSpace(doc.Content)
	return meta, nil
}

// List lists all patches in the vault.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	docs, _, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// index maps normalized IDs to their metadata, and to the document path loam knows them by.
func (l *Loader) index(ctx context.Context) (map[string]PatchMetadata, map[string]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	out := make(map[string]PatchMetadata, len(docs))
	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		out[id] = doc.Data
	}
	return out, seen, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch streams the IDs of patch documents as they change on disk.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
