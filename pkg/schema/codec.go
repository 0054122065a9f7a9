package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension. Anything but .json is YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Ext returns the canonical file extension for the format.
func (f Format) Ext() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".yaml"
}

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// Marshal encodes a snapshot.
func Marshal(snap *domain.Snapshot, format Format) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("schema: nil snapshot")
	}
	switch format {
	case FormatJSON:
		return json.MarshalIndent(snap, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("schema: unsupported format %q", format)
}

// Unmarshal decodes and validates a snapshot document.
func Unmarshal(data []byte, format Format) (*domain.Snapshot, error) {
	var doc map[string]any
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSchemaError, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: empty document", domain.ErrSchemaError)
	}
	return Decode(doc)
}

// Decode converts a generic document into a snapshot. Unknown keys are rejected and
// scalar parameter values are stored as their text.
func Decode(doc map[string]any) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &snap,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(doc); err != nil {
		var mErr *mapstructure.Error
		if errors.As(err, &mErr) {
			errs := make([]error, 0, len(mErr.Errors))
			for _, e := range mErr.Errors {
				errs = append(errs, &ValidationError{Key: "document", Reason: e})
			}
			return nil, fmt.Errorf("%w: %w", domain.ErrSchemaError, &AggregateError{Errors: errs})
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrSchemaError, err)
	}
	if err := Validate(&snap); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSchemaError, err)
	}
	return &snap, nil
}

// Validate checks the structure of a snapshot: versions, required fields and unique
// gate names. Type and port compatibility is left to the engine.
func Validate(snap *domain.Snapshot) error {
	var errs []error
	fail := func(key, format string, args ...any) {
		errs = append(errs, &ValidationError{Key: key, Reason: fmt.Sprintf(format, args...)})
	}

	if snap.Version != 0 && snap.Version != domain.SnapshotVersion {
		fail("version", "unsupported version %d", snap.Version)
	}
	if snap.SampleRate < 0 {
		fail("sample_rate", "must not be negative")
	}

	seen := make(map[string]bool, len(snap.Gates))
	for i, g := range snap.Gates {
		key := fmt.Sprintf("gates[%d]", i)
		if g.Name == "" {
			fail(key+".name", "required")
		} else if seen[g.Name] {
			fail(key+".name", "duplicate gate %q", g.Name)
		}
		seen[g.Name] = true
		if g.Type == "" {
			fail(key+".type", "required")
		}
	}
	for i, c := range snap.Connections {
		key := fmt.Sprintf("connections[%d]", i)
		if c.From == "" {
			fail(key+".from", "required")
		}
		if c.To == "" {
			fail(key+".to", "required")
		}
		if c.Role != "" {
			if _, err := domain.ParseRole(c.Role); err != nil {
				fail(key+".role", "%v", err)
			}
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
