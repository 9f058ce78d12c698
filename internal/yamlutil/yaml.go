// Package yamlutil wraps YAML decoding to isolate the external dependency.
// Front matter, CLI configuration, and themes all decode through here.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrNotMapping     = errors.New("yamlutil: document root is not a mapping")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalMapping decodes a document whose root must be a key/value
// mapping. A document that holds only comments or "null" yields an empty,
// non-nil map. Scalars and sequences at the root return ErrNotMapping.
func UnmarshalMapping(data []byte) (map[string]any, error) {
	var root any
	if err := Unmarshal(data, &root); err != nil {
		return nil, err
	}

	switch v := root.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[fmt.Sprint(key)] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, root)
	}
}
