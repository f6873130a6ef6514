package source

import (
	"errors"
	"fmt"
	"io"
	"time"

	okskema "github.com/reoring/okskema"
	"gopkg.in/yaml.v3"
)

// DecodeYAML reads exactly one YAML document from r and normalizes it to the
// value model. Mapping keys are rendered as strings; keys that render the
// same (1 and "1") are reported as a *DuplicateKeyError.
func DecodeYAML(r io.Reader, opts Options) (any, error) {
	dec := yaml.NewDecoder(r)
	v, err := readYAML(dec, opts)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("source: empty YAML input")
		}
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("source: unexpected data after YAML document")
	}
	return v, nil
}

func decodeYAMLStream(r io.Reader, opts Options) ([]any, error) {
	dec := yaml.NewDecoder(r)
	var out []any
	for {
		v, err := readYAML(dec, opts)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("document %d: %w", len(out), err)
		}
		out = append(out, v)
	}
}

func readYAML(dec *yaml.Decoder, opts Options) (any, error) {
	var node any
	if err := dec.Decode(&node); err != nil {
		return nil, err
	}
	return normalizeYAML(node, okskema.Path{}, opts.MaxDepth)
}

// normalizeYAML converts yaml.v3 output into the value model.
func normalizeYAML(v any, path okskema.Path, maxDepth int) (any, error) {
	switch v.(type) {
	case map[string]any, map[any]any, []any:
		if maxDepth > 0 && len(path) >= maxDepth {
			return nil, &DepthError{Pointer: path.Pointer(), Max: maxDepth}
		}
	}
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			nv, err := normalizeYAML(vv, path.Append(okskema.Key(k)), maxDepth)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks := fmt.Sprint(k)
			if _, dup := out[ks]; dup {
				return nil, &DuplicateKeyError{Pointer: path.Pointer(), Key: ks}
			}
			nv, err := normalizeYAML(vv, path.Append(okskema.Key(ks)), maxDepth)
			if err != nil {
				return nil, err
			}
			out[ks] = nv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i := range t {
			nv, err := normalizeYAML(t[i], path.Append(okskema.Index(i)), maxDepth)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	case time.Time:
		return t.Format(time.RFC3339Nano), nil
	default:
		return v, nil
	}
}
