package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	okskema "github.com/reoring/okskema"
)

// JSONBytes decodes one JSON document with default options.
func JSONBytes(b []byte) (any, error) { return DecodeJSON(bytes.NewReader(b), Options{}) }

// DecodeJSON reads exactly one JSON document from r. Numbers are kept as
// json.Number so integer precision survives. Trailing data after the
// document is an error.
func DecodeJSON(r io.Reader, opts Options) (any, error) {
	dec := newJSONDecoder(r)
	v, err := readJSON(dec, opts)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("source: empty JSON input")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("source: unexpected data after JSON document")
	}
	return v, nil
}

func decodeJSONStream(r io.Reader, opts Options) ([]any, error) {
	dec := newJSONDecoder(r)
	var out []any
	for {
		v, err := readJSON(dec, opts)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("document %d: %w", len(out), err)
		}
		out = append(out, v)
	}
}

func newJSONDecoder(r io.Reader) *json.Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec
}

// readJSON decodes the next value. Plain decoding is used unless an option
// needs the token walker.
func readJSON(dec *json.Decoder, opts Options) (any, error) {
	if !opts.RejectDuplicateKeys && opts.MaxDepth <= 0 {
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	w := &tokenWalker{dec: dec, opts: opts}
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return w.value(okskema.Path{}, tok)
}

// tokenWalker rebuilds a value from the decoder's token stream, tracking
// the path of the current container.
type tokenWalker struct {
	dec  *json.Decoder
	opts Options
}

func (w *tokenWalker) value(path okskema.Path, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		if w.opts.MaxDepth > 0 && len(path) >= w.opts.MaxDepth {
			return nil, &DepthError{Pointer: path.Pointer(), Max: w.opts.MaxDepth}
		}
		switch t {
		case '{':
			return w.object(path)
		case '[':
			return w.array(path)
		}
		return nil, fmt.Errorf("source: unexpected %q at %s", rune(t), path.Pointer())
	case string, bool, json.Number, float64, nil:
		return t, nil
	}
	return nil, fmt.Errorf("source: unexpected token %T at %s", tok, path.Pointer())
}

func (w *tokenWalker) object(path okskema.Path) (map[string]any, error) {
	out := map[string]any{}
	for w.dec.More() {
		kt, err := w.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("source: expected object key at %s", path.Pointer())
		}
		if _, dup := out[key]; dup && w.opts.RejectDuplicateKeys {
			return nil, &DuplicateKeyError{Pointer: path.Pointer(), Key: key}
		}
		vt, err := w.dec.Token()
		if err != nil {
			return nil, err
		}
		v, err := w.value(path.Append(okskema.Key(key)), vt)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	if _, err := w.dec.Token(); err != nil { // '}'
		return nil, err
	}
	return out, nil
}

func (w *tokenWalker) array(path okskema.Path) ([]any, error) {
	out := []any{}
	for w.dec.More() {
		tok, err := w.dec.Token()
		if err != nil {
			return nil, err
		}
		v, err := w.value(path.Append(okskema.Index(len(out))), tok)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if _, err := w.dec.Token(); err != nil { // ']'
		return nil, err
	}
	return out, nil
}
