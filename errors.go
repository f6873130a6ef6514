package okskema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/reoring/okskema/i18n"
)

// Failure codes. Each identifies one kind of violated constraint.
const (
	CodeType            = "type"
	CodeRequired        = "required"
	CodeMinLength       = "minLength"
	CodeMaxLength       = "maxLength"
	CodePattern         = "pattern"
	CodeOneOf           = "oneOf"
	CodeNotOneOf        = "notOneOf"
	CodeMin             = "min"
	CodeMax             = "max"
	CodeEqual           = "equal"
	CodeMinItems        = "minItems"
	CodeMaxItems        = "maxItems"
	CodeAdditionalItems = "additionalItems"
	CodeUnknownKey      = "unknownKey"
	CodeCustom          = "custom"
)

// Failure records one violated constraint.
//
// Path, Code, Label and Params identify a failure. Message is presentation
// only: it is rendered by the translator current at creation time, so two
// validations of the same value may carry different messages when the
// language changes in between. Use Localize to render for a fixed language.
type Failure struct {
	Path    Path   `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	// Label is the human-readable name declared on the schema that produced
	// the failure, if any.
	Label string `json:"label,omitempty"`
	// Params carries the constraint payload, e.g. {"min": 1, "actual": 0}.
	Params map[string]any `json:"params,omitempty"`
}

// NewFailure creates a root-level Failure whose message comes from the
// current translator. kv is a flat list of param key/value pairs.
func NewFailure(code string, kv ...any) Failure {
	var params map[string]any
	if len(kv) > 1 {
		params = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			params[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return Failure{Code: code, Message: i18n.T(code, stringParams(params)), Params: params}
}

// TypeFailure reports a kind mismatch between the expected and actual value.
func TypeFailure(expected string, actual any) Failure {
	return NewFailure(CodeType, "expected", expected, "actual", KindOf(actual).String())
}

// RequiredFailure reports a missing required property or position.
func RequiredFailure() Failure { return NewFailure(CodeRequired) }

// Under returns a copy of f located one level deeper, below seg.
func (f Failure) Under(seg Segment) Failure {
	f.Path = f.Path.Prepend(seg)
	return f
}

// String renders e.g. "minLength at /username".
func (f Failure) String() string { return f.Code + " at " + f.Path.Pointer() }

func stringParams(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = fmt.Sprint(v)
	}
	return out
}

// Failures is an ordered collection of Failure that implements error.
type Failures []Failure

// Error summarizes the first few failures.
func (fs Failures) Error() string {
	if len(fs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(fs)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(fs[i].String())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Under returns a copy of fs with seg prepended to every path.
func (fs Failures) Under(seg Segment) Failures {
	if len(fs) == 0 {
		return nil
	}
	out := make(Failures, len(fs))
	for i, f := range fs {
		out[i] = f.Under(seg)
	}
	return out
}

// WithLabel fills Label on failures located at the node itself (empty path)
// that do not carry one yet. Deeper failures keep their own labels.
func (fs Failures) WithLabel(label string) Failures {
	if label == "" {
		return fs
	}
	for i := range fs {
		if len(fs[i].Path) == 0 && fs[i].Label == "" {
			fs[i].Label = label
		}
	}
	return fs
}

// Has reports whether a failure with code exists at path.
func (fs Failures) Has(path Path, code string) bool {
	for _, f := range fs {
		if f.Code == code && f.Path.Equal(path) {
			return true
		}
	}
	return false
}

// Equal reports whether fs and o hold the same failures in the same order,
// ignoring messages.
func (fs Failures) Equal(o Failures) bool {
	if len(fs) != len(o) {
		return false
	}
	for i := range fs {
		a, b := fs[i], o[i]
		if a.Code != b.Code || a.Label != b.Label || !a.Path.Equal(b.Path) ||
			!reflect.DeepEqual(a.Params, b.Params) {
			return false
		}
	}
	return true
}

// Localize returns a copy of fs with messages rendered by tr. Custom
// failures keep their message, which their producer wrote.
func (fs Failures) Localize(tr i18n.Translator) Failures {
	if len(fs) == 0 {
		return nil
	}
	out := make(Failures, len(fs))
	for i, f := range fs {
		if f.Code != CodeCustom {
			f.Message = tr.Message(f.Code, stringParams(f.Params))
		}
		out[i] = f
	}
	return out
}

// Codes returns the failure codes in order.
func (fs Failures) Codes() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Code
	}
	return out
}

// AsFailures extracts Failures from an error using errors.As internally.
func AsFailures(err error) (Failures, bool) {
	if err == nil {
		return nil, false
	}
	var fs Failures
	if errors.As(err, &fs) {
		return fs, true
	}
	return nil, false
}
