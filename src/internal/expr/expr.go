package expr

import (
	"fmt"
	"io"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/ifweave/ifweave/src/internal/errors"
)

const (
	startTag = "{{"
	endTag   = "}}"
)

// Document is the context an expression is evaluated against: a set of
// named, ordered multi-valued attributes describing an interface and its
// current lease/addressing state.
type Document struct {
	values map[string][]string
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{values: make(map[string][]string)}
}

// Set replaces the values of a key.
func (d *Document) Set(key string, values ...string) *Document {
	d.values[key] = append([]string(nil), values...)
	return d
}

// Append adds values to a key, preserving order.
func (d *Document) Append(key string, values ...string) *Document {
	d.values[key] = append(d.values[key], values...)
	return d
}

// Get returns the values of a key in insertion order. A missing key
// yields zero values, which is not an error.
func (d *Document) Get(key string) []string {
	return d.values[key]
}

// Evaluate expands an expression template against a document and returns
// the ordered list of produced strings.
//
// The result count is explicit and distinct from evaluation failure:
//   - a template that is a single bare placeholder ("{{key}}") yields one
//     result per value of that key, zero included;
//   - any other template yields exactly one result, unless a referenced
//     key has no value, in which case it yields zero results;
//   - a referenced key holding several values inside a mixed template is
//     ambiguous and fails;
//   - a malformed template (unterminated placeholder) fails.
func Evaluate(template string, doc *Document) ([]string, error) {
	if doc == nil {
		doc = NewDocument()
	}

	if key, ok := soleTag(template); ok {
		return append([]string(nil), doc.Get(key)...), nil
	}

	t, err := fasttemplate.NewTemplate(template, startTag, endTag)
	if err != nil {
		return nil, errors.NewExpressionError(fmt.Sprintf("bad expression %q", template), err)
	}

	missing := false
	out, err := t.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		values := doc.Get(strings.TrimSpace(tag))
		switch len(values) {
		case 0:
			missing = true
			return 0, nil
		case 1:
			return w.Write([]byte(values[0]))
		default:
			return 0, fmt.Errorf("key %q holds %d values", strings.TrimSpace(tag), len(values))
		}
	})
	if err != nil {
		return nil, errors.NewExpressionError(fmt.Sprintf("ambiguous expression %q", template), err)
	}
	if missing {
		return nil, nil
	}
	return []string{out}, nil
}

// soleTag reports whether the template consists of exactly one placeholder
// and nothing else, and returns the placeholder key.
func soleTag(template string) (string, bool) {
	if !strings.HasPrefix(template, startTag) || !strings.HasSuffix(template, endTag) {
		return "", false
	}
	inner := template[len(startTag) : len(template)-len(endTag)]
	if strings.Contains(inner, startTag) || strings.Contains(inner, endTag) {
		return "", false
	}
	return strings.TrimSpace(inner), true
}
