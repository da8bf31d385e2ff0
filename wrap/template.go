// Copyright 2024 KVLens Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wrap

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var templateFieldRe = regexp.MustCompile(`\{([^{}]+)\}`)

// Template maps between structured field values and identifier strings
// rendered from a format template such as "/home/{user}/fav/{num}.txt".
// Each field matches a regular expression, by default any run of characters
// without a slash, so a rendered identifier parses back into exactly the
// values that produced it.
type Template struct {
	raw      string
	fields   []string
	literals []string // len(fields)+1, literals[i] precedes fields[i]
	pattern  *regexp.Regexp
}

// TemplateOption configures field matching in NewTemplate.
type TemplateOption func(map[string]string)

// WithFieldPattern overrides the regular expression a field's value must
// match, both when parsing and when validating rendered identifiers.
func WithFieldPattern(field, pattern string) TemplateOption {
	return func(patterns map[string]string) {
		patterns[field] = pattern
	}
}

// NewTemplate parses template into its literal and field segments and
// compiles the matching pattern. Duplicate field names are rejected.
func NewTemplate(template string, opts ...TemplateOption) (*Template, error) {
	patterns := map[string]string{}
	for _, opt := range opts {
		opt(patterns)
	}

	t := &Template{raw: template}
	seen := map[string]bool{}
	last := 0
	for _, m := range templateFieldRe.FindAllStringSubmatchIndex(template, -1) {
		field := template[m[2]:m[3]]
		if seen[field] {
			return nil, errors.Errorf("wrap: duplicate template field %q", field)
		}
		seen[field] = true
		t.literals = append(t.literals, template[last:m[0]])
		t.fields = append(t.fields, field)
		last = m[1]
	}
	t.literals = append(t.literals, template[last:])
	if len(t.fields) == 0 {
		return nil, errors.Errorf("wrap: template %q has no fields", template)
	}

	// fields are captured positionally; field names need not be legal
	// regexp group names
	var pat strings.Builder
	pat.WriteString("^")
	for i, field := range t.fields {
		pat.WriteString(regexp.QuoteMeta(t.literals[i]))
		fieldPat, ok := patterns[field]
		if !ok {
			fieldPat = `[^/]+`
		}
		pat.WriteString("(" + fieldPat + ")")
	}
	pat.WriteString(regexp.QuoteMeta(t.literals[len(t.fields)]))
	pat.WriteString("$")

	re, err := regexp.Compile(pat.String())
	if err != nil {
		return nil, errors.Wrapf(err, "wrap: template %q", template)
	}
	t.pattern = re
	return t, nil
}

// Fields returns the field names in template order.
func (t *Template) Fields() []string {
	out := make([]string, len(t.fields))
	copy(out, t.fields)
	return out
}

// IsValid reports whether id is a string the template could have rendered.
func (t *Template) IsValid(id string) bool {
	return t.pattern.MatchString(id)
}

// FormatTuple renders the template from positional field values. Every
// field must be supplied.
func (t *Template) FormatTuple(vals ...string) (string, error) {
	if len(vals) != len(t.fields) {
		return "", errors.Errorf("wrap: template wants %d values, got %d", len(t.fields), len(vals))
	}
	var b strings.Builder
	for i, v := range vals {
		b.WriteString(t.literals[i])
		b.WriteString(v)
	}
	b.WriteString(t.literals[len(t.fields)])
	return b.String(), nil
}

// Format renders the template from named field values.
func (t *Template) Format(vals map[string]string) (string, error) {
	if len(vals) != len(t.fields) {
		return "", errors.Errorf("wrap: template wants %d values, got %d", len(t.fields), len(vals))
	}
	ordered := make([]string, len(t.fields))
	for i, field := range t.fields {
		v, ok := vals[field]
		if !ok {
			return "", errors.Errorf("wrap: template missing field %q", field)
		}
		ordered[i] = v
	}
	return t.FormatTuple(ordered...)
}

// ExtractTuple parses id back into positional field values.
func (t *Template) ExtractTuple(id string) ([]string, error) {
	m := t.pattern.FindStringSubmatch(id)
	if m == nil {
		return nil, errors.Errorf("wrap: %q does not match template %q", id, t.raw)
	}
	return m[1:], nil
}

// Extract parses id back into a field-name to value map.
func (t *Template) Extract(id string) (map[string]string, error) {
	vals, err := t.ExtractTuple(id)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(t.fields))
	for i, field := range t.fields {
		out[field] = vals[i]
	}
	return out, nil
}

// PrefixOf renders the template up to (and including) the literal that
// follows the last supplied field value, producing the common identifier
// prefix of every rendering that starts with those values. Supplying every
// field gives the full identifier.
func (t *Template) PrefixOf(vals ...string) (string, error) {
	if len(vals) > len(t.fields) {
		return "", errors.Errorf("wrap: template wants at most %d values, got %d", len(t.fields), len(vals))
	}
	var b strings.Builder
	for i, v := range vals {
		b.WriteString(t.literals[i])
		b.WriteString(v)
	}
	b.WriteString(t.literals[len(vals)])
	return b.String(), nil
}

// KeyPath joins and splits structured keys with a separator, the common way
// to spell a field tuple as one flat key ("a/b/c", "first.last.age").
type KeyPath struct {
	sep string
}

func NewKeyPath(sep string) KeyPath {
	return KeyPath{sep: sep}
}

func (kp KeyPath) Join(parts []string) string {
	return strings.Join(parts, kp.sep)
}

func (kp KeyPath) Split(key string) []string {
	return strings.Split(key, kp.sep)
}

type tupleKeys struct {
	t  *Template
	kp KeyPath
}

var _ KeyTransform = tupleKeys{}

// TupleKeys is the key transform over a Template: the interface key is the
// field values joined by the KeyPath separator, the backend identifier is
// the rendered template. "alice,notes.txt" over template
// "u/{user}/f/{file}" becomes identifier "u/alice/f/notes.txt".
func TupleKeys(t *Template, kp KeyPath) KeyTransform {
	return tupleKeys{t: t, kp: kp}
}

func (tk tupleKeys) IDOfKey(key string) (string, error) {
	id, err := tk.t.FormatTuple(tk.kp.Split(key)...)
	if err != nil {
		return "", err
	}
	return id, nil
}

// KeyOfID parses the identifier back into a joined key. Identifiers the
// template never rendered are a caller contract violation and come back
// unchanged.
func (tk tupleKeys) KeyOfID(id string) string {
	vals, err := tk.t.ExtractTuple(id)
	if err != nil {
		return id
	}
	return tk.kp.Join(vals)
}
