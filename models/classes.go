package models

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// ErrUnknownClass is returned when a model emits a class index that has no
// label.
var ErrUnknownClass = errors.New("unknown class index")

// OutputClass represents one detection label.
type OutputClass struct {
	// The integer index returned by the model.
	Index int
	// The human-readable label.
	Name string
}

// OutputClassSet is the full list of labels a model was trained on.
type OutputClassSet struct {
	// Classes that are supported and mappable.
	Classes []OutputClass
}

// NewOutputClassSet builds a class set where each name's position is its
// index.
func NewOutputClassSet(names []string) *OutputClassSet {
	set := &OutputClassSet{Classes: make([]OutputClass, len(names))}
	for i, name := range names {
		set.Classes[i] = OutputClass{Index: i, Name: name}
	}
	return set
}

// Len returns the number of classes.
func (s *OutputClassSet) Len() int {
	return len(s.Classes)
}

// Name returns the label for a class index.
func (s *OutputClassSet) Name(idx int) (string, error) {
	if idx < 0 || idx >= len(s.Classes) {
		return "", errors.Wrapf(ErrUnknownClass, "index %d out of range for %d classes", idx, len(s.Classes))
	}
	return s.Classes[idx].Name, nil
}

// namesEntry matches one `index: 'label'` or `index: "label"` pair of the
// dict literal Ultralytics stores under the "names" metadata key.
var namesEntry = regexp.MustCompile(`(\d+)\s*:\s*(?:'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)")`)

// ParseNames decodes the "names" model metadata, e.g.
// {0: 'aphid', 1: "mite's egg"}, into an ordered class set.
//
// Arguments:
//   - meta: The raw metadata value.
//
// Returns:
//   - *OutputClassSet: Classes ordered by index.
//   - error: If no entries are found or indices are not contiguous from zero.
func ParseNames(meta string) (*OutputClassSet, error) {
	matches := namesEntry.FindAllStringSubmatch(meta, -1)
	if len(matches) == 0 {
		return nil, errors.Errorf("no class names in metadata %q", meta)
	}

	classes := make([]OutputClass, 0, len(matches))
	for _, m := range matches {
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid class index %q", m[1])
		}
		name := m[2]
		if name == "" {
			name = m[3]
		}
		classes = append(classes, OutputClass{Index: idx, Name: unescape(name)})
	}

	sort.SliceStable(classes, func(i, j int) bool { return classes[i].Index < classes[j].Index })
	for i, c := range classes {
		if c.Index != i {
			return nil, errors.Errorf("class indices are not contiguous: expected %d, got %d", i, c.Index)
		}
	}

	return &OutputClassSet{Classes: classes}, nil
}

// unescape resolves backslash escapes of a Python string literal body.
func unescape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		out = append(out, s[i])
	}
	return string(out)
}
