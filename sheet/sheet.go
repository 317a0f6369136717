// Package sheet flattens a resource set into spreadsheet rows and builds a
// resource set back from the rows of one language column.
//
// Every row holds exactly one leaf value: a <string>, one <string-array>
// item (with its index) or one <plurals> category (with its quantity).
// The row's type column names the resource kind explicitly; the builder
// checks that the sub index of every row agrees with it.
package sheet

import (
	"fmt"
	"strconv"

	"github.com/minios-linux/stringsheet/markup"
	"github.com/minios-linux/stringsheet/resource"
)

// ---------------------------------------------------------------------------
// Rows
// ---------------------------------------------------------------------------

// SubKind tells which form a SubIndex takes.
type SubKind int

const (
	// SubNone marks a <string> row.
	SubNone SubKind = iota
	// SubArrayIndex marks a <string-array> item row.
	SubArrayIndex
	// SubQuantity marks a <plurals> category row.
	SubQuantity
)

// SubIndex locates a leaf inside a composite resource.
type SubIndex struct {
	Kind     SubKind
	Index    int
	Quantity string
}

// AtIndex returns the sub index of array item i.
func AtIndex(i int) SubIndex { return SubIndex{Kind: SubArrayIndex, Index: i} }

// ForQuantity returns the sub index of plural category q.
func ForQuantity(q string) SubIndex { return SubIndex{Kind: SubQuantity, Quantity: q} }

// String returns the cell form: empty, a decimal index or a category.
func (s SubIndex) String() string {
	switch s.Kind {
	case SubArrayIndex:
		return strconv.Itoa(s.Index)
	case SubQuantity:
		return s.Quantity
	}
	return ""
}

// ParseSubIndex reads the cell form of a sub index. Category names are
// not checked here; Build validates them against the row's kind.
func ParseSubIndex(cell string) (SubIndex, error) {
	if cell == "" {
		return SubIndex{}, nil
	}
	if cell[0] == '-' || cell[0] == '+' || (cell[0] >= '0' && cell[0] <= '9') {
		i, err := strconv.Atoi(cell)
		if err != nil || i < 0 {
			return SubIndex{}, fmt.Errorf("invalid array index %q", cell)
		}
		return AtIndex(i), nil
	}
	return ForQuantity(cell), nil
}

// Row is one leaf value with its cells per language column.
type Row struct {
	Key    string
	Kind   resource.Kind
	Sub    SubIndex
	Values map[string]string
}

// Value returns the cell text under the given language column.
func (r Row) Value(language string) string {
	return r.Values[language]
}

// ParseKind maps a type cell to a resource kind. Unknown tags are rejected.
func ParseKind(cell string) (resource.Kind, error) {
	k, ok := resource.KindOf(cell)
	if !ok {
		return 0, fmt.Errorf("unrecognized type %q (valid: string, string-array, plurals)", cell)
	}
	return k, nil
}

// InvalidRowError reports a spreadsheet row that cannot be read.
type InvalidRowError struct {
	// Line is the 1-based spreadsheet row number.
	Line   int
	Reason string
}

func (e *InvalidRowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Line, e.Reason)
}

// ---------------------------------------------------------------------------
// Flattening
// ---------------------------------------------------------------------------

// Flatten returns one row per leaf value of s, in entry order and, inside
// composite entries, in item or category order. Values are stored under
// the given language column as encoded cell text.
func Flatten(s *resource.Set, language string) []Row {
	rows := make([]Row, 0, s.LeafCount())
	add := func(e *resource.Entry, sub SubIndex, v markup.Value) {
		rows = append(rows, Row{
			Key:    e.Name,
			Kind:   e.Kind,
			Sub:    sub,
			Values: map[string]string{language: markup.Encode(v)},
		})
	}

	for _, e := range s.Entries {
		switch e.Kind {
		case resource.KindString:
			add(e, SubIndex{}, e.Value)
		case resource.KindStringArray:
			for i, item := range e.Items {
				add(e, AtIndex(i), item)
			}
		case resource.KindPlurals:
			for _, qv := range e.Quantities {
				add(e, ForQuantity(qv.Quantity), qv.Value)
			}
		}
	}
	return rows
}

// ---------------------------------------------------------------------------
// Building
// ---------------------------------------------------------------------------

// Builder turns rows back into a resource set.
type Builder struct {
	// Strict rejects empty cells with *resource.MissingLanguageDataError.
	// Otherwise an empty cell yields an empty value and the entry is kept.
	Strict bool
}

// Build builds the set for language with the default (non-strict) policy.
func Build(rows []Row, language string) (*resource.Set, error) {
	return Builder{}.Build(rows, language)
}

type groupKey struct {
	kind resource.Kind
	key  string
}

// Build groups rows by kind and key, in order of first appearance, and
// turns each group into one entry. Groups whose sub indices do not fit
// their kind fail with *resource.AmbiguousGroupError.
func (b Builder) Build(rows []Row, language string) (*resource.Set, error) {
	var order []groupKey
	groups := make(map[groupKey][]Row)
	for _, r := range rows {
		k := groupKey{r.Kind, r.Key}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	s := resource.NewSet()
	for _, k := range order {
		e, err := b.buildEntry(k, groups[k], language)
		if err != nil {
			return nil, err
		}
		if err := s.Add(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (b Builder) buildEntry(k groupKey, rows []Row, language string) (*resource.Entry, error) {
	ambiguous := func(format string, args ...any) error {
		return &resource.AmbiguousGroupError{Kind: k.kind, Key: k.key, Reason: fmt.Sprintf(format, args...)}
	}

	var indexed, categorical, bare int
	for _, r := range rows {
		switch r.Sub.Kind {
		case SubArrayIndex:
			indexed++
		case SubQuantity:
			categorical++
		default:
			bare++
		}
	}
	if indexed > 0 && categorical > 0 {
		return nil, ambiguous("rows mix array indices and quantity categories")
	}

	switch k.kind {
	case resource.KindString:
		if indexed+categorical > 0 {
			return nil, ambiguous("string row carries a sub index")
		}
		if len(rows) != 1 {
			return nil, ambiguous("%d rows share the key", len(rows))
		}
		v, err := b.cell(rows[0], language)
		if err != nil {
			return nil, err
		}
		return resource.NewString(k.key, v), nil

	case resource.KindStringArray:
		if categorical > 0 || bare > 0 {
			return nil, ambiguous("every string-array row needs an index")
		}
		items := make([]markup.Value, len(rows))
		filled := make([]bool, len(rows))
		for _, r := range rows {
			i := r.Sub.Index
			if i >= len(rows) {
				return nil, ambiguous("index %d out of range for %d items", i, len(rows))
			}
			if filled[i] {
				return nil, ambiguous("duplicate index %d", i)
			}
			v, err := b.cell(r, language)
			if err != nil {
				return nil, err
			}
			items[i], filled[i] = v, true
		}
		return resource.NewStringArray(k.key, items...), nil

	case resource.KindPlurals:
		if indexed > 0 || bare > 0 {
			return nil, ambiguous("every plurals row needs a quantity")
		}
		e := resource.NewPlurals(k.key)
		for _, r := range rows {
			q := r.Sub.Quantity
			if !resource.IsQuantity(q) {
				return nil, ambiguous("unrecognized quantity %q", q)
			}
			v, err := b.cell(r, language)
			if err != nil {
				return nil, err
			}
			if !e.SetQuantity(q, v) {
				return nil, ambiguous("duplicate quantity %q", q)
			}
		}
		return e, nil
	}
	return nil, ambiguous("unknown kind")
}

// cell decodes the row's text under language.
func (b Builder) cell(r Row, language string) (markup.Value, error) {
	text := r.Value(language)
	if text == "" && b.Strict {
		return nil, &resource.MissingLanguageDataError{Language: language, Key: r.Key, Sub: r.Sub.String()}
	}
	return markup.Decode(text), nil
}
