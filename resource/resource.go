// Package resource holds the in-memory model shared by the strings.xml
// reader/writer and the spreadsheet flattener/builder.
//
// A Set is an ordered list of entries. Each entry is a <string>,
// <string-array> or <plurals> resource whose leaf values are markup.Value.
package resource

import (
	"fmt"

	"github.com/minios-linux/stringsheet/markup"
)

// ---------------------------------------------------------------------------
// Kinds
// ---------------------------------------------------------------------------

// Kind identifies the type of a resource entry.
type Kind int

const (
	// KindString is a plain <string> resource.
	KindString Kind = iota
	// KindStringArray is a <string-array> resource.
	KindStringArray
	// KindPlurals is a <plurals> resource.
	KindPlurals
)

// Tag returns the strings.xml element name of the kind.
func (k Kind) Tag() string {
	switch k {
	case KindString:
		return "string"
	case KindStringArray:
		return "string-array"
	case KindPlurals:
		return "plurals"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) String() string { return k.Tag() }

// KindOf maps an element name to its kind.
func KindOf(tag string) (Kind, bool) {
	switch tag {
	case "string":
		return KindString, true
	case "string-array":
		return KindStringArray, true
	case "plurals":
		return KindPlurals, true
	}
	return 0, false
}

// ---------------------------------------------------------------------------
// Quantity categories
// ---------------------------------------------------------------------------

// Quantities lists the plural categories Android accepts, in CLDR order.
var Quantities = []string{"zero", "one", "two", "few", "many", "other"}

// IsQuantity reports whether q is a recognized plural category.
func IsQuantity(q string) bool {
	for _, known := range Quantities {
		if q == known {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Entries
// ---------------------------------------------------------------------------

// QuantityValue is one <item quantity="..."> of a plurals resource.
type QuantityValue struct {
	Quantity string
	Value    markup.Value
}

// Entry is one named resource.
type Entry struct {
	Kind Kind
	Name string
	// Translatable mirrors translatable="...". Defaults to true.
	Translatable bool

	// Value is set for KindString.
	Value markup.Value
	// Items is set for KindStringArray, in document order.
	Items []markup.Value
	// Quantities is set for KindPlurals, in document order.
	Quantities []QuantityValue
}

// NewString returns a translatable <string> entry.
func NewString(name string, v markup.Value) *Entry {
	return &Entry{Kind: KindString, Name: name, Translatable: true, Value: v}
}

// NewStringArray returns a translatable <string-array> entry.
func NewStringArray(name string, items ...markup.Value) *Entry {
	return &Entry{Kind: KindStringArray, Name: name, Translatable: true, Items: items}
}

// NewPlurals returns a translatable <plurals> entry.
func NewPlurals(name string, quantities ...QuantityValue) *Entry {
	return &Entry{Kind: KindPlurals, Name: name, Translatable: true, Quantities: quantities}
}

// Quantity returns the value of the given plural category.
func (e *Entry) Quantity(q string) (markup.Value, bool) {
	for _, qv := range e.Quantities {
		if qv.Quantity == q {
			return qv.Value, true
		}
	}
	return nil, false
}

// SetQuantity sets a plural category, appending it when absent.
// Returns false when the category was already present and got replaced.
func (e *Entry) SetQuantity(q string, v markup.Value) bool {
	for i := range e.Quantities {
		if e.Quantities[i].Quantity == q {
			e.Quantities[i].Value = v
			return false
		}
	}
	e.Quantities = append(e.Quantities, QuantityValue{Quantity: q, Value: v})
	return true
}

// Leaves returns every leaf value of the entry in order.
func (e *Entry) Leaves() []markup.Value {
	switch e.Kind {
	case KindString:
		return []markup.Value{e.Value}
	case KindStringArray:
		return e.Items
	case KindPlurals:
		out := make([]markup.Value, 0, len(e.Quantities))
		for _, qv := range e.Quantities {
			out = append(out, qv.Value)
		}
		return out
	}
	return nil
}

// ---------------------------------------------------------------------------
// Set
// ---------------------------------------------------------------------------

type entryKey struct {
	kind Kind
	name string
}

// Set is an ordered collection of entries with unique (kind, name) pairs.
// The same name may be used once per kind.
type Set struct {
	Entries []*Entry

	byKey map[entryKey]int
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{byKey: make(map[entryKey]int)}
}

// Add appends e. A second entry with the same kind and name is rejected
// with *MalformedResourceError.
func (s *Set) Add(e *Entry) error {
	if s.byKey == nil {
		s.reindex()
	}
	k := entryKey{e.Kind, e.Name}
	if _, dup := s.byKey[k]; dup {
		return &MalformedResourceError{
			Kind:   e.Kind,
			Name:   e.Name,
			Reason: fmt.Sprintf("duplicate <%s> name", e.Kind.Tag()),
		}
	}
	s.byKey[k] = len(s.Entries)
	s.Entries = append(s.Entries, e)
	return nil
}

// Get returns the entry of the given kind and name, or nil.
func (s *Set) Get(kind Kind, name string) *Entry {
	if s.byKey == nil {
		s.reindex()
	}
	idx, ok := s.byKey[entryKey{kind, name}]
	if !ok {
		return nil
	}
	return s.Entries[idx]
}

// Len returns the number of entries.
func (s *Set) Len() int { return len(s.Entries) }

// LeafCount returns the number of leaf values across all entries.
func (s *Set) LeafCount() int {
	n := 0
	for _, e := range s.Entries {
		n += len(e.Leaves())
	}
	return n
}

// Translatable returns a new set without entries marked translatable="false".
func (s *Set) Translatable() *Set {
	out := NewSet()
	for _, e := range s.Entries {
		if e.Translatable {
			// names are already unique in s
			_ = out.Add(e)
		}
	}
	return out
}

// Uses reports whether any leaf value uses the given inline tag.
func (s *Set) Uses(tag string) bool {
	for _, e := range s.Entries {
		for _, v := range e.Leaves() {
			if v.HasTag(tag) {
				return true
			}
		}
	}
	return false
}

func (s *Set) reindex() {
	s.byKey = make(map[entryKey]int, len(s.Entries))
	for i, e := range s.Entries {
		s.byKey[entryKey{e.Kind, e.Name}] = i
	}
}
