// Package markup converts inline formatting inside Android string values
// to and from the flat text stored in a single spreadsheet cell.
//
// A value is a sequence of plain text and formatting spans such as
// <b>bold</b> or <xliff:g id="count">%d</xliff:g>. Spans are single-level:
// a span holds plain text only.
//
// Decoding is total. Angle-bracket text that does not form a recognized
// tag pair (unknown tag name, missing close tag, malformed attributes) is
// kept as literal plain text rather than dropped.
package markup

import (
	"strings"
)

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

// Attr is a single attribute of a span's opening tag.
type Attr struct {
	Name  string
	Value string
}

// Segment is one piece of a value. Tag is empty for plain text.
type Segment struct {
	Tag   string
	Attrs []Attr
	Text  string
}

// IsSpan reports whether the segment is a formatting span.
func (s Segment) IsSpan() bool { return s.Tag != "" }

// Value is an alternating sequence of plain text and spans.
// The empty value is nil; plain segments are never empty or adjacent.
type Value []Segment

// vocabulary is the closed set of inline tags understood by Decode.
var vocabulary = map[string]bool{
	"b":          true,
	"i":          true,
	"u":          true,
	"s":          true,
	"strike":     true,
	"big":        true,
	"small":      true,
	"sub":        true,
	"sup":        true,
	"tt":         true,
	"font":       true,
	"annotation": true,
	"xliff:g":    true,
}

// Recognized reports whether tag belongs to the inline vocabulary.
func Recognized(tag string) bool {
	return vocabulary[tag]
}

// Text returns a value holding only plain text.
func Text(s string) Value {
	return Value(nil).AppendText(s)
}

// Span returns a single-span value.
func Span(tag, text string, attrs ...Attr) Value {
	return Value(nil).AppendSpan(tag, text, attrs...)
}

// AppendText appends plain text, merging it into a trailing plain segment.
func (v Value) AppendText(s string) Value {
	if s == "" {
		return v
	}
	if n := len(v); n > 0 && !v[n-1].IsSpan() {
		// copy so that the receiver's last segment is left untouched
		return append(v[:n-1:n-1], Segment{Text: v[n-1].Text + s})
	}
	return append(v, Segment{Text: s})
}

// AppendSpan appends a formatting span.
func (v Value) AppendSpan(tag, text string, attrs ...Attr) Value {
	var a []Attr
	if len(attrs) > 0 {
		a = append(a, attrs...)
	}
	return append(v, Segment{Tag: tag, Attrs: a, Text: text})
}

// Concat joins values left to right, keeping the result normalized.
func Concat(values ...Value) Value {
	var out Value
	for _, v := range values {
		for _, s := range v {
			if s.IsSpan() {
				out = out.AppendSpan(s.Tag, s.Text, s.Attrs...)
			} else {
				out = out.AppendText(s.Text)
			}
		}
	}
	return out
}

// String returns the text of the value with all formatting removed.
func (v Value) String() string {
	var b strings.Builder
	for _, s := range v {
		b.WriteString(s.Text)
	}
	return b.String()
}

// IsEmpty reports whether the value carries no text and no spans.
func (v Value) IsEmpty() bool { return len(v) == 0 }

// HasTag reports whether any span in the value uses tag.
func (v Value) HasTag(tag string) bool {
	for _, s := range v {
		if s.Tag == tag {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

var attrEscaper = strings.NewReplacer(`&`, `&amp;`, `"`, `&quot;`)
var attrUnescaper = strings.NewReplacer(`&quot;`, `"`, `&amp;`, `&`)

// Encode renders v as cell text. Plain text is written unchanged and each
// span as <tag attr="...">text</tag>.
func Encode(v Value) string {
	var b strings.Builder
	for _, s := range v {
		if !s.IsSpan() {
			b.WriteString(s.Text)
			continue
		}
		writeOpenTag(&b, s.Tag, s.Attrs)
		b.WriteString(s.Text)
		b.WriteString("</")
		b.WriteString(s.Tag)
		b.WriteString(">")
	}
	return b.String()
}

func writeOpenTag(b *strings.Builder, tag string, attrs []Attr) {
	b.WriteString("<")
	b.WriteString(tag)
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(a.Value))
		b.WriteString(`"`)
	}
	b.WriteString(">")
}

// ---------------------------------------------------------------------------
// Decoding
// ---------------------------------------------------------------------------

// Decode parses cell text back into a value. It never fails.
func Decode(s string) Value {
	var v Value
	for {
		i := strings.IndexByte(s, '<')
		if i < 0 {
			return v.AppendText(s)
		}
		v = v.AppendText(s[:i])
		seg, n, ok := scanSpan(s[i:])
		if !ok {
			v = v.AppendText("<")
			s = s[i+1:]
			continue
		}
		v = append(v, seg)
		s = s[i+n:]
	}
}

// scanSpan tries to read one recognized span at the start of s.
// It returns the span and the number of bytes consumed.
func scanSpan(s string) (Segment, int, bool) {
	tag, attrs, n, ok := scanOpenTag(s)
	if !ok || !Recognized(tag) {
		return Segment{}, 0, false
	}
	closing := "</" + tag + ">"
	end := strings.Index(s[n:], closing)
	if end < 0 {
		return Segment{}, 0, false
	}
	seg := Segment{Tag: tag, Attrs: attrs, Text: s[n : n+end]}
	return seg, n + end + len(closing), true
}

// scanOpenTag reads <name attr="value" ...> at the start of s.
func scanOpenTag(s string) (tag string, attrs []Attr, n int, ok bool) {
	i := 1
	start := i
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	if i == start {
		return "", nil, 0, false
	}
	tag = s[start:i]
	for {
		j := skipSpace(s, i)
		if j >= len(s) {
			return "", nil, 0, false
		}
		if s[j] == '>' {
			return tag, attrs, j + 1, true
		}
		if j == i {
			// attributes must be separated from the name by whitespace
			return "", nil, 0, false
		}
		nameStart := j
		for j < len(s) && isNameByte(s[j]) {
			j++
		}
		if j == nameStart || j+1 >= len(s) || s[j] != '=' || s[j+1] != '"' {
			return "", nil, 0, false
		}
		name := s[nameStart:j]
		j += 2
		end := strings.IndexByte(s[j:], '"')
		if end < 0 {
			return "", nil, 0, false
		}
		attrs = append(attrs, Attr{Name: name, Value: attrUnescaper.Replace(s[j : j+end])})
		i = j + end + 1
	}
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == ':' || c == '-' || c == '_' || c == '.'
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}
