// Package android implements reading and writing of Android strings.xml files.
//
// Supported resource types:
//   - <string>: simple key/value string
//   - <string-array>: ordered list of strings
//   - <plurals>: quantity-keyed plural forms (zero/one/two/few/many/other)
//
// Leaf values keep inline formatting (<b>, <i>, <xliff:g>, ...) as
// markup spans. Android escapes (\' and \") are removed on read and
// restored on write, so the in-memory text is what a translator sees.
// Comments and other resource types (<dimen>, <color>, ...) are skipped.
package android

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/minios-linux/stringsheet/markup"
	"github.com/minios-linux/stringsheet/resource"
)

// FileName is the conventional name of a string resource file.
const FileName = "strings.xml"

// xliffNS is the namespace bound to the xliff: prefix in Android resources.
const xliffNS = "urn:oasis:names:tc:xliff:document:1.2"

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses an Android strings.xml file.
func ParseFile(path string) (*resource.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// Parse parses Android strings.xml data. Structural problems are reported
// as *resource.MalformedResourceError.
func Parse(data []byte) (*resource.Set, error) {
	s := resource.NewSet()
	dec := xml.NewDecoder(strings.NewReader(string(data)))

	sawRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed(0, "", "invalid XML", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if sawRoot || start.Name.Local != "resources" {
			return nil, malformed(0, "", fmt.Sprintf("unexpected root element <%s>, want <resources>", start.Name.Local), nil)
		}
		sawRoot = true
		if err := parseResources(dec, s); err != nil {
			return nil, err
		}
	}

	if !sawRoot {
		return nil, malformed(0, "", "no <resources> element", nil)
	}
	return s, nil
}

// parseResources reads the children of an already opened <resources>.
func parseResources(dec *xml.Decoder, s *resource.Set) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return malformed(0, "", "invalid XML", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			kind, known := resource.KindOf(t.Name.Local)
			if !known {
				// Other resource types are not translatable text.
				if err := dec.Skip(); err != nil {
					return malformed(0, "", "invalid XML", err)
				}
				continue
			}

			e, err := parseEntry(dec, t, kind)
			if err != nil {
				return err
			}
			if err := s.Add(e); err != nil {
				return err
			}

		case xml.EndElement:
			return nil
		}
	}
}

func parseEntry(dec *xml.Decoder, elem xml.StartElement, kind resource.Kind) (*resource.Entry, error) {
	name, translatable := parseAttrs(elem)
	if name == "" {
		return nil, malformed(kind, "", fmt.Sprintf("<%s> without a name attribute", kind.Tag()), nil)
	}
	e := &resource.Entry{Kind: kind, Name: name, Translatable: translatable}

	var err error
	switch kind {
	case resource.KindString:
		e.Value, err = readValue(dec, kind, name)
	case resource.KindStringArray:
		err = parseStringArray(dec, e)
	case resource.KindPlurals:
		err = parsePlurals(dec, e)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// parseAttrs extracts name and translatable from a start element.
func parseAttrs(elem xml.StartElement) (name string, translatable bool) {
	translatable = true // default
	for _, attr := range elem.Attr {
		switch attr.Name.Local {
		case "name":
			name = attr.Value
		case "translatable":
			if strings.EqualFold(attr.Value, "false") {
				translatable = false
			}
		}
	}
	return
}

// parseStringArray reads the <item> children of an opened <string-array>.
func parseStringArray(dec *xml.Decoder, e *resource.Entry) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return malformed(e.Kind, e.Name, "invalid XML", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "item" {
				return malformed(e.Kind, e.Name, fmt.Sprintf("unexpected <%s>, want <item>", t.Name.Local), nil)
			}
			v, err := readValue(dec, e.Kind, e.Name)
			if err != nil {
				return err
			}
			e.Items = append(e.Items, v)
		case xml.EndElement:
			return nil
		}
	}
}

// parsePlurals reads the <item quantity="..."> children of an opened <plurals>.
func parsePlurals(dec *xml.Decoder, e *resource.Entry) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return malformed(e.Kind, e.Name, "invalid XML", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "item" {
				return malformed(e.Kind, e.Name, fmt.Sprintf("unexpected <%s>, want <item>", t.Name.Local), nil)
			}
			var quantity string
			for _, attr := range t.Attr {
				if attr.Name.Local == "quantity" {
					quantity = attr.Value
					break
				}
			}
			if !resource.IsQuantity(quantity) {
				return malformed(e.Kind, e.Name, fmt.Sprintf("unrecognized quantity %q", quantity), nil)
			}
			v, err := readValue(dec, e.Kind, e.Name)
			if err != nil {
				return err
			}
			if !e.SetQuantity(quantity, v) {
				return malformed(e.Kind, e.Name, fmt.Sprintf("duplicate quantity %q", quantity), nil)
			}
		case xml.EndElement:
			return nil
		}
	}
}

// readValue reads the content of a leaf element (<string> or <item>) up to
// its close tag. Inline elements become markup spans.
func readValue(dec *xml.Decoder, kind resource.Kind, name string) (markup.Value, error) {
	var v markup.Value
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(kind, name, "invalid XML", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			v = v.AppendText(unescapeAndroid(string(t)))
		case xml.StartElement:
			tag := inlineTag(t.Name)
			if !markup.Recognized(tag) {
				return nil, malformed(kind, name, fmt.Sprintf("unsupported inline tag <%s>", tag), nil)
			}
			text, err := readSpanText(dec, kind, name, tag)
			if err != nil {
				return nil, err
			}
			v = v.AppendSpan(tag, text, inlineAttrs(t)...)
		case xml.EndElement:
			return v, nil
		}
	}
}

// readSpanText reads the text of an opened inline element. Inline markup
// does not nest.
func readSpanText(dec *xml.Decoder, kind resource.Kind, name, tag string) (string, error) {
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", malformed(kind, name, "invalid XML", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.WriteString(unescapeAndroid(string(t)))
		case xml.StartElement:
			return "", malformed(kind, name, fmt.Sprintf("nested inline markup <%s> inside <%s>", inlineTag(t.Name), tag), nil)
		case xml.EndElement:
			return b.String(), nil
		}
	}
}

// inlineTag returns the prefixed tag name of an inline element. The
// decoder resolves declared prefixes to namespace URLs; xliff is mapped
// back to its conventional prefix.
func inlineTag(n xml.Name) string {
	switch n.Space {
	case "":
		return n.Local
	case xliffNS, "xliff":
		return "xliff:" + n.Local
	}
	return n.Space + ":" + n.Local
}

func inlineAttrs(elem xml.StartElement) []markup.Attr {
	var attrs []markup.Attr
	for _, a := range elem.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		attrs = append(attrs, markup.Attr{Name: a.Name.Local, Value: a.Value})
	}
	return attrs
}

func malformed(kind resource.Kind, name, reason string, err error) error {
	return &resource.MalformedResourceError{Kind: kind, Name: name, Reason: reason, Err: err}
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// WriteFile writes the set as a strings.xml file, creating parent
// directories and replacing any existing file.
func WriteFile(path string, s *resource.Set) error {
	data := Marshal(s)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal produces the XML output in Android strings.xml format.
func Marshal(s *resource.Set) []byte {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	if s.Uses("xliff:g") {
		b.WriteString(fmt.Sprintf("<resources xmlns:xliff=\"%s\">\n", xliffNS))
	} else {
		b.WriteString("<resources>\n")
	}

	for _, e := range s.Entries {
		attrs := fmt.Sprintf(`name="%s"`, escapeAttr(e.Name))
		if !e.Translatable {
			attrs += ` translatable="false"`
		}

		switch e.Kind {
		case resource.KindString:
			b.WriteString(fmt.Sprintf("    <string %s>%s</string>\n", attrs, marshalValue(e.Value)))

		case resource.KindStringArray:
			b.WriteString(fmt.Sprintf("    <string-array %s>\n", attrs))
			for _, item := range e.Items {
				b.WriteString(fmt.Sprintf("        <item>%s</item>\n", marshalValue(item)))
			}
			b.WriteString("    </string-array>\n")

		case resource.KindPlurals:
			b.WriteString(fmt.Sprintf("    <plurals %s>\n", attrs))
			for _, qv := range e.Quantities {
				b.WriteString(fmt.Sprintf("        <item quantity=\"%s\">%s</item>\n", qv.Quantity, marshalValue(qv.Value)))
			}
			b.WriteString("    </plurals>\n")
		}
	}

	b.WriteString("</resources>\n")
	return []byte(b.String())
}

// marshalValue encodes a leaf value as element content.
func marshalValue(v markup.Value) string {
	var b strings.Builder
	for _, seg := range v {
		if !seg.IsSpan() {
			b.WriteString(escapeText(seg.Text))
			continue
		}
		b.WriteString("<" + seg.Tag)
		for _, a := range seg.Attrs {
			b.WriteString(fmt.Sprintf(` %s="%s"`, a.Name, escapeAttr(a.Value)))
		}
		b.WriteString(">")
		b.WriteString(escapeText(seg.Text))
		b.WriteString("</" + seg.Tag + ">")
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Locale directories
// ---------------------------------------------------------------------------

// SourceDirName is the resource directory of the default language.
const SourceDirName = "values"

// LocaleDirName converts a standard language code to an Android values
// directory name (e.g., "pt-BR" -> "values-pt-rBR", "ru" -> "values-ru").
// Codes with a script or numeric region use the BCP-47 form ("values-b+sr+Latn").
func LocaleDirName(lang string) string {
	parts := strings.Split(lang, "-")
	switch {
	case len(parts) == 1:
		return "values-" + lang
	case len(parts) == 2 && len(parts[1]) == 2:
		return "values-" + parts[0] + "-r" + parts[1]
	}
	return "values-b+" + strings.Join(parts, "+")
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"'", `\'`,
		`"`, `\"`,
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		`"`, "&quot;",
	)
	androidUnescaper = strings.NewReplacer(`\'`, `'`, `\"`, `"`)
)

// escapeText escapes XML special characters and Android AAPT quotes.
func escapeText(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }

// unescapeAndroid converts Android-escaped quotes (\' and \") to plain
// quotes so that translators see natural text.
func unescapeAndroid(s string) string { return androidUnescaper.Replace(s) }
