package resource

import "fmt"

// MalformedResourceError reports a strings.xml document that breaks the
// structural rules of the model: invalid XML, duplicate names, unknown
// plural categories or unsupported inline markup.
type MalformedResourceError struct {
	Kind   Kind
	Name   string
	Reason string
	// Err is the underlying cause, if any (e.g. an *xml.SyntaxError).
	Err error
}

func (e *MalformedResourceError) Error() string {
	msg := "malformed resource"
	if e.Name != "" {
		msg += fmt.Sprintf(" <%s name=%q>", e.Kind.Tag(), e.Name)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedResourceError) Unwrap() error { return e.Err }

// AmbiguousGroupError reports spreadsheet rows for one key whose sub
// indices cannot describe a single resource.
type AmbiguousGroupError struct {
	Kind   Kind
	Key    string
	Reason string
}

func (e *AmbiguousGroupError) Error() string {
	return fmt.Sprintf("ambiguous rows for <%s name=%q>: %s", e.Kind.Tag(), e.Key, e.Reason)
}

// MissingLanguageDataError reports an empty cell in a language column when
// empty cells are not allowed.
type MissingLanguageDataError struct {
	Language string
	Key      string
	// Sub is the array index or plural category, empty for plain strings.
	Sub string
}

func (e *MissingLanguageDataError) Error() string {
	if e.Sub != "" {
		return fmt.Sprintf("language %q has no value for %s[%s]", e.Language, e.Key, e.Sub)
	}
	return fmt.Sprintf("language %q has no value for %s", e.Language, e.Key)
}
