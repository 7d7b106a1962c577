package table

import "strings"

// Identifier is a dotted table name such as catalog.schema.table. The
// structure is not validated; every part is quoted when rendered.
type Identifier struct {
	Raw   string
	Parts []string
}

// ParseIdentifier trims the input and splits it on dots. A blank input
// yields a zero Identifier.
func ParseIdentifier(s string) Identifier {
	s = strings.TrimSpace(s)
	if s == "" {
		return Identifier{}
	}
	parts := strings.Split(s, ".")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return Identifier{Raw: s, Parts: parts}
}

// IsZero reports whether no table name was supplied.
func (id Identifier) IsZero() bool {
	return len(id.Parts) == 0
}

func (id Identifier) String() string {
	return id.Raw
}

// Quote renders the identifier with each part quoted by quote.
func (id Identifier) Quote(quote func(string) string) string {
	quoted := make([]string, len(id.Parts))
	for i, p := range id.Parts {
		quoted[i] = quote(p)
	}
	return strings.Join(quoted, ".")
}

// Name returns the last part, the table name proper.
func (id Identifier) Name() string {
	if len(id.Parts) == 0 {
		return ""
	}
	return id.Parts[len(id.Parts)-1]
}
