package assemble

import (
	"encoding/xml"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// xmlNamespace is bound to the xml prefix without a declaration.
const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// binding maps a prefix to a namespace URI; the empty prefix is the default
// namespace.
type binding struct {
	prefix string
	uri    string
}

// unparsed reconstructs the content of elements whose handler does not parse
// it. Nested markup keeps its prefixes but loses namespace declarations.
type unparsed struct {
	next Handler
	// depth counts open elements inside the unparsed element, itself
	// included; zero outside unparsed content.
	depth int
	buf   strings.Builder
	// scopes holds the namespace declarations of every open element.
	scopes [][]binding
}

// Unparsed returns a handler that forwards events to next and delivers the
// content of every element for which next reports parse=false as a single
// Characters call made just before its EndElement.
func Unparsed(next Handler) Handler {
	return &unparsed{next: next}
}

func (u *unparsed) StartDocument() error {
	u.depth = 0
	u.buf.Reset()
	u.scopes = u.scopes[:0]

	return u.next.StartDocument()
}

func (u *unparsed) EndDocument() error { return u.next.EndDocument() }

func (u *unparsed) StartElement(name xml.Name, attrs []xml.Attr) (bool, error) {
	u.declare(attrs)

	if u.depth > 0 {
		u.depth++

		u.buf.WriteByte('<')
		u.buf.WriteString(u.qualified(name, true))

		for _, a := range attrs {
			if isNamespaceDecl(a) {
				continue
			}

			u.buf.WriteByte(' ')
			u.buf.WriteString(u.qualified(a.Name, false))
			u.buf.WriteString(`="`)
			u.buf.WriteString(attrEscaper.Replace(a.Value))
			u.buf.WriteByte('"')
		}

		u.buf.WriteByte('>')

		return true, nil
	}

	parse, err := u.next.StartElement(name, attrs)
	if err != nil {
		return false, err
	}

	if !parse {
		u.depth = 1
		u.buf.Reset()
	}

	return true, nil
}

func (u *unparsed) Characters(text string) error {
	if u.depth > 0 {
		u.buf.WriteString(textEscaper.Replace(text))
		return nil
	}

	return u.next.Characters(text)
}

func (u *unparsed) EndElement(name xml.Name) error {
	defer u.release()

	switch {
	case u.depth > 1:
		u.depth--

		u.buf.WriteString("</")
		u.buf.WriteString(u.qualified(name, true))
		u.buf.WriteByte('>')

		return nil
	case u.depth == 1:
		u.depth = 0

		if u.buf.Len() > 0 {
			if err := u.next.Characters(u.buf.String()); err != nil {
				return err
			}
		}

		u.buf.Reset()
	}

	return u.next.EndElement(name)
}

// declare opens the namespace scope of an element.
func (u *unparsed) declare(attrs []xml.Attr) {
	var scope []binding

	for _, a := range attrs {
		switch {
		case a.Name.Space == "xmlns":
			scope = append(scope, binding{prefix: a.Name.Local, uri: a.Value})
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			scope = append(scope, binding{uri: a.Value})
		}
	}

	u.scopes = append(u.scopes, scope)
}

func (u *unparsed) release() {
	if len(u.scopes) > 0 {
		u.scopes = u.scopes[:len(u.scopes)-1]
	}
}

// resolve returns the URI bound to prefix in the innermost scope.
func (u *unparsed) resolve(prefix string) string {
	for i := len(u.scopes) - 1; i >= 0; i-- {
		for _, b := range u.scopes[i] {
			if b.prefix == prefix {
				return b.uri
			}
		}
	}

	return ""
}

// qualified maps a resolved name back to prefix:local. Unprefixed attributes
// never take the default namespace.
func (u *unparsed) qualified(n xml.Name, element bool) string {
	switch n.Space {
	case "":
		return n.Local
	case xmlNamespace:
		return "xml:" + n.Local
	}

	for i := len(u.scopes) - 1; i >= 0; i-- {
		for _, b := range u.scopes[i] {
			if b.uri != n.Space || (b.prefix == "" && !element) || u.resolve(b.prefix) != n.Space {
				continue
			}

			if b.prefix == "" {
				return n.Local
			}

			return b.prefix + ":" + n.Local
		}
	}

	// encoding/xml leaves undeclared prefixes in place of the URI.
	if !strings.ContainsAny(n.Space, ":/") {
		return n.Space + ":" + n.Local
	}

	return n.Local
}

func isNamespaceDecl(a xml.Attr) bool {
	return a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns")
}
