package assemble

import (
	"encoding/xml"
	"fmt"

	"schema-bridge/internal/cardinality"
	"schema-bridge/internal/model"
)

// xsiNamespace holds attributes such as xsi:type that every element may carry.
const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

type vframe struct {
	name string
	// typ is nil for scalar content.
	typ *model.StructType
	// skip marks content that is not checked.
	skip bool
	seen map[*model.Field]int
}

// Validator rejects documents that do not follow a write type: unknown
// elements or attributes, repeated singular fields, missing required
// children or attributes and elements nested in scalar content. Unparsed
// content is not checked.
type Validator struct {
	root  string
	write model.Type
	stack []*vframe
}

// NewValidator creates a validator for documents whose root element is named
// root and has the type write. An empty root accepts any root name.
func NewValidator(root string, write model.Type) *Validator {
	return &Validator{root: root, write: write}
}

func (v *Validator) StartDocument() error {
	v.stack = v.stack[:0]
	return nil
}

func (v *Validator) EndDocument() error { return nil }

func (v *Validator) StartElement(name xml.Name, attrs []xml.Attr) (bool, error) {
	var typ model.Type

	if len(v.stack) == 0 {
		if v.root != "" && name.Local != v.root {
			return false, fmt.Errorf("%w: root element %s, want %s", ErrInvalidDocument, name.Local, v.root)
		}

		typ = v.write
	} else {
		parent := v.stack[len(v.stack)-1]

		switch {
		case parent.skip:
			v.stack = append(v.stack, &vframe{name: name.Local, skip: true})
			return true, nil
		case parent.typ == nil:
			return false, fmt.Errorf("%w: element %s inside scalar %s", ErrInvalidDocument, name.Local, parent.name)
		}

		f := fieldBySource(parent.typ, name.Local, model.RoleElement)
		if f == nil {
			return false, fmt.Errorf("%w: unknown element %s in %s", ErrInvalidDocument, name.Local, parent.typ.Name)
		}

		parent.seen[f]++
		if parent.seen[f] > 1 && f.Cardinality != cardinality.Multiple {
			return false, fmt.Errorf("%w: repeated element %s in %s", ErrInvalidDocument, name.Local, parent.typ.Name)
		}

		typ = f.Type
	}

	fr := &vframe{name: name.Local}

	switch t := typ.(type) {
	case model.Unparsed:
		fr.skip = true
	case *model.StructType:
		fr.typ = t
		fr.seen = make(map[*model.Field]int)

		for _, f := range t.Fields() {
			if f.Role == model.RoleUnparsed {
				fr.skip = true
			}
		}

		if err := v.checkAttributes(t, attrs); err != nil {
			return false, err
		}
	}

	v.stack = append(v.stack, fr)

	return true, nil
}

func (v *Validator) checkAttributes(t *model.StructType, attrs []xml.Attr) error {
	present := make(map[*model.Field]bool, len(attrs))

	for _, a := range attrs {
		if isNamespaceDecl(a) || a.Name.Space == xsiNamespace {
			continue
		}

		f := fieldBySource(t, a.Name.Local, model.RoleAttribute)
		if f == nil {
			return fmt.Errorf("%w: unknown attribute %s in %s", ErrInvalidDocument, a.Name.Local, t.Name)
		}

		present[f] = true
	}

	for _, f := range t.Fields() {
		if f.Role == model.RoleAttribute && f.Cardinality == cardinality.Required && !present[f] {
			return fmt.Errorf("%w: missing attribute %s in %s", ErrInvalidDocument, f.Source, t.Name)
		}
	}

	return nil
}

func (v *Validator) Characters(string) error { return nil }

func (v *Validator) EndElement(xml.Name) error {
	fr := v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]

	if fr.typ == nil || fr.skip {
		return nil
	}

	for _, f := range fr.typ.Fields() {
		if f.Role == model.RoleElement && f.Cardinality == cardinality.Required && fr.seen[f] == 0 {
			return fmt.Errorf("%w: missing element %s in %s", ErrInvalidDocument, f.Source, fr.typ.Name)
		}
	}

	return nil
}

func fieldBySource(t *model.StructType, source string, role model.FieldRole) *model.Field {
	for _, f := range t.Fields() {
		if f.Role == role && f.Source == source {
			return f
		}
	}

	return nil
}
