package walk

import (
	"fmt"

	"schema-bridge/internal/xsd"
)

var anySimpleTypeName = xsd.QName{Space: xsd.Namespace, Local: "anySimpleType"}

// typeData describes the type of an element declaration.
func (w *Walker[S, R]) typeData(decl *xsd.Element) (TypeData, error) {
	switch {
	case decl.Complex != nil:
		return w.complexData(decl.Complex, decl.Complex, decl.Name)
	case decl.Simple != nil:
		return TypeData{
			Key:   decl.Simple,
			Owner: decl.Name,
			Doc:   decl.Simple.Doc,
			Value: &SimpleRef{Inline: decl.Simple, Owner: decl.Name},
		}, nil
	case decl.TypeName.IsZero(), decl.TypeName == anyTypeName:
		return TypeData{Key: anyTypeName, Name: anyTypeName, Owner: decl.Name, AnyType: true}, nil
	case decl.TypeName.IsBuiltin():
		return TypeData{
			Key:   decl.TypeName,
			Name:  decl.TypeName,
			Owner: decl.Name,
			Value: &SimpleRef{TypeName: decl.TypeName, Owner: decl.Name},
		}, nil
	}

	if ct, ok := w.schema.ComplexTypes[decl.TypeName]; ok {
		return w.complexData(decl.TypeName, ct, decl.Name)
	}

	st, err := w.schema.SimpleType(decl.TypeName)
	if err != nil {
		return TypeData{}, w.fail("element "+decl.Name.Local, err)
	}

	return TypeData{
		Key:   decl.TypeName,
		Name:  decl.TypeName,
		Owner: decl.Name,
		Doc:   st.Doc,
		Value: &SimpleRef{TypeName: decl.TypeName, Owner: decl.Name},
	}, nil
}

func (w *Walker[S, R]) complexData(key any, ct *xsd.ComplexType, owner xsd.QName) (TypeData, error) {
	td := TypeData{
		Key:     key,
		Name:    ct.Name,
		Owner:   owner,
		Doc:     ct.Doc,
		Complex: ct,
		Mixed:   ct.Mixed,
	}

	if ct.SimpleContent {
		value, err := w.simpleContent(ct, owner, 0)
		if err != nil {
			return TypeData{}, err
		}

		td.Value = value

		return td, nil
	}

	wildcard, err := w.hasWildcard(ct, make(map[*xsd.ComplexType]struct{}))
	if err != nil {
		return TypeData{}, err
	}

	td.Wildcard = wildcard

	return td, nil
}

const maxDerivationDepth = 64

// simpleContent follows the base chain of a simple-content type down to its
// simple value type, merging restriction facets on the way.
func (w *Walker[S, R]) simpleContent(ct *xsd.ComplexType, owner xsd.QName, depth int) (*SimpleRef, error) {
	if depth > maxDerivationDepth {
		return nil, w.fail("complex type "+ct.Name.Local, fmt.Errorf("%w: circular derivation", ErrUnsupported))
	}

	var facets *xsd.Facets
	if ct.Derivation == xsd.DerivationRestriction {
		f := ct.Facets
		facets = &f
	}

	if base, ok := w.schema.ComplexTypes[ct.Base]; ok {
		if !base.SimpleContent {
			return nil, w.fail("complex type "+ct.Name.Local,
				fmt.Errorf("%w: simple content derived from complex content %s", ErrUnsupported, ct.Base))
		}

		parent, err := w.simpleContent(base, owner, depth+1)
		if err != nil {
			return nil, err
		}

		if facets != nil {
			inherited := xsd.Facets{}
			if parent.Facets != nil {
				inherited = *parent.Facets
			}

			merged := facets.Inherit(inherited)
			parent = &SimpleRef{TypeName: parent.TypeName, Inline: parent.Inline, Facets: &merged, Owner: parent.Owner}
		}

		return parent, nil
	}

	if ct.Base == anyTypeName || ct.Base.IsZero() {
		return &SimpleRef{TypeName: anySimpleTypeName, Facets: facets, Owner: owner}, nil
	}

	return &SimpleRef{TypeName: ct.Base, Facets: facets, Owner: owner}, nil
}

// hasWildcard reports whether the content model of ct contains xs:any,
// looking through groups and extension bases but not into child elements.
func (w *Walker[S, R]) hasWildcard(ct *xsd.ComplexType, seen map[*xsd.ComplexType]struct{}) (bool, error) {
	if _, ok := seen[ct]; ok {
		return false, nil
	}

	seen[ct] = struct{}{}

	if ct.Derivation == xsd.DerivationExtension && ct.Base != anyTypeName {
		if base, ok := w.schema.ComplexTypes[ct.Base]; ok {
			found, err := w.hasWildcard(base, seen)
			if err != nil || found {
				return found, err
			}
		}
	}

	if ct.Content == nil {
		return false, nil
	}

	return w.groupHasWildcard(ct.Content, make(map[*xsd.ModelGroup]struct{}))
}

func (w *Walker[S, R]) groupHasWildcard(g *xsd.ModelGroup, seen map[*xsd.ModelGroup]struct{}) (bool, error) {
	if _, ok := seen[g]; ok {
		return false, nil
	}

	seen[g] = struct{}{}

	for _, p := range g.Particles {
		var (
			found bool
			err   error
		)

		switch t := p.(type) {
		case *xsd.Any:
			found = t.MaxOccurs != 0
		case *xsd.ModelGroup:
			found, err = w.groupHasWildcard(t, seen)
		case *xsd.GroupRef:
			ref, lookupErr := w.schema.Group(t.Ref)
			if lookupErr != nil {
				return false, w.fail("group "+t.Ref.String(), lookupErr)
			}

			found, err = w.groupHasWildcard(ref, seen)
		}

		if err != nil || found {
			return found, err
		}
	}

	return false, nil
}

// attributes collects the attributes of ct, base types first. Later
// declarations of the same name replace earlier ones.
func (w *Walker[S, R]) attributes(ct *xsd.ComplexType, owner xsd.QName) ([]AttributeData, error) {
	if ct == nil {
		return nil, nil
	}

	var out []AttributeData

	index := make(map[xsd.QName]int)
	add := func(a AttributeData) {
		if i, ok := index[a.Name]; ok {
			out[i] = a
			return
		}

		index[a.Name] = len(out)
		out = append(out, a)
	}

	if err := w.collectAttributes(ct, owner, add, make(map[*xsd.ComplexType]struct{})); err != nil {
		return nil, err
	}

	return out, nil
}

func (w *Walker[S, R]) collectAttributes(
	ct *xsd.ComplexType,
	owner xsd.QName,
	add func(AttributeData),
	seen map[*xsd.ComplexType]struct{},
) error {
	if _, ok := seen[ct]; ok {
		return nil
	}

	seen[ct] = struct{}{}

	if ct.Derivation == xsd.DerivationExtension {
		if base, ok := w.schema.ComplexTypes[ct.Base]; ok {
			if err := w.collectAttributes(base, owner, add, seen); err != nil {
				return err
			}
		}
	}

	if ct.AnyAttribute {
		return w.fail("element "+owner.Local, fmt.Errorf("%w: wildcard attribute", ErrUnsupported))
	}

	if err := w.declaredAttributes(ct.Attributes, add); err != nil {
		return err
	}

	return w.attributeGroups(ct.AttributeGroups, owner, add, make(map[xsd.QName]struct{}))
}

func (w *Walker[S, R]) attributeGroups(
	refs []xsd.QName,
	owner xsd.QName,
	add func(AttributeData),
	seen map[xsd.QName]struct{},
) error {
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}

		seen[ref] = struct{}{}

		ag, err := w.schema.AttributeGroup(ref)
		if err != nil {
			return w.fail("attribute group "+ref.String(), err)
		}

		if ag.AnyAttribute {
			return w.fail("element "+owner.Local, fmt.Errorf("%w: wildcard attribute in group %s", ErrUnsupported, ref))
		}

		if err := w.declaredAttributes(ag.Attributes, add); err != nil {
			return err
		}

		if err := w.attributeGroups(ag.AttributeGroups, owner, add, seen); err != nil {
			return err
		}
	}

	return nil
}

func (w *Walker[S, R]) declaredAttributes(attrs []*xsd.Attribute, add func(AttributeData)) error {
	for _, use := range attrs {
		if use.Use == xsd.UseProhibited {
			continue
		}

		decl := use
		if !use.Ref.IsZero() {
			ref, err := w.schema.Attribute(use.Ref)
			if err != nil {
				return w.fail("attribute "+use.Ref.String(), err)
			}

			decl = ref
		}

		typeName := decl.TypeName
		if typeName.IsZero() && decl.Simple == nil {
			typeName = anySimpleTypeName
		}

		data := AttributeData{
			Name:     decl.Name,
			Type:     SimpleRef{TypeName: typeName, Inline: decl.Simple, Owner: decl.Name},
			Required: use.Use == xsd.UseRequired,
			Default:  firstString(use.Fixed, use.Default, decl.Fixed, decl.Default),
			Doc:      firstNonEmpty(use.Doc, decl.Doc),
		}

		add(data)
	}

	return nil
}

func firstString(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
