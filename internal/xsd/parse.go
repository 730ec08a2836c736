package xsd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNotSchema is returned when the document root is not xs:schema.
var ErrNotSchema = errors.New("document is not an XML schema")

// Parse reads one schema document. Imported and included documents are not
// followed; load them separately and Merge the results.
func Parse(r io.Reader) (*Schema, error) {
	root, err := readTree(r)
	if err != nil {
		return nil, err
	}

	if !root.is("schema") {
		return nil, fmt.Errorf("%w: root element is %s", ErrNotSchema, root.name.Local)
	}

	tns, _ := root.attr("targetNamespace")
	efd, _ := root.attr("elementFormDefault")
	afd, _ := root.attr("attributeFormDefault")

	p := &parser{
		schema:             NewSchema(tns),
		elementQualified:   efd == "qualified",
		attributeQualified: afd == "qualified",
	}

	for _, child := range root.children {
		if err := p.parseTopLevel(child); err != nil {
			return nil, err
		}
	}

	return p.schema, nil
}

type parser struct {
	schema             *Schema
	elementQualified   bool
	attributeQualified bool
}

func (p *parser) parseTopLevel(n *node) error {
	switch {
	case n.is("element"):
		el, err := p.parseElement(n, true)
		if err != nil {
			return err
		}

		p.schema.Elements[el.Name] = el
		p.schema.ElementOrder = append(p.schema.ElementOrder, el.Name)
	case n.is("complexType"):
		ct, err := p.parseComplexType(n, p.globalName(n))
		if err != nil {
			return err
		}

		p.schema.ComplexTypes[ct.Name] = ct
	case n.is("simpleType"):
		st, err := p.parseSimpleType(n, p.globalName(n))
		if err != nil {
			return err
		}

		p.schema.SimpleTypes[st.Name] = st
	case n.is("group"):
		g, err := p.parseNamedGroup(n)
		if err != nil {
			return err
		}

		p.schema.Groups[g.Name] = g
	case n.is("attributeGroup"):
		ag, err := p.parseAttributeGroup(n)
		if err != nil {
			return err
		}

		p.schema.AttributeGroups[ag.Name] = ag
	case n.is("attribute"):
		a, err := p.parseAttribute(n, true)
		if err != nil {
			return err
		}

		p.schema.Attributes[a.Name] = a
	}

	return nil
}

func (p *parser) globalName(n *node) QName {
	name, _ := n.attr("name")
	return QName{Space: p.schema.TargetNamespace, Local: name}
}

// qname resolves a prefixed name against the namespaces in scope at n.
func (p *parser) qname(n *node, value string) (QName, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return QName{}, nil
	}

	prefix, local, found := strings.Cut(value, ":")
	if !found {
		return QName{Space: n.ns[""], Local: value}, nil
	}

	space, ok := n.ns[prefix]
	if !ok {
		return QName{}, fmt.Errorf("undeclared namespace prefix %q in %q", prefix, value)
	}

	return QName{Space: space, Local: local}, nil
}

func (p *parser) qnameAttr(n *node, attr string) (QName, error) {
	v, ok := n.attr(attr)
	if !ok {
		return QName{}, nil
	}

	return p.qname(n, v)
}

func parseOccurs(n *node, attr string) (int, error) {
	v, ok := n.attr(attr)
	if !ok {
		return 1, nil
	}

	v = strings.TrimSpace(v)
	if v == "unbounded" {
		return Unbounded, nil
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", attr, v, err)
	}

	return i, nil
}

func parseOccursPair(n *node) (int, int, error) {
	minOccurs, err := parseOccurs(n, "minOccurs")
	if err != nil {
		return 0, 0, err
	}

	maxOccurs, err := parseOccurs(n, "maxOccurs")
	if err != nil {
		return 0, 0, err
	}

	return minOccurs, maxOccurs, nil
}

func optionalAttr(n *node, name string) *string {
	v, ok := n.attr(name)
	if !ok {
		return nil
	}

	return &v
}

// parseDoc collects the text of annotation/documentation children.
func parseDoc(n *node) string {
	var parts []string

	for _, c := range n.children {
		if !c.is("annotation") {
			continue
		}

		for _, d := range c.children {
			if d.is("documentation") {
				if s := strings.TrimSpace(d.text.String()); s != "" {
					parts = append(parts, s)
				}
			}
		}
	}

	return strings.Join(parts, "\n")
}

func (p *parser) parseElement(n *node, global bool) (*Element, error) {
	el := &Element{Doc: parseDoc(n)}

	var err error

	if el.Ref, err = p.qnameAttr(n, "ref"); err != nil {
		return nil, err
	}

	if name, ok := n.attr("name"); ok {
		el.Name = QName{Local: name}

		form, _ := n.attr("form")
		if global || form == "qualified" || (form == "" && p.elementQualified) {
			el.Name.Space = p.schema.TargetNamespace
		}
	}

	if el.TypeName, err = p.qnameAttr(n, "type"); err != nil {
		return nil, err
	}

	if el.SubstitutionGroup, err = p.qnameAttr(n, "substitutionGroup"); err != nil {
		return nil, err
	}

	el.Abstract = n.attrs["abstract"] == "true"
	el.Default = optionalAttr(n, "default")
	el.Fixed = optionalAttr(n, "fixed")

	if el.MinOccurs, el.MaxOccurs, err = parseOccursPair(n); err != nil {
		return nil, err
	}

	for _, c := range n.children {
		switch {
		case c.is("complexType"):
			if el.Complex, err = p.parseComplexType(c, QName{}); err != nil {
				return nil, err
			}
		case c.is("simpleType"):
			if el.Simple, err = p.parseSimpleType(c, QName{}); err != nil {
				return nil, err
			}
		}
	}

	return el, nil
}

func (p *parser) parseComplexType(n *node, name QName) (*ComplexType, error) {
	ct := &ComplexType{
		Name:     name,
		Mixed:    n.attrs["mixed"] == "true",
		Abstract: n.attrs["abstract"] == "true",
		Doc:      parseDoc(n),
	}

	if err := p.parseComplexBody(n, ct); err != nil {
		return nil, fmt.Errorf("complex type %s: %w", name, err)
	}

	return ct, nil
}

// parseComplexBody reads content model and attribute children of n into ct.
// It is shared by complexType, extension and restriction elements.
func (p *parser) parseComplexBody(n *node, ct *ComplexType) error {
	for _, c := range n.children {
		switch {
		case c.is("sequence"), c.is("choice"), c.is("all"):
			g, err := p.parseModelGroup(c)
			if err != nil {
				return err
			}

			ct.Content = g
		case c.is("group"):
			ref, err := p.parseGroupRef(c)
			if err != nil {
				return err
			}

			ct.Content = &ModelGroup{Kind: Sequence, Particles: []Particle{ref}, MinOccurs: 1, MaxOccurs: 1}
		case c.is("attribute"):
			a, err := p.parseAttribute(c, false)
			if err != nil {
				return err
			}

			ct.Attributes = append(ct.Attributes, a)
		case c.is("attributeGroup"):
			ref, err := p.qnameAttr(c, "ref")
			if err != nil {
				return err
			}

			ct.AttributeGroups = append(ct.AttributeGroups, ref)
		case c.is("anyAttribute"):
			ct.AnyAttribute = true
		case c.is("simpleContent"):
			if err := p.parseDerivation(c, ct, true); err != nil {
				return err
			}
		case c.is("complexContent"):
			if c.attrs["mixed"] == "true" {
				ct.Mixed = true
			}

			if err := p.parseDerivation(c, ct, false); err != nil {
				return err
			}
		}
	}

	return nil
}

func (p *parser) parseDerivation(n *node, ct *ComplexType, simple bool) error {
	ct.SimpleContent = simple

	for _, c := range n.children {
		var derivation Derivation

		switch {
		case c.is("extension"):
			derivation = DerivationExtension
		case c.is("restriction"):
			derivation = DerivationRestriction
		default:
			continue
		}

		base, err := p.qnameAttr(c, "base")
		if err != nil {
			return err
		}

		ct.Base = base
		ct.Derivation = derivation

		if simple && derivation == DerivationRestriction {
			if ct.Facets, err = parseFacets(c); err != nil {
				return err
			}
		}

		if err := p.parseComplexBody(c, ct); err != nil {
			return err
		}
	}

	return nil
}

func (p *parser) parseModelGroup(n *node) (*ModelGroup, error) {
	g := &ModelGroup{Kind: Sequence}

	switch {
	case n.is("choice"):
		g.Kind = Choice
	case n.is("all"):
		g.Kind = All
	}

	var err error
	if g.MinOccurs, g.MaxOccurs, err = parseOccursPair(n); err != nil {
		return nil, err
	}

	for _, c := range n.children {
		var part Particle

		switch {
		case c.is("element"):
			part, err = p.parseElement(c, false)
		case c.is("sequence"), c.is("choice"), c.is("all"):
			part, err = p.parseModelGroup(c)
		case c.is("group"):
			part, err = p.parseGroupRef(c)
		case c.is("any"):
			part, err = parseAny(c)
		default:
			continue
		}

		if err != nil {
			return nil, err
		}

		g.Particles = append(g.Particles, part)
	}

	return g, nil
}

func (p *parser) parseNamedGroup(n *node) (*ModelGroup, error) {
	for _, c := range n.children {
		if c.is("sequence") || c.is("choice") || c.is("all") {
			g, err := p.parseModelGroup(c)
			if err != nil {
				return nil, err
			}

			g.Name = p.globalName(n)

			return g, nil
		}
	}

	return &ModelGroup{Name: p.globalName(n), Kind: Sequence, MinOccurs: 1, MaxOccurs: 1}, nil
}

func (p *parser) parseGroupRef(n *node) (*GroupRef, error) {
	ref, err := p.qnameAttr(n, "ref")
	if err != nil {
		return nil, err
	}

	g := &GroupRef{Ref: ref}
	if g.MinOccurs, g.MaxOccurs, err = parseOccursPair(n); err != nil {
		return nil, err
	}

	return g, nil
}

func parseAny(n *node) (*Any, error) {
	a := &Any{
		Namespace:       n.attrs["namespace"],
		ProcessContents: n.attrs["processContents"],
	}

	var err error
	if a.MinOccurs, a.MaxOccurs, err = parseOccursPair(n); err != nil {
		return nil, err
	}

	return a, nil
}

func (p *parser) parseSimpleType(n *node, name QName) (*SimpleType, error) {
	st := &SimpleType{Name: name, Doc: parseDoc(n)}

	for _, c := range n.children {
		switch {
		case c.is("restriction"):
			base, err := p.qnameAttr(c, "base")
			if err != nil {
				return nil, err
			}

			st.Base = base

			for _, cc := range c.children {
				if cc.is("simpleType") {
					if st.InlineBase, err = p.parseSimpleType(cc, QName{}); err != nil {
						return nil, err
					}
				}
			}

			if st.Facets, err = parseFacets(c); err != nil {
				return nil, fmt.Errorf("simple type %s: %w", name, err)
			}
		case c.is("list"):
			st.List = true
		case c.is("union"):
			st.Union = true
		}
	}

	return st, nil
}

func parseFacets(n *node) (Facets, error) {
	var f Facets

	for _, c := range n.children {
		value, ok := c.attr("value")
		if !ok || c.name.Space != Namespace {
			continue
		}

		var err error

		switch c.name.Local {
		case "enumeration":
			f.Enumeration = append(f.Enumeration, value)
		case "pattern":
			f.Pattern = append(f.Pattern, value)
		case "fractionDigits":
			f.FractionDigits, err = intFacet(c.name.Local, value)
		case "totalDigits":
			f.TotalDigits, err = intFacet(c.name.Local, value)
		case "length":
			f.Length, err = intFacet(c.name.Local, value)
		case "minLength":
			f.MinLength, err = intFacet(c.name.Local, value)
		case "maxLength":
			f.MaxLength, err = intFacet(c.name.Local, value)
		case "minInclusive":
			f.MinInclusive = &value
		case "maxInclusive":
			f.MaxInclusive = &value
		case "minExclusive":
			f.MinExclusive = &value
		case "maxExclusive":
			f.MaxExclusive = &value
		}

		if err != nil {
			return Facets{}, err
		}
	}

	return f, nil
}

func intFacet(name, value string) (*int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("invalid %s facet %q: %w", name, value, err)
	}

	return &i, nil
}

func (p *parser) parseAttribute(n *node, global bool) (*Attribute, error) {
	a := &Attribute{
		Use:     UseOptional,
		Default: optionalAttr(n, "default"),
		Fixed:   optionalAttr(n, "fixed"),
		Doc:     parseDoc(n),
	}

	if use, ok := n.attr("use"); ok {
		a.Use = AttributeUse(use)
	}

	var err error
	if a.Ref, err = p.qnameAttr(n, "ref"); err != nil {
		return nil, err
	}

	if name, ok := n.attr("name"); ok {
		a.Name = QName{Local: name}

		form, _ := n.attr("form")
		if global || form == "qualified" || (form == "" && p.attributeQualified) {
			a.Name.Space = p.schema.TargetNamespace
		}
	}

	if a.TypeName, err = p.qnameAttr(n, "type"); err != nil {
		return nil, err
	}

	for _, c := range n.children {
		if c.is("simpleType") {
			if a.Simple, err = p.parseSimpleType(c, QName{}); err != nil {
				return nil, err
			}
		}
	}

	return a, nil
}

func (p *parser) parseAttributeGroup(n *node) (*AttributeGroup, error) {
	ag := &AttributeGroup{Name: p.globalName(n)}

	for _, c := range n.children {
		switch {
		case c.is("attribute"):
			a, err := p.parseAttribute(c, false)
			if err != nil {
				return nil, err
			}

			ag.Attributes = append(ag.Attributes, a)
		case c.is("attributeGroup"):
			ref, err := p.qnameAttr(c, "ref")
			if err != nil {
				return nil, err
			}

			ag.AttributeGroups = append(ag.AttributeGroups, ref)
		case c.is("anyAttribute"):
			ag.AnyAttribute = true
		}
	}

	return ag, nil
}
