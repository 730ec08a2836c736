package infer

import (
	"fmt"

	"schema-bridge/internal/diagnostic"
	"schema-bridge/internal/model"
	"schema-bridge/internal/walk"
	"schema-bridge/internal/xsd"
)

const maxRestrictionDepth = 64

// restriction is a simple type reduced to its built-in base and the facets
// accumulated along the restriction chain.
type restriction struct {
	builtin xsd.QName
	facets  xsd.Facets
	// named is the most derived named simple type of the chain.
	named xsd.QName
	doc   string
}

// scalar infers the model type of a simple type reference.
func (b *Builder) scalar(ref walk.SimpleRef) (model.Type, error) {
	cacheable := ref.Facets == nil && ref.Inline == nil && !ref.TypeName.IsZero()
	if cacheable {
		if t, ok := b.scalars[ref.TypeName]; ok {
			return t, nil
		}
	}

	r, err := b.restrict(ref)
	if err != nil {
		return nil, err
	}

	t, err := b.fromRestriction(r, ref.Owner)
	if err != nil {
		return nil, err
	}

	if cacheable {
		b.scalars[ref.TypeName] = t
	}

	return t, nil
}

// restrict follows the base chain of ref down to a built-in type. Facets of
// derived types take precedence over those of their bases.
func (b *Builder) restrict(ref walk.SimpleRef) (restriction, error) {
	var r restriction
	if ref.Facets != nil {
		r.facets = *ref.Facets
	}

	st := ref.Inline
	name := ref.TypeName

	for depth := 0; ; depth++ {
		if depth > maxRestrictionDepth {
			return r, fmt.Errorf("%w: circular simple type derivation", walk.ErrUnsupported)
		}

		if st == nil {
			if name.IsBuiltin() {
				r.builtin = name
				return r, nil
			}

			found, err := b.schema.SimpleType(name)
			if err != nil {
				return r, err
			}

			st = found
		}

		if st.List {
			return r, fmt.Errorf("%w: simple type list %s", walk.ErrUnsupported, st.Name)
		}

		if st.Union {
			return r, fmt.Errorf("%w: simple type union %s", walk.ErrUnsupported, st.Name)
		}

		if r.named.IsZero() && !st.Name.IsZero() {
			r.named = st.Name
			r.doc = st.Doc
		}

		r.facets = r.facets.Inherit(st.Facets)

		name = st.Base
		st = st.InlineBase

		if st == nil && name.IsZero() {
			return r, fmt.Errorf("%w: simple type without base", walk.ErrUnsupported)
		}
	}
}

func (b *Builder) fromRestriction(r restriction, owner xsd.QName) (model.Type, error) {
	local := r.builtin.Local

	switch xsd.ClassifyBuiltin(local) {
	case xsd.BuiltinString, xsd.BuiltinAnyURI:
		if len(r.facets.Enumeration) > 0 {
			return b.enum(r, owner)
		}

		return model.StringType, nil
	case xsd.BuiltinBoolean:
		return b.plain(model.BooleanType, r, owner), nil
	case xsd.BuiltinFloat:
		return b.plain(model.FloatType, r, owner), nil
	case xsd.BuiltinDouble:
		return b.plain(model.DoubleType, r, owner), nil
	case xsd.BuiltinDate:
		return b.plain(model.DateType, r, owner), nil
	case xsd.BuiltinDateTime:
		return b.plain(b.config.dateTime(), r, owner), nil
	case xsd.BuiltinTime:
		return b.plain(b.config.time(), r, owner), nil
	case xsd.BuiltinHexBinary:
		return b.plain(model.BinaryHexType, r, owner), nil
	case xsd.BuiltinBase64Binary:
		return b.plain(model.BinaryBase64Type, r, owner), nil
	case xsd.BuiltinDecimal:
		return b.decimal(r, owner)
	case xsd.BuiltinList:
		return nil, fmt.Errorf("%w: list type %s", walk.ErrUnsupported, r.builtin)
	default:
		return nil, fmt.Errorf("%w: built-in type %s", walk.ErrUnsupported, r.builtin)
	}
}

// plain returns t, noting enumerations that a non-string type cannot keep.
func (b *Builder) plain(t model.FixedType, r restriction, owner xsd.QName) model.Type {
	if len(r.facets.Enumeration) > 0 {
		b.diags.AddWarning(diagnostic.CodeEnumDegraded,
			fmt.Sprintf("enumeration on %s dropped", t), subject(r, owner), owner.Local)
	}

	return t
}

// enum registers an enum type named after the simple type, or after the
// declaring element or attribute for anonymous types.
func (b *Builder) enum(r restriction, owner xsd.QName) (model.Type, error) {
	name := r.named
	if name.IsZero() {
		name = owner
	}

	symbols := append([]string{}, r.facets.Enumeration...)

	et, err := b.registry.NewEnum(name.Local, name.Space, symbols)
	if err != nil {
		return nil, err
	}

	et.Doc = b.doc(r.doc)

	b.logger.Debug().Str("enum", et.Name).Int("symbols", len(symbols)).Msg("register enum")

	return et, nil
}

func (b *Builder) decimal(r restriction, owner xsd.QName) (model.Type, error) {
	facets := r.facets

	if bounds, ok := xsd.IntegerBuiltin(r.builtin.Local); ok {
		facets = withIntegerBounds(facets, bounds)
	}

	t, err := DecimalOf(facets)
	if err != nil {
		return nil, fmt.Errorf("restriction of %s: %w", subject(r, owner), err)
	}

	if t == model.DoubleType {
		b.logger.Warn().Str("type", subject(r, owner)).Msg("decimal degraded to double")
		b.diags.AddWarning(diagnostic.CodeDecimalDegraded,
			"decimal without fraction digits or bounds degraded to double", subject(r, owner), owner.Local)
	}

	return t, nil
}

// withIntegerBounds adds the implicit facets of a built-in integer type.
// Implicit bounds apply only to sides the restriction leaves open.
func withIntegerBounds(f xsd.Facets, bounds xsd.IntegerBounds) xsd.Facets {
	if f.FractionDigits == nil {
		zero := 0
		f.FractionDigits = &zero
	}

	if f.MinInclusive == nil && f.MinExclusive == nil {
		f.MinInclusive = bounds.Min
	}

	if f.MaxInclusive == nil && f.MaxExclusive == nil {
		f.MaxInclusive = bounds.Max
	}

	return f
}

func subject(r restriction, owner xsd.QName) string {
	if !r.named.IsZero() {
		return r.named.Local
	}

	return owner.Local
}
