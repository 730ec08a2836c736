package infer

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"schema-bridge/internal/model"
	"schema-bridge/internal/xsd"
)

// Bit sizes of the fixed-width integer decimals.
const (
	int32Bits = 32
	int64Bits = 64
)

// DecimalOf sizes a decimal restriction from its facets.
//
// Every bound is converted to an unscaled integer at the declared scale,
// rounding half away from zero, with exclusive bounds moved inwards by one unit. The
// precision is the largest digit count of any bound and the bit size is the
// largest bit length plus a sign bit. Restrictions without fraction digits,
// and scaled restrictions without any bound, degrade to double.
func DecimalOf(f xsd.Facets) (model.Type, error) {
	if f.FractionDigits == nil {
		return model.DoubleType, nil
	}

	scale := *f.FractionDigits

	bounds, err := unscaledBounds(f, scale)
	if err != nil {
		return nil, err
	}

	if len(bounds) == 0 {
		if scale > 0 {
			return model.DoubleType, nil
		}

		return model.Int64Type, nil
	}

	precision, bits := 0, 0

	for _, b := range bounds {
		precision = max(precision, digits(b))
		bits = max(bits, bitLen(b))
	}

	if scale == 0 {
		switch {
		case bits <= int32Bits:
			return model.Int32Type, nil
		case bits <= int64Bits:
			return model.Int64Type, nil
		}
	}

	return model.DecimalType{Precision: max(precision, scale), Scale: scale}, nil
}

// unscaledBounds returns the unscaled values of every bound.
func unscaledBounds(f xsd.Facets, scale int) ([]*big.Int, error) {
	var out []*big.Int

	type bound struct {
		value *string
		shift int64
	}

	for _, b := range []bound{
		{f.MinInclusive, 0},
		{f.MaxInclusive, 0},
		{f.MinExclusive, 1},
		{f.MaxExclusive, -1},
	} {
		if b.value == nil {
			continue
		}

		d, err := decimal.NewFromString(*b.value)
		if err != nil {
			return nil, fmt.Errorf("invalid bound %q: %w", *b.value, err)
		}

		unscaled := d.Shift(int32(scale)).Round(0).Add(decimal.NewFromInt(b.shift))
		out = append(out, unscaled.BigInt())
	}

	if f.TotalDigits != nil && *f.TotalDigits > 0 {
		limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(*f.TotalDigits)), nil)
		out = append(out, limit.Sub(limit, big.NewInt(1)))
	}

	return out, nil
}

func digits(v *big.Int) int {
	if v.Sign() == 0 {
		return 1
	}

	return len(new(big.Int).Abs(v).String())
}

// bitLen returns the two's complement width of v including the sign bit.
func bitLen(v *big.Int) int {
	if v.Sign() < 0 {
		return new(big.Int).Sub(new(big.Int).Neg(v), big.NewInt(1)).BitLen() + 1
	}

	return v.BitLen() + 1
}
