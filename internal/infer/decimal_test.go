package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-bridge/internal/model"
	"schema-bridge/internal/xsd"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestDecimalOf(t *testing.T) {
	tests := []struct {
		name   string
		facets xsd.Facets
		want   model.Type
	}{
		{
			name:   "no fraction digits",
			facets: xsd.Facets{TotalDigits: intPtr(5)},
			want:   model.DoubleType,
		},
		{
			name:   "nine digits",
			facets: xsd.Facets{FractionDigits: intPtr(0), TotalDigits: intPtr(9)},
			want:   model.Int32Type,
		},
		{
			name:   "ten digits",
			facets: xsd.Facets{FractionDigits: intPtr(0), TotalDigits: intPtr(10)},
			want:   model.Int64Type,
		},
		{
			name:   "eighteen digits",
			facets: xsd.Facets{FractionDigits: intPtr(0), TotalDigits: intPtr(18)},
			want:   model.Int64Type,
		},
		{
			name:   "nineteen digits",
			facets: xsd.Facets{FractionDigits: intPtr(0), TotalDigits: intPtr(19)},
			want:   model.DecimalType{Precision: 19},
		},
		{
			name:   "unbounded integer",
			facets: xsd.Facets{FractionDigits: intPtr(0)},
			want:   model.Int64Type,
		},
		{
			name:   "scaled with digits",
			facets: xsd.Facets{FractionDigits: intPtr(2), TotalDigits: intPtr(8)},
			want:   model.DecimalType{Precision: 8, Scale: 2},
		},
		{
			name:   "scaled without bound",
			facets: xsd.Facets{FractionDigits: intPtr(2)},
			want:   model.DoubleType,
		},
		{
			name: "scaled bounds",
			facets: xsd.Facets{
				FractionDigits: intPtr(2),
				MinInclusive:   strPtr("-999.999"),
				MaxExclusive:   strPtr("100"),
			},
			want: model.DecimalType{Precision: 6, Scale: 2},
		},
		{
			name: "int range",
			facets: xsd.Facets{
				FractionDigits: intPtr(0),
				MinInclusive:   strPtr("-2147483648"),
				MaxInclusive:   strPtr("2147483647"),
			},
			want: model.Int32Type,
		},
		{
			name: "exclusive bound stays inside",
			facets: xsd.Facets{
				FractionDigits: intPtr(0),
				MaxExclusive:   strPtr("2147483648"),
			},
			want: model.Int32Type,
		},
		{
			name: "long range",
			facets: xsd.Facets{
				FractionDigits: intPtr(0),
				MinInclusive:   strPtr("-9223372036854775808"),
				MaxInclusive:   strPtr("9223372036854775807"),
			},
			want: model.Int64Type,
		},
		{
			name: "unsigned long",
			facets: xsd.Facets{
				FractionDigits: intPtr(0),
				MinInclusive:   strPtr("0"),
				MaxInclusive:   strPtr("18446744073709551615"),
			},
			want: model.DecimalType{Precision: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecimalOf(tt.facets)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnscaledBoundsRounding(t *testing.T) {
	tests := []struct {
		name   string
		facets xsd.Facets
		scale  int
		want   []string
	}{
		{"positive half", xsd.Facets{MinInclusive: strPtr("2.5")}, 0, []string{"3"}},
		{"negative half", xsd.Facets{MinInclusive: strPtr("-2.5")}, 0, []string{"-3"}},
		{"negative below half", xsd.Facets{MaxInclusive: strPtr("-2.4")}, 0, []string{"-2"}},
		{"scaled negative half", xsd.Facets{MinInclusive: strPtr("-1.005")}, 2, []string{"-101"}},
		{"exclusive bounds", xsd.Facets{MinExclusive: strPtr("-2.5"), MaxExclusive: strPtr("2.5")}, 0, []string{"-2", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bounds, err := unscaledBounds(tt.facets, tt.scale)
			require.NoError(t, err)

			got := make([]string, len(bounds))
			for i, b := range bounds {
				got[i] = b.String()
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecimalOfInvalidBound(t *testing.T) {
	_, err := DecimalOf(xsd.Facets{FractionDigits: intPtr(0), MaxInclusive: strPtr("ten")})
	assert.Error(t, err)
}
