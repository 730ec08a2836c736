package match

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRank(t *testing.T) {
	ranked := Rank("customer_id", []string{"CustomerID", "customerName", "total"}, 0.5)

	if assert.Len(t, ranked, 2) {
		assert.Equal(t, "CustomerID", ranked[0].Name)
		assert.InDelta(t, 1.0, ranked[0].Score, 1e-9)
		assert.Equal(t, "customerName", ranked[1].Name)
	}
}

func TestRankWordOrder(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      float64
	}{
		{"swapped words", "orderId", 1.0},
		{"swapped with separators", "ID-Order", 1.0},
		{"same order", "idOrder", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := Rank("id_order", []string{tt.candidate}, 0.5)
			if assert.Len(t, ranked, 1) {
				assert.InDelta(t, tt.want, ranked[0].Score, 1e-9)
			}
		})
	}

	assert.Empty(t, Rank("id_order", []string{"total"}, 0.5))
}

func TestSuggestLimits(t *testing.T) {
	got := Suggest("item", []string{"items", "Item", "iten", "itemz", "other"})
	assert.Equal(t, []string{"Item", "items", "itemz"}, got)

	assert.Empty(t, Suggest("zzz", []string{"alpha", "beta"}))
}

func ExampleSuggest() {
	fmt.Println(Suggest("cusomer", []string{"customer", "order", "total"}))
	// Output: [customer]
}
