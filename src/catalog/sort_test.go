package catalog

import (
	"testing"
	"tourbook/src/models"
	"tourbook/src/types"

	"github.com/stretchr/testify/assert"
)

func TestSort(t *testing.T) {
	input := []models.PackageView{
		{ID: 1, Price: 3000, Rating: 4},
		{ID: 2, Price: 1500, Rating: 5},
		{ID: 3, Price: 3000, Rating: 4},
		{ID: 4, Price: 9000, Rating: 2},
		{ID: 5, Price: 1500, Rating: 5},
	}
	original := make([]models.PackageView, len(input))
	copy(original, input)

	tests := []struct {
		name     string
		strategy types.SortStrategy
		want     []uint
	}{
		{"recommended keeps order", types.SORT_RECOMMENDED, []uint{1, 2, 3, 4, 5}},
		{"price ascending is stable", types.SORT_PRICE_ASC, []uint{2, 5, 1, 3, 4}},
		{"price descending is stable", types.SORT_PRICE_DESC, []uint{4, 1, 3, 2, 5}},
		{"rating descending is stable", types.SORT_RATING_DESC, []uint{2, 5, 1, 3, 4}},
		{"unknown strategy keeps order", types.SortStrategy("popular"), []uint{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted := Sort(input, tt.strategy)
			assert.Equal(t, tt.want, ids(sorted))
			assert.ElementsMatch(t, input, sorted)
		})
	}
	assert.Equal(t, original, input, "input slice must not be mutated")
}

func TestParseSortStrategy(t *testing.T) {
	assert.Equal(t, types.SORT_PRICE_ASC, types.ParseSortStrategy("Price: Low to High"))
	assert.Equal(t, types.SORT_RATING_DESC, types.ParseSortStrategy("rating_desc"))
	assert.Equal(t, types.SORT_RECOMMENDED, types.ParseSortStrategy(""))
	assert.Equal(t, "Price: High to Low", types.SORT_PRICE_DESC.Label())
}
