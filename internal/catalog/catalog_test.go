package catalog

import (
	"errors"
	"testing"

	"orderbuilder/internal/fetch"
	"orderbuilder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var magicalIngredients = []models.CatalogItem{
	{ID: "golden-bun", Name: "Golden bun", Category: models.CategoryFrame, Proteins: 10, Price: 999, Image: "golden-bun.jpg"},
	{ID: "dragon-steak", Name: "Dragon steak", Category: models.CategoryFillingSolid, Proteins: 99, Price: 1999, Image: "dragon-steak.jpg"},
	{ID: "unicorn-sauce", Name: "Unicorn sauce", Category: models.CategoryFillingSauce, Proteins: 5, Price: 499, Image: "unicorn-sauce.jpg"},
	{ID: "moon-bun", Name: "Moon bun", Category: models.CategoryFrame, Price: 300},
}

func TestInitialState(t *testing.T) {
	s := InitialState()
	assert.Empty(t, s.Items)
	assert.Empty(t, s.Frames)
	assert.Empty(t, s.FillingSolids)
	assert.Empty(t, s.FillingSauces)
	assert.True(t, s.IsLoading)
	assert.Nil(t, s.Error)
}

func TestReducePending(t *testing.T) {
	s := Reduce(InitialState(), fetch.Pending[[]models.CatalogItem]())
	assert.Equal(t, InitialState(), s)
}

func TestReduceSucceeded(t *testing.T) {
	s := Reduce(InitialState(), fetch.Succeeded(magicalIngredients))

	assert.Equal(t, magicalIngredients, s.Items)
	assert.Equal(t, []models.CatalogItem{magicalIngredients[0], magicalIngredients[3]}, s.Frames)
	assert.Equal(t, []models.CatalogItem{magicalIngredients[1]}, s.FillingSolids)
	assert.Equal(t, []models.CatalogItem{magicalIngredients[2]}, s.FillingSauces)
	assert.False(t, s.IsLoading)
	assert.Nil(t, s.Error)
}

func TestReduceFailed(t *testing.T) {
	s := Reduce(InitialState(), fetch.Failed[[]models.CatalogItem](errors.New("the dragon burned the scroll")))

	assert.Empty(t, s.Items)
	assert.False(t, s.IsLoading)
	require.NotNil(t, s.Error)
	assert.Equal(t, "the dragon burned the scroll", s.Error.Message)
}

func TestRetryKeepsPreviousItems(t *testing.T) {
	loaded := Reduce(InitialState(), fetch.Succeeded(magicalIngredients))
	failed := Reduce(loaded, fetch.Failed[[]models.CatalogItem](errors.New("timeout")))
	retry := Reduce(failed, fetch.Pending[[]models.CatalogItem]())

	assert.True(t, retry.IsLoading)
	assert.Nil(t, retry.Error)
	assert.Equal(t, magicalIngredients, retry.Items)
	assert.Equal(t, loaded.Frames, retry.Frames)
}

func TestPartitionIsExact(t *testing.T) {
	payload := append([]models.CatalogItem{
		{ID: "mystery", Name: "Mystery box", Category: models.Category("dessert")},
	}, magicalIngredients...)

	s := Reduce(InitialState(), fetch.Succeeded(payload))

	assert.Len(t, s.Items, len(magicalIngredients), "unknown categories are dropped")
	union := make(map[string]int)
	for _, subset := range [][]models.CatalogItem{s.Frames, s.FillingSolids, s.FillingSauces} {
		for _, item := range subset {
			union[item.ID]++
		}
	}
	assert.Len(t, union, len(s.Items))
	for _, item := range s.Items {
		assert.Equal(t, 1, union[item.ID], "item %s must be in exactly one subset", item.ID)
	}
}

func TestFind(t *testing.T) {
	s := Reduce(InitialState(), fetch.Succeeded(magicalIngredients))

	item, ok := s.Find("dragon-steak")
	require.True(t, ok)
	assert.Equal(t, 99, item.Proteins)

	_, ok = s.Find("missing")
	assert.False(t, ok)
}

func TestUnknown(t *testing.T) {
	items := append([]models.CatalogItem{{ID: "mystery-jelly", Category: "dessert"}}, magicalIngredients...)

	assert.Equal(t, []string{"mystery-jelly"}, Unknown(items))
	assert.Empty(t, Unknown(magicalIngredients))

	s := Reduce(InitialState(), fetch.Succeeded(items))
	assert.Len(t, s.Items, len(magicalIngredients))
}
