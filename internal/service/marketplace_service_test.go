package service

import (
	"math"
	"testing"

	"zestyy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketplaceService_CreateDefaultsAndValidation(t *testing.T) {
	env := newTestEnv(t)
	seller := env.user(t, "seller")

	item, err := env.marketplace.Create(ctx, seller.ID, CreateItemInput{
		Title:       "Desk lamp",
		Description: "Barely used",
		Price:       ptr(12.5),
		Category:    "Furniture",
		Images:      []string{"https://img/1.jpg", "  "},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ConditionGood, item.Condition)
	assert.Equal(t, models.StatusAvailable, item.Status)
	assert.Equal(t, "furniture", item.Category)
	assert.Equal(t, []string{"https://img/1.jpg"}, []string(item.Images))
	assert.Empty(t, item.Videos)
	assert.Equal(t, "seller", item.Seller.Username)

	bad := []CreateItemInput{
		{Title: "", Description: "d", Category: "c"},
		{Title: "t", Description: "", Category: "c"},
		{Title: "t", Description: "d", Category: ""},
		{Title: "t", Description: "d", Category: "c", Price: ptr(-1.0)},
		{Title: "t", Description: "d", Category: "c", Price: ptr(math.NaN())},
		{Title: "t", Description: "d", Category: "c", Condition: "broken"},
	}
	for _, in := range bad {
		_, err := env.marketplace.Create(ctx, seller.ID, in)
		assertCode(t, err, models.CodeValidation)
	}

	free, err := env.marketplace.Create(ctx, seller.ID, CreateItemInput{Title: "Books", Description: "Free", Category: "books", Price: ptr(0.0)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, *free.Price)
}

func TestMarketplaceService_ListOnlyAvailable(t *testing.T) {
	env := newTestEnv(t)
	seller := env.user(t, "seller")

	lamp, err := env.marketplace.Create(ctx, seller.ID, CreateItemInput{Title: "Lamp", Description: "d", Category: "furniture"})
	require.NoError(t, err)
	_, err = env.marketplace.Create(ctx, seller.ID, CreateItemInput{Title: "Book", Description: "d", Category: "books"})
	require.NoError(t, err)

	_, err = env.marketplace.Update(ctx, seller.ID, lamp.ID, UpdateItemInput{Status: ptr(models.StatusSold)})
	require.NoError(t, err)

	available, err := env.marketplace.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Book", available[0].Title)

	furniture, err := env.marketplace.List(ctx, "Furniture", 0)
	require.NoError(t, err)
	assert.Empty(t, furniture)

	mine, err := env.marketplace.ListBySeller(ctx, seller.ID, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestMarketplaceService_UpdateAndDeleteOwnership(t *testing.T) {
	env := newTestEnv(t)
	seller := env.user(t, "seller")
	other := env.user(t, "other")

	item, err := env.marketplace.Create(ctx, seller.ID, CreateItemInput{Title: "Bike", Description: "Red", Category: "sports", Price: ptr(100.0)})
	require.NoError(t, err)

	_, err = env.marketplace.Update(ctx, other.ID, item.ID, UpdateItemInput{Title: ptr("Mine now")})
	assertCode(t, err, models.CodeForbidden)

	_, err = env.marketplace.Update(ctx, seller.ID, "missing", UpdateItemInput{})
	assertCode(t, err, models.CodeNotFound)

	_, err = env.marketplace.Update(ctx, seller.ID, item.ID, UpdateItemInput{Status: ptr(models.ItemStatus("gone"))})
	assertCode(t, err, models.CodeValidation)

	updated, err := env.marketplace.Update(ctx, seller.ID, item.ID, UpdateItemInput{
		Price:     ptr(80.0),
		Condition: ptr(models.ConditionFair),
		Videos:    &[]string{"https://vid/1.mp4"},
	})
	require.NoError(t, err)
	assert.Equal(t, 80.0, *updated.Price)
	assert.Equal(t, models.ConditionFair, updated.Condition)
	assert.Equal(t, "Bike", updated.Title)
	assert.Equal(t, []string{"https://vid/1.mp4"}, []string(updated.Videos))

	_, err = env.marketplace.Update(ctx, seller.ID, item.ID, UpdateItemInput{Price: ptr(50.0), ClearPrice: true})
	assertCode(t, err, models.CodeValidation)

	cleared, err := env.marketplace.Update(ctx, seller.ID, item.ID, UpdateItemInput{ClearPrice: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.Price)
	stored, err := env.marketplace.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Price)

	assertCode(t, env.marketplace.Delete(ctx, other.ID, item.ID), models.CodeForbidden)
	require.NoError(t, env.marketplace.Delete(ctx, seller.ID, item.ID))

	_, err = env.marketplace.Get(ctx, item.ID)
	assertCode(t, err, models.CodeNotFound)
}
