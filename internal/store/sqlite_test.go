package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceorder/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleOrder() *model.ParsedOrder {
	return &model.ParsedOrder{
		CustomerName:       "Mario Rossi",
		CustomerConfidence: 0.9,
		Items: []model.ParsedOrderItem{
			{ArticleCode: "SF1000", Quantity: 5, CodeConfidence: 0.8},
		},
	}
}

func TestSQLiteStore_SaveAndGetOrder(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	saved, err := s.SaveOrder(ctx, "cliente Mario Rossi, articolo SF1000 quantità 5", sampleOrder())
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := s.GetOrder(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "cliente Mario Rossi, articolo SF1000 quantità 5", got.Transcript)
	assert.Equal(t, "Mario Rossi", got.Order.CustomerName)
	require.Len(t, got.Order.Items, 1)
	assert.Equal(t, "SF1000", got.Order.Items[0].ArticleCode)
	assert.Equal(t, 5, got.Order.Items[0].Quantity)
}

func TestSQLiteStore_GetOrderMissing(t *testing.T) {
	s := newTestSQLite(t)

	got, err := s.GetOrder(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_ListOrders(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for _, transcript := range []string{"primo ordine", "secondo ordine", "terzo ordine"} {
		_, err := s.SaveOrder(ctx, transcript, sampleOrder())
		require.NoError(t, err)
	}

	orders, err := s.ListOrders(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	all, err := s.ListOrders(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLiteStore_ReplaceAndReadVariants(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	entries := []model.ArticleVariant{
		{ArticleID: "A1", Variant: model.PackageVariant{ID: "V01", PackageContent: "1", MultipleQty: 1}},
		{ArticleID: "A1", Variant: model.PackageVariant{ID: "V05", PackageContent: "5", MultipleQty: 5}},
		{ArticleID: "A2", Variant: model.PackageVariant{ID: "V10", PackageContent: "10", MultipleQty: 10}},
	}
	n, err := s.ReplaceVariants(ctx, entries)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	variants, err := s.VariantsForArticle(ctx, "A1")
	require.NoError(t, err)
	require.Len(t, variants, 2)
	// Descending package size, as the disambiguator expects.
	assert.Equal(t, "V05", variants[0].ID)
	assert.Equal(t, "V01", variants[1].ID)

	// Replace wipes the previous catalog.
	n, err = s.ReplaceVariants(ctx, entries[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	variants, err = s.VariantsForArticle(ctx, "A2")
	require.NoError(t, err)
	assert.Empty(t, variants)
}

func TestSQLiteStore_VariantsForUnknownArticle(t *testing.T) {
	s := newTestSQLite(t)

	variants, err := s.VariantsForArticle(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, variants)
}
