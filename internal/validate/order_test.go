package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceorder/internal/model"
	"voiceorder/internal/search"
)

func TestOrder_ValidatesCustomerAndItems(t *testing.T) {
	articles := search.Func(func(_ context.Context, query string, _ int) ([]model.Candidate, error) {
		switch query {
		case "SF1000":
			return []model.Candidate{{ID: "A1", Name: "SF1000", Confidence: 100, Reason: "exact"}}, nil
		default:
			return nil, nil
		}
	})
	customers := search.Func(func(_ context.Context, _ string, _ int) ([]model.Candidate, error) {
		return []model.Candidate{{ID: "C1", Name: "Mario Rossi", Confidence: 97, Reason: "phonetic"}}, nil
	})

	in := &model.ParsedOrder{
		CustomerName: "Mario Rossi",
		Items: []model.ParsedOrderItem{
			{ArticleCode: "SF1000", Quantity: 5},
			{ArticleCode: "XX9999", Quantity: 1},
		},
	}

	res := New(articles, customers).Order(context.Background(), in, nil)

	require.NotNil(t, res.Customer)
	assert.Equal(t, model.MatchPhonetic, res.Customer.Type)
	assert.InDelta(t, 0.97, res.Order.CustomerConfidence, 1e-9)

	require.Len(t, res.Articles, 2)
	assert.Equal(t, model.MatchExact, res.Articles[0].Type)
	assert.InDelta(t, 1.0, res.Order.Items[0].CodeConfidence, 1e-9)
	assert.Empty(t, res.Order.Items[0].Errors)

	assert.Equal(t, model.MatchNotFound, res.Articles[1].Type)
	assert.Zero(t, res.Order.Items[1].CodeConfidence)
	require.Len(t, res.Order.Items[1].Errors, 1)
	assert.Equal(t, msgArticleNotFound, res.Order.Items[1].Errors[0])
}

func TestOrder_DoesNotMutateInput(t *testing.T) {
	articles := stubSearcher([]model.Candidate{
		{ID: "A1", Name: "SF1000", Confidence: 100, Reason: "exact"},
	}, nil)

	in := &model.ParsedOrder{
		Items: []model.ParsedOrderItem{{ArticleCode: "SF1000", Quantity: 5, CodeConfidence: 0.8}},
	}

	res := New(articles, nil).Order(context.Background(), in, nil)

	assert.InDelta(t, 0.8, in.Items[0].CodeConfidence, 1e-9, "input must stay untouched")
	assert.InDelta(t, 1.0, res.Order.Items[0].CodeConfidence, 1e-9)
	assert.NotSame(t, in, res.Order)
}

func TestOrder_MarksPackagingDisambiguation(t *testing.T) {
	articles := stubSearcher([]model.Candidate{
		{ID: "A1", Name: "845.104.023", Confidence: 100, Reason: "exact"},
	}, nil)
	variants := VariantSourceFunc(func(_ context.Context, articleID string) ([]model.PackageVariant, error) {
		require.Equal(t, "A1", articleID)
		return []model.PackageVariant{
			{ID: "V05", PackageContent: "5", MultipleQty: 5},
			{ID: "V01", PackageContent: "1", MultipleQty: 1},
		}, nil
	})

	in := &model.ParsedOrder{
		Items: []model.ParsedOrderItem{{ArticleCode: "845.104.023", Quantity: 7}},
	}

	res := New(articles, nil).Order(context.Background(), in, variants)

	item := res.Order.Items[0]
	assert.True(t, item.NeedsDisambiguation)
	require.Len(t, item.PackageSolutions, 2)
	assert.Equal(t, 3, item.PackageSolutions[0].TotalPackages)
}

func TestOrder_SingleVariantSkipsDisambiguation(t *testing.T) {
	articles := stubSearcher([]model.Candidate{
		{ID: "A1", Name: "SF1000", Confidence: 100, Reason: "exact"},
	}, nil)
	variants := VariantSourceFunc(func(_ context.Context, _ string) ([]model.PackageVariant, error) {
		return []model.PackageVariant{{ID: "V01", PackageContent: "1", MultipleQty: 1}}, nil
	})

	in := &model.ParsedOrder{
		Items: []model.ParsedOrderItem{{ArticleCode: "SF1000", Quantity: 7}},
	}

	res := New(articles, nil).Order(context.Background(), in, variants)

	item := res.Order.Items[0]
	assert.False(t, item.NeedsDisambiguation)
	assert.Empty(t, item.PackageSolutions)
}
