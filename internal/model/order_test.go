package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsedOrderClone_DeepCopy(t *testing.T) {
	in := &ParsedOrder{
		CustomerName: "Mario Rossi",
		Items: []ParsedOrderItem{
			{
				ArticleCode: "SF1000",
				Quantity:    5,
				Errors:      []string{"Articolo non trovato"},
				PackageSolutions: []PackageSolution{
					{TotalPackages: 2, Breakdown: []PackageCount{{VariantID: "V05", Count: 2}}},
				},
			},
		},
	}

	out := in.Clone()
	require.NotSame(t, in, out)

	out.Items[0].Quantity = 99
	out.Items[0].Errors[0] = "changed"
	out.Items[0].PackageSolutions[0].TotalPackages = 99

	assert.Equal(t, 5, in.Items[0].Quantity)
	assert.Equal(t, "Articolo non trovato", in.Items[0].Errors[0])
	assert.Equal(t, 2, in.Items[0].PackageSolutions[0].TotalPackages)
}

func TestParsedOrderClone_Nil(t *testing.T) {
	var o *ParsedOrder
	assert.Nil(t, o.Clone())
}

func TestMatchResultResolved(t *testing.T) {
	entity := &Candidate{ID: "A1", Name: "SF1000"}

	assert.True(t, MatchResult{Type: MatchExact, Entity: entity}.Resolved())
	assert.True(t, MatchResult{Type: MatchNormalized, Entity: entity}.Resolved())
	assert.True(t, MatchResult{Type: MatchPhonetic, Entity: entity}.Resolved())

	assert.False(t, MatchResult{Type: MatchExact}.Resolved(), "no entity")
	assert.False(t, MatchResult{Type: MatchFuzzy, Entity: entity}.Resolved())
	assert.False(t, MatchResult{Type: MatchBasePattern, Entity: entity}.Resolved())
	assert.False(t, MatchResult{Type: MatchNotFound}.Resolved())
}
