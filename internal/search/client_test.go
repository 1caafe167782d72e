package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Search(t *testing.T) {
	var gotPath, gotQuery, gotLimit string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[
			{"id":"A1","name":"SF1000","confidence":100,"reason":"exact"},
			{"id":"A2","name":"SF1001","confidence":82,"reason":"fuzzy"}
		]}`)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ArticlesPath, ClientOptions{})
	candidates, err := c.Search(context.Background(), "SF1000", 5)
	require.NoError(t, err)

	assert.Equal(t, ArticlesPath, gotPath)
	assert.Equal(t, "SF1000", gotQuery)
	assert.Equal(t, "5", gotLimit)
	require.Len(t, candidates, 2)
	assert.Equal(t, "SF1000", candidates[0].Name)
	assert.Equal(t, 100, candidates[0].Confidence)
	assert.Equal(t, "fuzzy", candidates[1].Reason)
}

func TestClient_SearchPreservesServiceOrder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"results":[
			{"id":"B","name":"second-best","confidence":70,"reason":"fuzzy"},
			{"id":"A","name":"best","confidence":90,"reason":"fuzzy"}
		]}`)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, CustomersPath, ClientOptions{})
	candidates, err := c.Search(context.Background(), "x", 5)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "B", candidates[0].ID, "service ranking must not be reordered")
}

func TestClient_SearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ArticlesPath, ClientOptions{})
	_, err := c.Search(context.Background(), "SF1000", 5)
	assert.Error(t, err)
}

func TestClient_SearchBadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"results":`)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ArticlesPath, ClientOptions{})
	_, err := c.Search(context.Background(), "SF1000", 5)
	assert.Error(t, err)
}

func TestClient_SearchUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", ArticlesPath, ClientOptions{})
	_, err := c.Search(context.Background(), "SF1000", 5)
	assert.Error(t, err)
}
