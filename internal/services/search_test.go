package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"feira_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSearch(t *testing.T, handler http.HandlerFunc) *Search {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewSearch(es)
}

func TestSearchProductsDecodesHits(t *testing.T) {
	var body map[string]interface{}
	s := newTestSearch(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/products/_search"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = w.Write([]byte(`{"hits":{"hits":[
			{"_source":{"id":"p1","name":"Tomate","price":3.5,"unit":"kg"}},
			{"_source":{"id":"p2","name":"Tomate cereja","price":6}}
		]}}`))
	})

	got, err := s.SearchProducts(context.Background(), "tomate")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.Product{ID: "p1", Name: "Tomate", Price: 3.5, Unit: "kg"}, got[0])

	mm := body["query"].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "tomate", mm["query"])
}

func TestSearchProductsErrorStatus(t *testing.T) {
	s := newTestSearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"index_not_found_exception"}`))
	})

	_, err := s.SearchProducts(context.Background(), "x")
	assert.Error(t, err)
}

func TestIndexAndDeleteProduct(t *testing.T) {
	var calls []string
	s := newTestSearch(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})
	ctx := context.Background()

	require.NoError(t, s.IndexProduct(ctx, models.Product{ID: "p1", Name: "Couve"}))
	require.NoError(t, s.DeleteProduct(ctx, "p1"))

	assert.Equal(t, []string{"PUT /products/_doc/p1", "DELETE /products/_doc/p1"}, calls)
}
