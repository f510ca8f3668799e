package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"feira_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const ProductsIndex = "products"

// Search indexa e busca produtos no Elasticsearch.
type Search struct {
	es    *elasticsearch.Client
	index string
}

func NewSearch(es *elasticsearch.Client) *Search {
	return &Search{es: es, index: ProductsIndex}
}

//
// --- INDEXAÇÃO ---
//

func (s *Search) IndexProduct(ctx context.Context, p models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: p.ID,
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return fmt.Errorf("envio ao Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elastic recusou %s: %s", p.ID, res.String())
	}
	log.Printf("✅ Produto indexado no Elasticsearch: %s", p.Name)
	return nil
}

func (s *Search) DeleteProduct(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: s.index, DocumentID: id, Refresh: "true"}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return fmt.Errorf("remoção no Elastic: %w", err)
	}
	defer res.Body.Close()

	// 404: o documento já não existe
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elastic recusou remoção de %s: %s", id, res.String())
	}
	return nil
}

//
// --- BUSCA ---
//

// SearchProducts busca por nome, descrição, categoria ou agricultor.
func (s *Search) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	var buf bytes.Buffer
	q := map[string]interface{}{
		"size": 50,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description", "category", "farmer_name"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erro ao codificar busca: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return nil, fmt.Errorf("erro na requisição Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.New("índice não encontrado ou vazio: " + res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("erro ao decodificar resposta: %w", err)
	}

	products := make([]models.Product, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		products = append(products, hit.Source)
	}
	return products, nil
}
