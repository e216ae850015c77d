package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Skotchmaster/agro_shop/internal/models"
)

const productMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "long"},
      "name":        {"type": "text", "fields": {"kw": {"type": "keyword"}}},
      "description": {"type": "text", "fields": {"kw": {"type": "keyword"}}},
      "category":    {"type": "keyword"},
      "price":       {"type": "double"},
      "stock":       {"type": "integer"},
      "isActive":    {"type": "boolean"}
    }
  }
}`

// EnsureIndex creates the product index with its mapping when missing.
func (c *Client) EnsureIndex(ctx context.Context) error {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es: index exists: unexpected status %s", res.Status())
	}

	res, err = c.es.Indices.Create(c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(strings.NewReader(productMapping)),
	)
	if err != nil {
		return fmt.Errorf("es: create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("create index", res.Status(), res.Body)
	}
	return nil
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// substring matches query anywhere in the keyword subfield of field,
// ignoring case. Wildcard characters in query are taken literally.
func substring(field, query string) map[string]any {
	return map[string]any{
		"wildcard": map[string]any{
			field + ".kw": map[string]any{
				"value":            "*" + wildcardEscaper.Replace(query) + "*",
				"case_insensitive": true,
			},
		},
	}
}

func searchBody(query, category string, from, size int) map[string]any {
	boolQuery := map[string]any{
		"should": []any{
			substring("name", query),
			substring("description", query),
		},
		"minimum_should_match": 1,
	}
	if category != "" {
		boolQuery["filter"] = []any{
			map[string]any{"term": map[string]any{"category": category}},
		}
	}
	return map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"sort":  []any{map[string]any{"id": "asc"}},
		"from":  from,
		"size":  size,
	}
}

func (c *Client) SearchProducts(ctx context.Context, query, category string, from, size int) ([]models.Product, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchBody(query, category, from, size)); err != nil {
		return nil, fmt.Errorf("es: encode search: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("es: decode search: %w", err)
	}

	products := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		products[i] = hit.Source
	}
	return products, nil
}

// IndexProducts writes products with one bulk request, using the product
// id as document id.
func (c *Client) IndexProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range products {
		meta := map[string]any{"index": map[string]any{"_index": c.index, "_id": strconv.FormatUint(uint64(p.ID), 10)}}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("es: encode bulk meta: %w", err)
		}
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("es: encode product %d: %w", p.ID, err)
		}
	}

	res, err := c.es.Bulk(bytes.NewReader(buf.Bytes()),
		c.es.Bulk.WithContext(ctx),
		c.es.Bulk.WithIndex(c.index),
	)
	if err != nil {
		return fmt.Errorf("es: bulk: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("bulk", res.Status(), res.Body)
	}

	var r struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return fmt.Errorf("es: decode bulk: %w", err)
	}
	if r.Errors {
		failed := 0
		for _, item := range r.Items {
			for _, op := range item {
				if op.Status >= 300 {
					failed++
				}
			}
		}
		return fmt.Errorf("es: bulk: %d of %d documents failed", failed, len(products))
	}
	return nil
}
