package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/shopmaster/storefront/internal/logging"
	"github.com/shopmaster/storefront/internal/models"
)

// Index keeps the product search index in sync with the catalog. Sync calls
// are best-effort: the catalog is the source of truth, a failed index write
// only degrades search results.
type Index struct {
	ES   *elasticsearch.Client
	Name string
}

// Enabled reports whether an elasticsearch backend is configured.
func (ix *Index) Enabled() bool {
	return ix != nil && ix.ES != nil
}

func (ix *Index) IndexProduct(ctx context.Context, p *models.Product) {
	if !ix.Enabled() {
		return
	}
	l := logging.FromContext(ctx).With("component", "search_index")

	doc, err := json.Marshal(p)
	if err != nil {
		l.Error("index_marshal_failed", "product_id", p.ID, "error", err)
		return
	}

	res, err := ix.ES.Index(
		ix.Name,
		bytes.NewReader(doc),
		ix.ES.Index.WithContext(ctx),
		ix.ES.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
	)
	if err != nil {
		l.Error("index_failed", "product_id", p.ID, "error", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		l.Error("index_failed", "product_id", p.ID, "status", res.Status())
	}
}

func (ix *Index) DeleteProduct(ctx context.Context, id uint) {
	if !ix.Enabled() {
		return
	}
	l := logging.FromContext(ctx).With("component", "search_index")

	res, err := ix.ES.Delete(
		ix.Name,
		strconv.FormatUint(uint64(id), 10),
		ix.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		l.Error("index_delete_failed", "product_id", id, "error", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		l.Error("index_delete_failed", "product_id", id, "status", res.Status())
	}
}

// Search runs a fuzzy multi_match over product name and description.
func (ix *Index) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Name),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 }             `json:"total"`
			Hits  []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}
