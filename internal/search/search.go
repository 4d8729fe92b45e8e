package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/forcosplay/costume-shop/internal/models"
)

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}
	return client, nil
}

type CostumeIndex struct {
	ES   *elasticsearch.Client
	Name string
}

type costumeDoc struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	SalePrice   float64 `json:"salePrice"`
	RentalPrice float64 `json:"rentalPrice"`
	Available   bool    `json:"available"`
	CategoryID  *uint   `json:"categoryId,omitempty"`
	Sizes       string  `json:"sizes"`
}

// Search returns the total hit count and the matching costume ids in rank order.
func (x *CostumeIndex) Search(ctx context.Context, query string, from, size int) (int64, []uint, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
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
		return 0, nil, fmt.Errorf("search encode: %w", err)
	}

	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.Name),
		x.ES.Search.WithBody(&buf),
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
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source costumeDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search decode: %w", err)
	}

	ids := make([]uint, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		ids[i] = hit.Source.ID
	}
	return r.Hits.Total.Value, ids, nil
}

func (x *CostumeIndex) IndexCostume(ctx context.Context, c *models.Costume) error {
	doc := costumeDoc{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		SalePrice:   c.SalePrice,
		RentalPrice: c.RentalPrice,
		Available:   c.Available,
		CategoryID:  c.CategoryID,
		Sizes:       c.Sizes,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("index encode: %w", err)
	}

	res, err := x.ES.Index(x.Name, bytes.NewReader(data),
		x.ES.Index.WithContext(ctx),
		x.ES.Index.WithDocumentID(strconv.FormatUint(uint64(c.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index costume %d: %w", c.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index costume %d: %s", c.ID, res.Status())
	}
	return nil
}

func (x *CostumeIndex) DeleteCostume(ctx context.Context, id uint) error {
	res, err := x.ES.Delete(x.Name, strconv.FormatUint(uint64(id), 10), x.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete costume %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete costume %d: %s", id, res.Status())
	}
	return nil
}
