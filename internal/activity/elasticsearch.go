package activity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"kidsmoney/internal/models"
)

// ElasticsearchConfig holds connection settings for the activity index
type ElasticsearchConfig struct {
	URL      string
	Username string
	Password string
	Index    string
	// Transport overrides the HTTP transport, used by tests
	Transport http.RoundTripper
}

// ElasticRecorder indexes each transaction as a document keyed by its ID,
// so replays overwrite rather than duplicate.
type ElasticRecorder struct {
	client *elasticsearch.Client
	index  string
}

const transactionMapping = `{
	"mappings": {
		"properties": {
			"id":           {"type": "keyword"},
			"kid_id":       {"type": "keyword"},
			"type":         {"type": "keyword"},
			"category":     {"type": "keyword"},
			"reference_id": {"type": "keyword"},
			"amount":       {"type": "scaled_float", "scaling_factor": 100},
			"description":  {"type": "text"},
			"created_at":   {"type": "date"}
		}
	}
}`

// NewElasticRecorder connects to Elasticsearch and makes sure the index exists
func NewElasticRecorder(ctx context.Context, cfg ElasticsearchConfig) (*ElasticRecorder, error) {
	if cfg.URL == "" {
		return nil, errors.New("elasticsearch URL is required")
	}
	if cfg.Index == "" {
		return nil, errors.New("elasticsearch index is required")
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating elasticsearch client: %w", err)
	}

	r := &ElasticRecorder{client: client, index: cfg.Index}
	if err := r.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ElasticRecorder) ensureIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.index}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		if res.IsError() {
			return fmt.Errorf("error checking if index exists: %s", res.String())
		}
		return nil
	}

	req := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  bytes.NewReader([]byte(transactionMapping)),
	}
	res, err = req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index: %s", res.String())
	}
	return nil
}

type transactionDoc struct {
	ID          string    `json:"id"`
	KidID       string    `json:"kid_id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	ReferenceID *string   `json:"reference_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Record implements Recorder
func (r *ElasticRecorder) Record(ctx context.Context, txs []models.Transaction) error {
	for _, t := range txs {
		body, err := json.Marshal(transactionDoc(t))
		if err != nil {
			return fmt.Errorf("error marshaling transaction: %w", err)
		}

		req := esapi.IndexRequest{
			Index:      r.index,
			DocumentID: t.ID,
			Body:       bytes.NewReader(body),
		}
		res, err := req.Do(ctx, r.client)
		if err != nil {
			return fmt.Errorf("error indexing transaction %s: %w", t.ID, err)
		}
		isErr, status := res.IsError(), res.String()
		res.Body.Close()
		if isErr {
			return fmt.Errorf("error indexing transaction %s: %s", t.ID, status)
		}
	}
	return nil
}
