package activity

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsmoney/internal/models"
)

type fakeTransport struct {
	mu          sync.Mutex
	indexExists bool
	requests    []recordedRequest
}

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body string
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
	}
	f.requests = append(f.requests, recordedRequest{Method: req.Method, Path: req.URL.Path, Body: body})

	status := http.StatusOK
	if req.Method == http.MethodHead && !f.indexExists {
		status = http.StatusNotFound
	}
	if req.Method == http.MethodPut && !strings.Contains(req.URL.Path, "_doc") {
		f.indexExists = true
	}

	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(`{}`)),
		Request:    req,
	}, nil
}

func (f *fakeTransport) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func TestNewElasticRecorderCreatesMissingIndex(t *testing.T) {
	ft := &fakeTransport{}
	_, err := NewElasticRecorder(context.Background(), ElasticsearchConfig{
		URL:       "http://es.test:9200",
		Index:     "activity",
		Transport: ft,
	})
	require.NoError(t, err)

	reqs := ft.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodHead, reqs[0].Method)
	assert.Equal(t, http.MethodPut, reqs[1].Method)
	assert.Equal(t, "/activity", reqs[1].Path)
	assert.Contains(t, reqs[1].Body, `"kid_id"`)
}

func TestNewElasticRecorderSkipsExistingIndex(t *testing.T) {
	ft := &fakeTransport{indexExists: true}
	_, err := NewElasticRecorder(context.Background(), ElasticsearchConfig{
		URL:       "http://es.test:9200",
		Index:     "activity",
		Transport: ft,
	})
	require.NoError(t, err)
	assert.Len(t, ft.Requests(), 1)
}

func TestNewElasticRecorderValidation(t *testing.T) {
	_, err := NewElasticRecorder(context.Background(), ElasticsearchConfig{Index: "x"})
	assert.Error(t, err)

	_, err = NewElasticRecorder(context.Background(), ElasticsearchConfig{URL: "http://es.test:9200"})
	assert.Error(t, err)
}

func TestRecordIndexesByTransactionID(t *testing.T) {
	ft := &fakeTransport{indexExists: true}
	r, err := NewElasticRecorder(context.Background(), ElasticsearchConfig{
		URL:       "http://es.test:9200",
		Index:     "activity",
		Transport: ft,
	})
	require.NoError(t, err)

	ref := "task-1"
	txs := []models.Transaction{
		{ID: "01TXA", KidID: "kid-1", Type: models.TxCredit, Amount: 10, Category: models.CategoryTask, ReferenceID: &ref, CreatedAt: time.Now()},
		{ID: "01TXB", KidID: "kid-1", Type: models.TxDebit, Amount: 2.5, Category: models.CategoryGoal, CreatedAt: time.Now()},
	}
	require.NoError(t, r.Record(context.Background(), txs))

	reqs := ft.Requests()[1:]
	require.Len(t, reqs, 2)
	assert.Equal(t, "/activity/_doc/01TXA", reqs[0].Path)
	assert.Equal(t, "/activity/_doc/01TXB", reqs[1].Path)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(reqs[0].Body), &doc))
	assert.Equal(t, "kid-1", doc["kid_id"])
	assert.Equal(t, "task-1", doc["reference_id"])
	assert.Equal(t, 10.0, doc["amount"])
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = Nop{}
	assert.NoError(t, r.Record(context.Background(), nil))
}
