package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// SearchConfig tunes StartSearchServer.
type SearchConfig struct {
	// Totals maps an application id to the event count reported for it.
	// Missing ids report zero events.
	Totals map[string]int
	// Fail makes every query answer 500, simulating a broken index.
	Fail bool
}

// SearchServer is a fake search index for tests.
type SearchServer struct {
	BaseURL string
	Close   func()

	queries atomic.Int64
}

// Queries reports how many search requests the server handled.
func (s *SearchServer) Queries() int {
	return int(s.queries.Load())
}

// searchRequest mirrors the query document sent by the search client.
type searchRequest struct {
	From  string            `json:"from"`
	To    string            `json:"to"`
	Match map[string]string `json:"match"`
	Size  int               `json:"size"`
}

// StartSearchServer launches an in-memory search index fake. It answers
// POST /{index}/_search with the configured total for the application id
// named in the query's match fields.
func StartSearchServer(t testing.TB, cfg SearchConfig) *SearchServer {
	t.Helper()
	instance := &SearchServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/_search") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if cfg.Fail {
			http.Error(w, "index unavailable", http.StatusInternalServerError)
			return
		}
		instance.queries.Add(1)
		var query searchRequest
		if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		total := cfg.Totals[query.Match["application"]]
		writeJSON(w, map[string]any{
			"meta": map[string]int{"total": total},
			"hits": []any{},
		})
	})

	server := httptest.NewServer(mux)
	instance.BaseURL = server.URL
	instance.Close = server.Close
	t.Cleanup(server.Close)
	return instance
}
