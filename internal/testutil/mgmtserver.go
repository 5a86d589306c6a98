package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
)

// FixtureToken is the bearer token accepted by fake management servers.
const FixtureToken = "test-token"

// App is an application fixture served by the fake management server.
type App struct {
	ID          string
	Name        string
	Description string
	ClientID    string
}

// Sub is a subscription fixture attached to an App.
type Sub struct {
	ID     string
	API    string
	Plan   string
	Status string
}

// ManagementConfig tunes StartManagementServer.
type ManagementConfig struct {
	Apps []App
	// Subscriptions maps application ids to their subscriptions.
	Subscriptions map[string][]Sub
	// Username and Password accepted by the login endpoint. Defaults
	// to admin/admin.
	Username string
	Password string
	// HangList makes listing requests block until the caller gives up,
	// simulating a management service that never answers.
	HangList bool
	// FailList makes listing requests answer 500.
	FailList bool
}

// ManagementServer is a fake management service for tests.
type ManagementServer struct {
	BaseURL string
	Close   func()

	logins    atomic.Int64
	listPages atomic.Int64
}

// Logins reports how many login exchanges the server handled.
func (s *ManagementServer) Logins() int {
	return int(s.logins.Load())
}

// ListPages reports how many listing pages the server handled.
func (s *ManagementServer) ListPages() int {
	return int(s.listPages.Load())
}

// StartManagementServer launches an in-memory management service fake.
func StartManagementServer(t testing.TB, cfg ManagementConfig) *ManagementServer {
	t.Helper()
	if cfg.Username == "" {
		cfg.Username = "admin"
	}
	if cfg.Password == "" {
		cfg.Password = "admin"
	}

	instance := &ManagementServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/user/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		instance.logins.Add(1)
		user, password, ok := r.BasicAuth()
		if !ok || user != cfg.Username || password != cfg.Password {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]string{"token": FixtureToken})
	})
	mux.HandleFunc("/applications", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		if cfg.HangList {
			<-r.Context().Done()
			return
		}
		if cfg.FailList {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		instance.listPages.Add(1)
		writeJSON(w, listPage(cfg.Apps, r))
	})
	mux.HandleFunc("/applications/", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, "/applications/")
		if id, ok := strings.CutSuffix(rest, "/subscriptions"); ok {
			serveSubscriptions(w, cfg, id)
			return
		}
		serveApplication(w, r, cfg, rest)
	})

	server := httptest.NewServer(mux)
	instance.BaseURL = server.URL
	instance.Close = server.Close
	t.Cleanup(server.Close)
	return instance
}

// authorized enforces the fixture bearer token on API endpoints.
func authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer "+FixtureToken {
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}
	return true
}

// listPage applies the query filter and pagination parameters of a
// listing request to the fixture set.
func listPage(apps []App, r *http.Request) map[string]any {
	query := strings.ToLower(r.URL.Query().Get("query"))
	matched := make([]App, 0, len(apps))
	for _, app := range apps {
		if query == "" || strings.Contains(strings.ToLower(app.Name), query) {
			matched = append(matched, app)
		}
	}

	size := 20
	if value, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && value > 0 {
		size = value
	}
	page := 1
	if value, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && value > 0 {
		page = value
	}
	totalPages := (len(matched) + size - 1) / size

	start := (page - 1) * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	data := make([]map[string]any, 0, end-start)
	for _, app := range matched[start:end] {
		data = append(data, appJSON(app))
	}
	return map[string]any{
		"data": data,
		"page": map[string]int{
			"current":        page,
			"size":           size,
			"total_pages":    totalPages,
			"total_elements": len(matched),
		},
	}
}

func serveApplication(w http.ResponseWriter, r *http.Request, cfg ManagementConfig, id string) {
	for _, app := range cfg.Apps {
		if app.ID != id {
			continue
		}
		if r.Method == http.MethodPut {
			var updated map[string]any
			if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			updated["id"] = app.ID
			writeJSON(w, updated)
			return
		}
		writeJSON(w, appJSON(app))
		return
	}
	http.Error(w, "application not found", http.StatusNotFound)
}

func serveSubscriptions(w http.ResponseWriter, cfg ManagementConfig, id string) {
	subs := cfg.Subscriptions[id]
	payload := make([]map[string]string, 0, len(subs))
	for _, sub := range subs {
		payload = append(payload, map[string]string{
			"id":     sub.ID,
			"api":    sub.API,
			"plan":   sub.Plan,
			"status": sub.Status,
		})
	}
	writeJSON(w, payload)
}

func appJSON(app App) map[string]any {
	payload := map[string]any{
		"id":          app.ID,
		"name":        app.Name,
		"description": app.Description,
	}
	if app.ClientID != "" {
		payload["settings"] = map[string]any{
			"app": map[string]string{"client_id": app.ClientID},
		}
	}
	return payload
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
