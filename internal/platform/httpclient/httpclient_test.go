package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDoJSON_SendsTokenAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer token, got %q", got)
		}
		var in map[string]int
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"stock": in["quantity"] + 1})
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, Token: "tok"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	var out map[string]int
	if err := c.DoJSON(context.Background(), http.MethodPost, "medicines/1/restock", map[string]int{"quantity": 4}, &out); err != nil {
		t.Fatalf("DoJSON returned error: %v", err)
	}
	if out["stock"] != 5 {
		t.Fatalf("expected stock 5, got %#v", out)
	}
}

func TestDoJSON_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "medicine not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c, _ := New(Options{BaseURL: srv.URL})
	err := c.DoJSON(context.Background(), http.MethodGet, "/medicines/9", nil, nil)
	if StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected 404 HTTPError, got %v", err)
	}
}

func TestNew_RelativePathNeedsBaseURL(t *testing.T) {
	c, _ := New(Options{})
	if err := c.DoJSON(context.Background(), http.MethodGet, "/health", nil, nil); err == nil {
		t.Fatalf("expected error without BaseURL")
	}
	if _, err := New(Options{BaseURL: "::bad"}); err == nil {
		t.Fatalf("expected invalid base url error")
	}
}
