package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"medication-manager/internal/platform/httpclient"
)

func TestClient_LoginThenAuthorizedCalls(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1",
			"user":  map[string]any{"id": "u1", "email": "a@x.com"},
		})
	})
	mux.HandleFunc("/medicines/3/take", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 3, "name": "Aspirin", "stock": 9})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	hc, err := httpclient.New(httpclient.Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("httpclient.New: %v", err)
	}
	c := New(hc)
	ctx := context.Background()

	res, err := c.Login(ctx, "a@x.com", "p")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.User.Email != "a@x.com" {
		t.Fatalf("unexpected login response: %#v", res)
	}

	m, err := c.TakeMedicine(ctx, 3)
	if err != nil {
		t.Fatalf("TakeMedicine returned error: %v", err)
	}
	if m.Stock != 9 || m.Name != "Aspirin" {
		t.Fatalf("unexpected medicine: %#v", m)
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	hc, _ := httpclient.New(httpclient.Options{BaseURL: srv.URL})
	_, err := New(hc).Dashboard(context.Background())
	if httpclient.StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
