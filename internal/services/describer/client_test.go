package describer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestDescribeReturnsTrimmedText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Image string `json:"image_b64"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Image == "" {
			t.Fatal("expected image payload")
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"description": "  kids at the beach \n"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	text, err := client.Describe(context.Background(), []byte("jpegdata"))
	if err != nil {
		t.Fatalf("Describe returned error: %v", err)
	}
	if text != "kids at the beach" {
		t.Fatalf("unexpected description: %q", text)
	}
}

func TestDescribeRetriesOnceOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"description": "sunset over hills"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, WithSleeper(func(time.Duration) {}))
	text, err := client.Describe(context.Background(), []byte("jpegdata"))
	if err != nil {
		t.Fatalf("Describe returned error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
	if text != "sunset over hills" {
		t.Fatalf("unexpected description: %q", text)
	}
}

func TestDescribeSurfacesEmptyDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"description": "   "})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	if _, err := client.Describe(context.Background(), []byte("jpegdata")); err == nil {
		t.Fatal("expected error for empty description")
	}
}
