package detector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestDetectReturnsPeopleInServiceOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Image       string   `json:"image_b64"`
			KnownPeople []string `json:"known_people"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Image == "" {
			t.Fatal("expected image payload")
		}
		if len(req.KnownPeople) != 2 {
			t.Fatalf("expected hints, got %v", req.KnownPeople)
		}
		payload := map[string]any{
			"people": []any{
				map[string]string{"name": "Alice", "confidence": "high"},
				map[string]string{"name": "Bob", "confidence": "medium"},
				map[string]string{"name": "", "confidence": "high"},
				map[string]string{"name": "Carol", "confidence": "bogus"},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "test"})
	people, err := client.Detect(context.Background(), []byte("jpegdata"), []string{"alice", "bob"})
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if len(people) != 3 {
		t.Fatalf("expected 3 people (empty name dropped), got %d", len(people))
	}
	if people[0].Name != "Alice" || people[0].Confidence != ConfidenceHigh {
		t.Fatalf("unexpected first person: %+v", people[0])
	}
	if people[1].Name != "Bob" || people[1].Confidence != ConfidenceMedium {
		t.Fatalf("unexpected second person: %+v", people[1])
	}
	if people[2].Confidence != ConfidenceLow {
		t.Fatalf("unknown confidence should map to low, got %+v", people[2])
	}
}

func TestDetectRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"people": []any{map[string]string{"name": "Alice", "confidence": "high"}},
		})
	}))
	defer server.Close()

	client := NewClient(
		Config{BaseURL: server.URL},
		WithRetryMaxAttempts(2),
		WithSleeper(func(time.Duration) {}),
	)
	people, err := client.Detect(context.Background(), []byte("jpegdata"), nil)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
	if len(people) != 1 || people[0].Name != "Alice" {
		t.Fatalf("unexpected result: %+v", people)
	}
}

func TestDetectDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(
		Config{BaseURL: server.URL},
		WithRetryMaxAttempts(3),
		WithSleeper(func(time.Duration) {}),
	)
	if _, err := client.Detect(context.Background(), []byte("jpegdata"), nil); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected single attempt for 400, got %d", calls.Load())
	}
}

func TestDetectRequiresConfiguration(t *testing.T) {
	client := NewClient(Config{})
	if client.Configured() {
		t.Fatal("expected unconfigured client")
	}
	if _, err := client.Detect(context.Background(), []byte("jpegdata"), nil); err == nil {
		t.Fatal("expected error for missing base url")
	}
}
