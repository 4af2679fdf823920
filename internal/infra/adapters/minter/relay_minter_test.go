//go:build !integration

package minter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRelayMinter_Mint(t *testing.T) {
	ctx := context.Background()

	t.Run("returns tx_ref on success", func(t *testing.T) {
		var gotAuth string
		var gotBody struct {
			Destination string `json:"destination"`
			Quantity    int    `json:"quantity"`
		}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/v1/mints" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"tx_ref":"relay-tx-1","status":"submitted"}`))
		}))
		defer srv.Close()

		m, err := NewRelayMinter(srv.URL, "test-key")
		if err != nil {
			t.Fatal(err)
		}

		ref, err := m.Mint(ctx, "0x1111111111111111111111111111111111111111")
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if ref != "relay-tx-1" {
			t.Errorf("expected relay-tx-1, got %q", ref)
		}
		if gotAuth != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", gotAuth)
		}
		if gotBody.Destination != "0x1111111111111111111111111111111111111111" || gotBody.Quantity != 1 {
			t.Errorf("unexpected mint payload: %+v", gotBody)
		}
	})

	t.Run("fails on non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "insufficient relay balance", http.StatusPaymentRequired)
		}))
		defer srv.Close()

		m, err := NewRelayMinter(srv.URL, "test-key")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := m.Mint(ctx, "0x1111111111111111111111111111111111111111"); err == nil {
			t.Fatal("expected an error, got nil")
		}
	})

	t.Run("fails on missing tx_ref", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"accepted"}`))
		}))
		defer srv.Close()

		m, err := NewRelayMinter(srv.URL, "test-key")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := m.Mint(ctx, "0x1111111111111111111111111111111111111111"); err == nil {
			t.Fatal("expected an error, got nil")
		}
	})
}

func TestNewRelayMinter_Validation(t *testing.T) {
	if _, err := NewRelayMinter("", "key"); err == nil {
		t.Error("expected error for empty base url")
	}
	if _, err := NewRelayMinter("https://relay.example.com", ""); err == nil {
		t.Error("expected error for empty api key")
	}
}

func TestNoopMinter_Mint(t *testing.T) {
	m := NewNoopMinter()
	ref, err := m.Mint(context.Background(), "0x1111111111111111111111111111111111111111")
	if err != nil {
		t.Fatal(err)
	}
	if ref == "" {
		t.Fatal("expected a fabricated tx ref")
	}

	ref2, _ := m.Mint(context.Background(), "0x1111111111111111111111111111111111111111")
	if ref == ref2 {
		t.Error("expected distinct refs per mint")
	}
}
