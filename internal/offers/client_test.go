package offers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"product-aggregator/internal/model"
	"product-aggregator/prometheus"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	prometheus.InitMetrics("offers_test")
	m.Run()
}

func newClient(baseURL, token string) *Client {
	return NewClient(baseURL, token, 2*time.Second, zap.NewNop())
}

func TestEnsureTokenProvisionsOnce(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		calls++
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"access_token": "tok-123"}`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, "")
	if err := c.EnsureToken(context.Background()); err != nil {
		t.Fatalf("ensure token: %v", err)
	}
	if c.token != "tok-123" {
		t.Fatalf("expected cached token, got %q", c.token)
	}
	if err := c.EnsureToken(context.Background()); err != nil {
		t.Fatalf("second ensure token: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single auth call, got %d", calls)
	}
}

func TestEnsureTokenSkipsWhenPreProvisioned(t *testing.T) {
	c := newClient("http://127.0.0.1:0", "given")
	if err := c.EnsureToken(context.Background()); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestEnsureTokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newClient(srv.URL, "")
	if err := c.EnsureToken(context.Background()); err == nil {
		t.Fatal("expected error on auth failure")
	}
}

func TestRegisterSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/register" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Bearer"); got != "tok" {
			t.Errorf("expected bearer header, got %q", got)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := newClient(srv.URL, "tok")
	err := c.Register(context.Background(), model.Product{ID: 1, Name: "Widget", Description: "A widget"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
}

func TestRegisterNonCreatedStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newClient(srv.URL, "tok")
	if err := c.Register(context.Background(), model.Product{ID: 1}); err == nil {
		t.Fatal("expected error: only 201 counts as registered")
	}
}

func TestFetchOffersSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/7/offers" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id": 1, "price": 10, "items_in_stock": 5}, {"id": 2, "price": 12, "items_in_stock": 0}]`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, "tok")
	snaps := c.FetchOffers(context.Background(), 7)
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[0].ID != 1 || snaps[0].Price != 10 || snaps[0].ItemsInStock != 5 {
		t.Fatalf("unexpected snapshot: %+v", snaps[0])
	}
}

func TestFetchOffersRemoteUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newClient(srv.URL, "tok")
	if snaps := c.FetchOffers(context.Background(), 7); snaps != nil {
		t.Fatalf("expected nil on 500, got %+v", snaps)
	}
}

func TestFetchOffersMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, "tok")
	if snaps := c.FetchOffers(context.Background(), 7); snaps != nil {
		t.Fatalf("expected nil on malformed body, got %+v", snaps)
	}
}

func TestFetchOffersTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", 20*time.Millisecond, zap.NewNop())
	if snaps := c.FetchOffers(context.Background(), 7); snaps != nil {
		t.Fatalf("expected nil on timeout, got %+v", snaps)
	}
}
