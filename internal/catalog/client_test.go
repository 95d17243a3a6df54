package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const sampleProducts = `[
  {"id":1,"title":"Backpack","price":109.95,"description":"fits laptops","category":"men's clothing","image":"https://img/1.png","rating":{"rate":3.9,"count":120}},
  {"id":3,"title":"Jacket","price":55.99,"description":"warm","category":"men's clothing","image":"https://img/3.png","rating":{"rate":4.7,"count":500}},
  {"id":13,"title":"Monitor","price":599,"description":"21.5 inch","category":"electronics","image":"https://img/13.png","rating":{"rate":2.9,"count":250}}
]`

func newTestClient(t *testing.T, handler http.Handler, ttl time.Duration, clock func() time.Time) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientDeps{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		CacheTTL:   ttl,
		Clock:      clock,
	})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client
}

func TestProductsEnrichesUpstreamData(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(sampleProducts))
	}), time.Minute, nil)

	products, err := client.Products(context.Background())
	if err != nil {
		t.Fatalf("Products returned error: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}

	backpack := products[0]
	if backpack.Stock != 7 {
		t.Errorf("expected stock (1*7)%%13=7, got %d", backpack.Stock)
	}
	if backpack.OnSale {
		t.Error("product 1 must not be on sale")
	}

	jacket := products[1]
	if jacket.Stock != 8 {
		t.Errorf("expected stock (3*7)%%13=8, got %d", jacket.Stock)
	}
	if !jacket.OnSale || jacket.OldPrice != 69.99 {
		t.Errorf("expected sale with old price 69.99, got onSale=%v oldPrice=%v", jacket.OnSale, jacket.OldPrice)
	}

	monitor := products[2]
	if monitor.Stock != 0 {
		t.Errorf("expected stock (13*7)%%13=0, got %d", monitor.Stock)
	}
	if monitor.Rating.Rate != 2.9 || monitor.Rating.Count != 250 {
		t.Errorf("rating not preserved: %+v", monitor.Rating)
	}
}

func TestProductsServesFromCacheWithinTTL(t *testing.T) {
	var calls atomic.Int32
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(sampleProducts))
	}), 5*time.Minute, clock)

	ctx := context.Background()
	if _, err := client.Products(ctx); err != nil {
		t.Fatalf("Products returned error: %v", err)
	}
	if _, err := client.Products(ctx); err != nil {
		t.Fatalf("Products returned error: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", calls.Load())
	}

	now = now.Add(6 * time.Minute)
	if _, err := client.Products(ctx); err != nil {
		t.Fatalf("Products returned error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected refetch after ttl, got %d calls", calls.Load())
	}
}

func TestProductUsesListCache(t *testing.T) {
	var productCalls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products":
			w.Write([]byte(sampleProducts))
		case "/products/1":
			productCalls.Add(1)
			w.Write([]byte(`{"id":1,"title":"Backpack","price":109.95,"rating":{"rate":3.9,"count":120}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}), time.Minute, nil)

	ctx := context.Background()
	if _, err := client.Products(ctx); err != nil {
		t.Fatalf("Products returned error: %v", err)
	}

	product, err := client.Product(ctx, 1)
	if err != nil {
		t.Fatalf("Product returned error: %v", err)
	}
	if product.Title != "Backpack" || product.Stock != 7 {
		t.Fatalf("unexpected product: %+v", product)
	}
	if productCalls.Load() != 0 {
		t.Fatal("expected product lookup to hit the list cache")
	}
}

func TestProductNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Unknown IDs answer 200 with an empty body upstream.
		w.WriteHeader(http.StatusOK)
	}), 0, nil)

	_, err := client.Product(context.Background(), 999)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductsRemoteFailure(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, tc.handler, 0, nil)
			_, err := client.Products(context.Background())
			if !errors.Is(err, ErrRemoteFetch) {
				t.Fatalf("expected ErrRemoteFetch, got %v", err)
			}
		})
	}
}

func TestCategoriesCachesList(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/categories" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		calls.Add(1)
		w.Write([]byte(`["electronics","jewelery","men's clothing","women's clothing"]`))
	}), time.Minute, nil)

	ctx := context.Background()
	first, err := client.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories returned error: %v", err)
	}
	if len(first) != 4 || first[0] != "electronics" {
		t.Fatalf("unexpected categories: %v", first)
	}
	if _, err := client.Categories(ctx); err != nil {
		t.Fatalf("Categories returned error: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", calls.Load())
	}
}
