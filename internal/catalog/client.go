// Package catalog wraps the upstream Fake Store style product API. The
// upstream payload carries no inventory or sale data, so the client enriches
// every product deterministically from its ID before anything else sees it.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	domain "github.com/vibe-commerce/api/internal/domain"
)

// ErrRemoteFetch indicates the upstream catalog could not be reached or
// returned an unusable response.
var ErrRemoteFetch = errors.New("catalog: remote fetch failed")

// ErrProductNotFound indicates the requested product does not exist upstream.
var ErrProductNotFound = errors.New("catalog: product not found")

const maxResponseBytes = 4 << 20

// ClientDeps lists the collaborators required to construct a Client.
type ClientDeps struct {
	BaseURL    string
	HTTPClient *http.Client
	CacheTTL   time.Duration
	Clock      func() time.Time
}

// Client fetches and enriches catalog data, caching list responses for a
// short TTL to keep browsing snappy and the upstream quiet.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cacheTTL   time.Duration
	clock      func() time.Time

	mu              sync.Mutex
	products        []domain.Product
	productsFetched time.Time
	categories      []string
	categoriesAt    time.Time
}

// NewClient validates dependencies and constructs a Client.
func NewClient(deps ClientDeps) (*Client, error) {
	if deps.BaseURL == "" {
		return nil, errors.New("catalog client requires a base url")
	}
	if _, err := url.Parse(deps.BaseURL); err != nil {
		return nil, fmt.Errorf("catalog client: invalid base url: %w", err)
	}
	httpClient := deps.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Client{
		baseURL:    deps.BaseURL,
		httpClient: httpClient,
		cacheTTL:   deps.CacheTTL,
		clock:      clock,
	}, nil
}

// upstreamProduct mirrors the wire format of the upstream API.
type upstreamProduct struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

// Products returns the enriched product list, served from cache within the TTL.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	c.mu.Lock()
	if c.products != nil && c.clock().Sub(c.productsFetched) < c.cacheTTL {
		cached := cloneProducts(c.products)
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	var upstream []upstreamProduct
	if err := c.getJSON(ctx, "/products", &upstream); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(upstream))
	for _, p := range upstream {
		products = append(products, enrich(p))
	}

	c.mu.Lock()
	c.products = cloneProducts(products)
	c.productsFetched = c.clock()
	c.mu.Unlock()

	return products, nil
}

// Product returns one enriched product. The list cache is consulted first.
func (c *Client) Product(ctx context.Context, id int) (domain.Product, error) {
	c.mu.Lock()
	if c.products != nil && c.clock().Sub(c.productsFetched) < c.cacheTTL {
		for _, p := range c.products {
			if p.ID == id {
				c.mu.Unlock()
				return p, nil
			}
		}
		c.mu.Unlock()
		return domain.Product{}, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	c.mu.Unlock()

	var upstream upstreamProduct
	err := c.getJSON(ctx, "/products/"+strconv.Itoa(id), &upstream)
	if err != nil {
		return domain.Product{}, err
	}
	// The upstream API answers 200 with an empty body for unknown IDs, which
	// decodes to the zero value.
	if upstream.ID == 0 {
		return domain.Product{}, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	return enrich(upstream), nil
}

// Categories returns the category list, served from cache within the TTL.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	if c.categories != nil && c.clock().Sub(c.categoriesAt) < c.cacheTTL {
		cached := append([]string(nil), c.categories...)
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	var categories []string
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.categories = append([]string(nil), categories...)
	c.categoriesAt = c.clock()
	c.mu.Unlock()

	return categories, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrRemoteFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrRemoteFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrProductNotFound, path)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: upstream status %d", ErrRemoteFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", ErrRemoteFetch, err)
	}
	if len(body) == 0 {
		body = []byte("null")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding body: %v", ErrRemoteFetch, err)
	}
	return nil
}

// enrich derives stock and sale fields from the product ID so every instance
// of the service agrees on inventory without sharing state.
func enrich(p upstreamProduct) domain.Product {
	stock := (p.ID * 7) % 13
	onSale := p.ID%3 == 0

	product := domain.Product{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Rating:      domain.Rating{Rate: p.Rating.Rate, Count: p.Rating.Count},
		Stock:       stock,
		OnSale:      onSale,
	}
	if onSale {
		product.OldPrice = domain.RoundCents(p.Price * 1.25)
	}
	return product
}

func cloneProducts(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out
}
