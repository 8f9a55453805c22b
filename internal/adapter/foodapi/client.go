// Package foodapi is a client for the external food-composition service.
package foodapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"nutritrack/internal/domain"

	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the public food-composition API.
const DefaultBaseURL = "https://nutrimonapi.azurewebsites.net/api"

// ErrUpstream is returned for non-2xx responses and unparsable bodies.
var ErrUpstream = errors.New("food api")

// Client implements domain.FoodLookup over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	observe func(error)
}

var _ domain.FoodLookup = (*Client)(nil)

// New creates a client. A zero timeout defaults to ten seconds.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// OnRequest registers fn to be called with the outcome of every upstream
// request.
func (c *Client) OnRequest(fn func(error)) {
	c.observe = fn
}

// Search finds food items whose name matches productName.
func (c *Client) Search(ctx context.Context, productName string) ([]domain.FoodItem, error) {
	body, err := c.get(ctx, "/FoodItems/BySearch/"+url.PathEscape(productName))
	if err != nil {
		return nil, err
	}
	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return nil, fmt.Errorf("%w: search: expected array", ErrUpstream)
	}
	out := []domain.FoodItem{}
	res.ForEach(func(_, v gjson.Result) bool {
		out = append(out, domain.FoodItem{
			FoodID:   v.Get("foodID").Int(),
			FoodName: v.Get("foodName").String(),
		})
		return true
	})
	return out, nil
}

// CompSpecs returns the values of one nutrient of a food item.
func (c *Client) CompSpecs(ctx context.Context, itemID int64, sortKey int) ([]domain.CompSpec, error) {
	body, err := c.get(ctx, fmt.Sprintf("/FoodCompSpecs/ByItem/%d/BySortKey/%d", itemID, sortKey))
	if err != nil {
		return nil, err
	}
	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return nil, fmt.Errorf("%w: comp specs: expected array", ErrUpstream)
	}
	out := []domain.CompSpec{}
	res.ForEach(func(_, v gjson.Result) bool {
		out = append(out, domain.CompSpec{
			FoodID:  itemID,
			SortKey: sortKey,
			Name:    v.Get("parameterName").String(),
			ResVal:  number(v.Get("resVal")),
		})
		return true
	})
	return out, nil
}

// number reads a numeric field that may be sent as a string with a
// decimal comma.
func number(r gjson.Result) float64 {
	if r.Type == gjson.Number {
		return r.Float()
	}
	s := strings.ReplaceAll(strings.TrimSpace(r.String()), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func (c *Client) get(ctx context.Context, path string) (body []byte, err error) {
	if c.observe != nil {
		defer func() { c.observe(err) }()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "text/plain")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err = io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUpstream, path, resp.StatusCode)
	}
	return body, nil
}
