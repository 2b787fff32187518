package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"concierge/internal/catalog"

	"github.com/goccy/go-json"
)

type CatalogQuery struct {
	Category string
	Location string
	MinPrice *float64
	MaxPrice *float64
	Text     string
}

func (q CatalogQuery) encode() string {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Location != "" {
		v.Set("location", q.Location)
	}
	if q.MinPrice != nil {
		v.Set("min_price", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		v.Set("max_price", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	if q.Text != "" {
		v.Set("q", q.Text)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

type CatalogClient struct {
	httpClient *HttpClient
}

func NewCatalogClient(httpClient *HttpClient) *CatalogClient {
	return &CatalogClient{httpClient: httpClient}
}

func (c *CatalogClient) List(ctx context.Context, q CatalogQuery) ([]catalog.Item, error) {
	resp, err := c.httpClient.Do(ctx, http.MethodGet, "/api/catalog"+q.encode(), "", nil)
	if err != nil {
		return nil, err
	}
	var body struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := decode(resp, &body); err != nil {
		return nil, err
	}

	items := make([]catalog.Item, 0, len(body.Items))
	for _, raw := range body.Items {
		item, err := catalog.UnmarshalItem(raw)
		if err != nil {
			return nil, &TransportError{Op: "decode catalog item", Err: err}
		}
		items = append(items, item)
	}
	return items, nil
}

// Get returns nil without error when the item does not exist.
func (c *CatalogClient) Get(ctx context.Context, id string) (catalog.Item, error) {
	resp, err := c.httpClient.Do(ctx, http.MethodGet, "/api/catalog/items/"+url.PathEscape(id), "", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := decode(resp, nil); err != nil {
		return nil, err
	}
	item, err := catalog.UnmarshalItem(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "decode catalog item", Err: err}
	}
	return item, nil
}
