package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var embeddedCatalog []byte

type document struct {
	Items []yaml.Node `yaml:"items"`
}

// Provider answers read-only queries over the catalog. Every call waits the
// configured latency first, returning early if ctx is cancelled. Queries
// never fail: absence is an empty slice or a nil Item.
type Provider struct {
	items   []Item
	byID    map[string]Item
	latency time.Duration
}

func NewProvider(latency time.Duration) (*Provider, error) {
	return Load(embeddedCatalog, latency)
}

func Load(data []byte, latency time.Duration) (*Provider, error) {
	var doc document
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	p := &Provider{
		items:   make([]Item, 0, len(doc.Items)),
		byID:    make(map[string]Item, len(doc.Items)),
		latency: latency,
	}
	for i := range doc.Items {
		item, err := decodeItem(&doc.Items[i])
		if err != nil {
			return nil, fmt.Errorf("failed to decode catalog: %w", err)
		}
		id := item.Base().ID
		if _, dup := p.byID[id]; dup {
			return nil, fmt.Errorf("failed to decode catalog: duplicate id %q", id)
		}
		p.items = append(p.items, item)
		p.byID[id] = item
	}
	return p, nil
}

func (p *Provider) GetAll(ctx context.Context) []Item {
	p.wait(ctx)
	return p.filter(func(Item) bool { return true })
}

func (p *Provider) GetByCategory(ctx context.Context, category string) []Item {
	p.wait(ctx)
	return p.filter(func(it Item) bool { return strings.EqualFold(it.Base().Category, category) })
}

func (p *Provider) GetByLocation(ctx context.Context, location string) []Item {
	p.wait(ctx)
	needle := strings.ToLower(location)
	return p.filter(func(it Item) bool { return strings.Contains(strings.ToLower(it.Base().Location), needle) })
}

// GetByPriceRange includes both bounds.
func (p *Provider) GetByPriceRange(ctx context.Context, minPrice, maxPrice float64) []Item {
	p.wait(ctx)
	return p.filter(func(it Item) bool {
		price := it.Base().Price
		return price >= minPrice && price <= maxPrice
	})
}

func (p *Provider) GetByID(ctx context.Context, id string) Item {
	p.wait(ctx)
	return p.byID[id]
}

// Search matches name or location, case-insensitively. An empty query
// matches everything.
func (p *Provider) Search(ctx context.Context, query string) []Item {
	p.wait(ctx)
	needle := strings.ToLower(strings.TrimSpace(query))
	return p.filter(func(it Item) bool {
		base := it.Base()
		return strings.Contains(strings.ToLower(base.Name), needle) ||
			strings.Contains(strings.ToLower(base.Location), needle)
	})
}

// Query combines the HTTP filters. Zero fields match everything.
type Query struct {
	Category string
	Location string
	MinPrice *float64
	MaxPrice *float64
	Text     string
}

func (p *Provider) Find(ctx context.Context, q Query) []Item {
	p.wait(ctx)
	location := strings.ToLower(q.Location)
	text := strings.ToLower(strings.TrimSpace(q.Text))
	return p.filter(func(it Item) bool {
		base := it.Base()
		switch {
		case q.Category != "" && !strings.EqualFold(base.Category, q.Category):
			return false
		case !strings.Contains(strings.ToLower(base.Location), location):
			return false
		case q.MinPrice != nil && base.Price < *q.MinPrice:
			return false
		case q.MaxPrice != nil && base.Price > *q.MaxPrice:
			return false
		}
		return strings.Contains(strings.ToLower(base.Name), text) ||
			strings.Contains(strings.ToLower(base.Location), text)
	})
}

func (p *Provider) filter(keep func(Item) bool) []Item {
	out := make([]Item, 0, len(p.items))
	for _, it := range p.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func (p *Provider) wait(ctx context.Context) {
	if p.latency <= 0 {
		return
	}
	t := time.NewTimer(p.latency)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
