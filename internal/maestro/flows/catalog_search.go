package flows

import (
	"concierge/internal/catalog"
	maestro "concierge/internal/maestro/core"
	"concierge/pkg/client"
)

const CatalogSearchFlow = "catalog_search"

func CatalogSearch() *maestro.Flow {
	return maestro.NewFlow(CatalogSearchFlow,
		maestro.NewStep("search_catalog", SearchCatalog),
	)
}

// SearchCatalog needs no session. Filters are all optional.
func SearchCatalog(ctx *maestro.MaestroContext) error {
	q := client.CatalogQuery{
		Category: ctx.ExtractString("category"),
		Location: ctx.ExtractString("location"),
		Text:     ctx.ExtractString("q"),
	}
	if v, ok := ctx.ExtractFloat("min_price"); ok {
		q.MinPrice = &v
	}
	if v, ok := ctx.ExtractFloat("max_price"); ok {
		q.MaxPrice = &v
	}

	items, err := ctx.Client.Catalog.List(ctx.Ctx, q)
	if err != nil {
		return err
	}

	listings := make([]*catalog.Listing, 0, len(items))
	for _, item := range items {
		listings = append(listings, item.Base())
	}
	ctx.Output["items"] = items
	ctx.Output["count"] = len(listings)
	if len(listings) > 0 {
		cheapest := listings[0]
		for _, l := range listings[1:] {
			if l.Price < cheapest.Price {
				cheapest = l
			}
		}
		ctx.Output["cheapest"] = cheapest.ID
	}
	return nil
}
