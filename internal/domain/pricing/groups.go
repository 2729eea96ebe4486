package pricing

import (
	"sort"

	"github.com/jhoicas/cremeria-api/internal/domain/entity"
)

// ProductGroup maestro con sus variantes ordenadas por VariantOrder.
type ProductGroup struct {
	Master   *entity.Product
	Variants []Quote
}

// GroupVariants agrupa variantes por id de maestro. Orden estable por
// VariantOrder; empates conservan el orden de entrada.
func GroupVariants(all []*entity.Product, list entity.PriceList) map[string][]Quote {
	groups := make(map[string][]Quote)
	for _, p := range all {
		if !p.IsVariant() {
			continue
		}
		groups[p.MasterProductID] = append(groups[p.MasterProductID], QuoteFor(p, list))
	}
	for id := range groups {
		vs := groups[id]
		sort.SliceStable(vs, func(i, j int) bool {
			return vs[i].Product.VariantOrder < vs[j].Product.VariantOrder
		})
	}
	return groups
}

// DisplayProducts maestros y productos sueltos; las variantes se muestran
// dentro de su grupo.
func DisplayProducts(all []*entity.Product) []*entity.Product {
	out := make([]*entity.Product, 0, len(all))
	for _, p := range all {
		if p.IsMasterProduct || !p.IsVariant() {
			out = append(out, p)
		}
	}
	return out
}

// BuildGroups arma los ProductGroup de cada maestro presente en el catálogo.
func BuildGroups(all []*entity.Product, list entity.PriceList) []ProductGroup {
	variants := GroupVariants(all, list)
	var out []ProductGroup
	for _, p := range all {
		if p.IsMasterProduct {
			out = append(out, ProductGroup{Master: p, Variants: variants[p.ID]})
		}
	}
	return out
}
