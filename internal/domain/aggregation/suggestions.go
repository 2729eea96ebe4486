package aggregation

import (
	"sort"

	"github.com/jhoicas/cremeria-api/internal/domain/entity"
)

// MaxSuggestions máximo de productos por lista.
const MaxSuggestions = 4

// Suggestions productos sugeridos: frecuentes del cliente y ofertas vigentes.
type Suggestions struct {
	Frequent []*entity.Product
	Offers   []*entity.Product
}

// Suggest calcula ambas listas. history son las líneas de pedidos previos no
// cancelados; catalog son los productos activos; cart los ids ya en el carrito.
func Suggest(history []*entity.OrderLine, catalog []*entity.Product, cart []string) Suggestions {
	inCart := make(map[string]bool, len(cart))
	for _, id := range cart {
		inCart[id] = true
	}
	byID := make(map[string]*entity.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	counts := make(map[string]int)
	var seen []string
	for _, l := range history {
		if counts[l.ProductID] == 0 {
			seen = append(seen, l.ProductID)
		}
		counts[l.ProductID]++
	}
	sort.SliceStable(seen, func(i, j int) bool { return counts[seen[i]] > counts[seen[j]] })

	var out Suggestions
	for _, id := range seen {
		if len(out.Frequent) == MaxSuggestions {
			break
		}
		p, ok := byID[id]
		if !ok || inCart[id] || !p.IsActive || p.IsMasterProduct {
			continue
		}
		out.Frequent = append(out.Frequent, p)
	}
	for _, p := range catalog {
		if len(out.Offers) == MaxSuggestions {
			break
		}
		if p.IsActive && p.HasOffer() && !p.IsMasterProduct && !inCart[p.ID] {
			out.Offers = append(out.Offers, p)
		}
	}
	return out
}
