package entity

import "time"

// Client cliente mayorista de la cremería.
type Client struct {
	ID                string
	BusinessName      string
	LegalName         string
	RFC               string
	DeliveryAddress   string
	Phone             string
	Email             string
	RouteZone         string
	ClientType        ClientType
	AssignedPriceList PriceList
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PriceListOrDefault lista asignada o price_list_1 si no es válida.
func (c *Client) PriceListOrDefault() PriceList {
	if c == nil || !c.AssignedPriceList.Valid() {
		return PriceList1
	}
	return c.AssignedPriceList
}
