package dto

import "time"

// ClientRequest alta o edición de un cliente.
type ClientRequest struct {
	BusinessName      string `json:"business_name" validate:"max=200"`
	LegalName         string `json:"legal_name" validate:"max=200"`
	RFC               string `json:"rfc" validate:"omitempty,min=12,max=13"`
	DeliveryAddress   string `json:"delivery_address" validate:"max=500"`
	Phone             string `json:"phone" validate:"max=30"`
	Email             string `json:"email" validate:"omitempty,email"`
	RouteZone         string `json:"route_zone" validate:"max=100"`
	ClientType        string `json:"client_type" validate:"omitempty,oneof=mayorista_a mayorista_b mayorista_c"`
	AssignedPriceList string `json:"assigned_price_list" validate:"omitempty,oneof=price_list_1 price_list_2 price_list_3 price_list_4 price_list_5"`
	IsActive          *bool  `json:"is_active"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID                string    `json:"id"`
	BusinessName      string    `json:"business_name"`
	LegalName         string    `json:"legal_name,omitempty"`
	RFC               string    `json:"rfc,omitempty"`
	DeliveryAddress   string    `json:"delivery_address,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	Email             string    `json:"email,omitempty"`
	RouteZone         string    `json:"route_zone,omitempty"`
	ClientType        string    `json:"client_type"`
	AssignedPriceList string    `json:"assigned_price_list"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
