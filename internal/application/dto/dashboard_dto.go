package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO métricas del tablero del administrador.
type DashboardSummaryDTO struct {
	TotalOrders    int             `json:"total_orders"`
	PendingOrders  int             `json:"pending_orders"`
	ReadyOrders    int             `json:"ready_orders"`
	TotalClients   int             `json:"total_clients"`
	ActiveProducts int             `json:"active_products"`
	Revenue        decimal.Decimal `json:"revenue"`
	RecentOrders   []OrderResponse `json:"recent_orders"`
	DateLabel      string          `json:"date_label"`
}
