package dto

import "github.com/shopspring/decimal"

// MovementOverview entradas vs salidas históricas.
type MovementOverview struct {
	Inward  decimal.Decimal `json:"inward"`
	Outward decimal.Decimal `json:"outward"`
}

// DashboardSummaryResponse tarjetas, gráficos y tabla del dashboard.
type DashboardSummaryResponse struct {
	TotalProducts        int                     `json:"total_products"`
	LowStockCount        int                     `json:"low_stock_count"`
	TotalQuantity        decimal.Decimal         `json:"total_quantity"`
	Movement             MovementOverview        `json:"movement"`
	LocationDistribution []LocationStockResponse `json:"location_distribution"`
	Products             []ProductStockResponse  `json:"products"`
}
