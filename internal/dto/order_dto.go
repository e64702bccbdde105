package dto

import "github.com/shopspring/decimal"

type CreateOrderRequest struct {
	OSNumber      string          `json:"os_number"      validate:"required,min=1"`
	ClientName    string          `json:"client_name"    validate:"required,min=1"`
	Phone         string          `json:"phone"`
	Store         string          `json:"store"`
	Lab           string          `json:"lab"`
	PaymentStatus string          `json:"payment_status" validate:"omitempty,oneof=Pendente Pago"`
	PaymentMethod string          `json:"payment_method"`
	ExamDate      string          `json:"exam_date"      validate:"omitempty,datetime=2006-01-02"`
	DeliveryDate  string          `json:"delivery_date"  validate:"omitempty,datetime=2006-01-02"`
	TotalValue    decimal.Decimal `json:"total_value"    validate:"required"`
}

type UpdateOrderRequest = CreateOrderRequest

// OrderFilter lists the recognized order listing filters (AND-combined).
type OrderFilter struct {
	Query  string `form:"q"`
	Status string `form:"status"`
	Store  string `form:"store"`
}

type OrderResponse struct {
	ID            string          `json:"id"`
	OSNumber      string          `json:"os_number"`
	ClientName    string          `json:"client_name"`
	Phone         string          `json:"phone"`
	Store         string          `json:"store"`
	Lab           string          `json:"lab"`
	PaymentStatus string          `json:"payment_status"`
	PaymentMethod string          `json:"payment_method"`
	ExamDate      string          `json:"exam_date"`
	DeliveryDate  string          `json:"delivery_date"`
	TotalValue    decimal.Decimal `json:"total_value"`
	CreatedAt     string          `json:"created_at"`
}

// DashboardResponse aggregates the landing-page statistics.
type DashboardResponse struct {
	TotalOrders   int64            `json:"total_orders"`
	TotalRevenue  decimal.Decimal  `json:"total_revenue"`
	PendingOrders int64            `json:"pending_orders"`
	SalesByMonth  []MonthlySales   `json:"sales_by_month"`
	RecentOrders  []OrderResponse  `json:"recent_orders"`
}

type MonthlySales struct {
	Month string          `json:"month"` // YYYY-MM
	Total decimal.Decimal `json:"total"`
}
