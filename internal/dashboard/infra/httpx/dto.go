package httpx

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/printhub/internal/dashboard/app"
	"github.com/jcmexdev/printhub/internal/dashboard/core/cart"
	"github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/printhub/internal/dashboard/core/pipeline"
	"github.com/jcmexdev/printhub/internal/dashboard/core/revenue"
	"github.com/jcmexdev/printhub/internal/dashboard/translog"
)

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId"`
}

type QuantityRequest struct {
	Delta int `json:"delta"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type RefreshResponse struct {
	Orders      int       `json:"orders"`
	Custom      int       `json:"custom"`
	Store       int       `json:"store"`
	Skipped     int       `json:"skippedUsers"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

type OrderResponse struct {
	Kind           string          `json:"kind"`
	OrderKey       string          `json:"orderKey"`
	OrderID        string          `json:"orderId"`
	UserID         string          `json:"userId"`
	UserName       string          `json:"userName"`
	UserPhone      string          `json:"userPhone"`
	UserEmail      string          `json:"userEmail"`
	OrderTimestamp *time.Time      `json:"orderTimestamp"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
	Status         string          `json:"status"`
	Category       string          `json:"category"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	FileSummary    string          `json:"fileSummary"`
	AllowedStatus  []string        `json:"allowedStatuses"`

	// custom orders
	Files          []FileResponse   `json:"files,omitempty"`
	DiscountAmount *decimal.Decimal `json:"discountAmount,omitempty"`

	// store orders
	Items             []ProductItemResponse `json:"items,omitempty"`
	CustomizationCost *decimal.Decimal      `json:"customizationCost,omitempty"`
	Savings           *decimal.Decimal      `json:"savings,omitempty"`
}

type FileResponse struct {
	FileName      string            `json:"fileName"`
	Quantity      int               `json:"quantity"`
	UnitPrice     decimal.Decimal   `json:"unitPrice"`
	LineTotal     decimal.Decimal   `json:"lineTotal"`
	PrintSettings map[string]string `json:"printSettings,omitempty"`
}

type ProductItemResponse struct {
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
	Off           decimal.Decimal `json:"off"`
	Customization map[string]any  `json:"customization,omitempty"`
}

type OrdersResponse struct {
	Orders        []OrderResponse `json:"orders"`
	FilteredCount int             `json:"filteredCount"`
	TotalCount    int             `json:"totalCount"`
	Page          int             `json:"page"`
	HasMore       bool            `json:"hasMore"`
}

type SummaryResponse struct {
	GrandTotal      decimal.Decimal            `json:"grandTotal"`
	TotalByKind     map[string]decimal.Decimal `json:"totalByKind"`
	CountByKind     map[string]int             `json:"countByKind"`
	CountByCategory map[string]int             `json:"countByCategory"`
	CountByStatus   map[string]int             `json:"countByStatus"`
	Orders          int                        `json:"orders"`
}

type HistoryEntryResponse struct {
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	Outcome    string    `json:"outcome"`
	Message    string    `json:"message,omitempty"`
	TraceID    string    `json:"traceId,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}

type CartLineResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"productId"`
	ModelName     string          `json:"modelName"`
	Image         string          `json:"image,omitempty"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Off           decimal.Decimal `json:"off"`
	Quantity      int             `json:"quantity"`
	AddedAt       *time.Time      `json:"addedAt,omitempty"`
	Selected      bool            `json:"selected"`
}

type CartResponse struct {
	Phone         string             `json:"phone"`
	Items         []CartLineResponse `json:"items"`
	SelectedCount int                `json:"selectedCount"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Savings       decimal.Decimal    `json:"savings"`
	Total         decimal.Decimal    `json:"total"`
}

type CheckoutResponse struct {
	Items    []CartLineResponse `json:"items"`
	Subtotal decimal.Decimal    `json:"subtotal"`
	Savings  decimal.Decimal    `json:"savings"`
	Total    decimal.Decimal    `json:"total"`
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func mapOrder(r entity.OrderRecord) OrderResponse {
	allowed := entity.StatusesFor(r.Kind)
	out := OrderResponse{
		Kind:           string(r.Kind),
		OrderKey:       r.OrderKey,
		OrderID:        r.OrderID,
		UserID:         r.UserID,
		UserName:       r.UserName,
		UserPhone:      r.UserPhone,
		UserEmail:      r.UserEmail,
		OrderTimestamp: optionalTime(r.OrderTimestamp),
		UpdatedAt:      optionalTime(r.UpdatedAt),
		Status:         string(r.Status),
		Category:       string(r.Category()),
		TotalPrice:     r.TotalPrice,
		DeliveryCharge: r.DeliveryCharge,
		FileSummary:    r.FileSummary(),
		AllowedStatus:  make([]string, len(allowed)),
	}
	for i, s := range allowed {
		out.AllowedStatus[i] = string(s)
	}

	if c := r.Custom; c != nil {
		discount := c.DiscountAmount
		out.DiscountAmount = &discount
		out.Files = make([]FileResponse, len(c.Files))
		for i, f := range c.Files {
			out.Files[i] = FileResponse{
				FileName:      f.FileName,
				Quantity:      f.Quantity,
				UnitPrice:     f.UnitPrice,
				LineTotal:     f.LineTotal,
				PrintSettings: f.PrintSettings,
			}
		}
	}
	if s := r.Store; s != nil {
		custom, savings := s.CustomizationCost, s.Savings
		out.CustomizationCost = &custom
		out.Savings = &savings
		out.Items = make([]ProductItemResponse, len(s.Items))
		for i, it := range s.Items {
			out.Items[i] = ProductItemResponse{
				Name:          it.Name,
				Quantity:      it.Quantity,
				UnitPrice:     it.UnitPrice,
				LineTotal:     it.LineTotal,
				Off:           it.Off,
				Customization: it.Customization,
			}
		}
	}
	return out
}

func mapOrders(res pipeline.Result) OrdersResponse {
	out := OrdersResponse{
		Orders:        make([]OrderResponse, len(res.Visible)),
		FilteredCount: res.FilteredCount,
		TotalCount:    res.TotalCount,
		Page:          res.Page,
		HasMore:       res.HasMore,
	}
	for i, r := range res.Visible {
		out.Orders[i] = mapOrder(r)
	}
	return out
}

func mapSummary(s revenue.Summary) SummaryResponse {
	out := SummaryResponse{
		GrandTotal:      s.GrandTotal,
		TotalByKind:     make(map[string]decimal.Decimal, len(s.TotalByKind)),
		CountByKind:     make(map[string]int, len(s.CountByKind)),
		CountByCategory: make(map[string]int, len(s.CountByCategory)),
		CountByStatus:   make(map[string]int, len(s.CountByStatus)),
		Orders:          s.Orders,
	}
	for k, v := range s.TotalByKind {
		out.TotalByKind[string(k)] = v
	}
	for k, v := range s.CountByKind {
		out.CountByKind[string(k)] = v
	}
	for k, v := range s.CountByCategory {
		out.CountByCategory[string(k)] = v
	}
	for k, v := range s.CountByStatus {
		out.CountByStatus[string(k)] = v
	}
	return out
}

func mapHistory(entries []translog.Entry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntryResponse{
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			Outcome:    string(e.Outcome),
			Message:    e.Message,
			TraceID:    e.TraceID,
			RecordedAt: e.RecordedAt,
		}
	}
	return out
}

func mapCartLine(it entity.CartLineItem, selected bool) CartLineResponse {
	return CartLineResponse{
		ID:            it.ID,
		ProductID:     it.ProductID,
		ModelName:     it.ModelName,
		Image:         it.Image,
		Price:         it.Price,
		OriginalPrice: it.OriginalPrice,
		Off:           it.Off,
		Quantity:      it.Quantity,
		AddedAt:       optionalTime(it.AddedAt),
		Selected:      selected,
	}
}

func mapCart(v app.CartView) CartResponse {
	out := CartResponse{
		Phone:         v.Phone,
		Items:         make([]CartLineResponse, len(v.Lines)),
		SelectedCount: v.SelectedCount,
		Subtotal:      v.Subtotal,
		Savings:       v.Savings,
		Total:         v.Total,
	}
	for i, l := range v.Lines {
		out.Items[i] = mapCartLine(l.CartLineItem, l.Selected)
	}
	return out
}

func mapCheckout(c cart.Checkout) CheckoutResponse {
	out := CheckoutResponse{
		Items:    make([]CartLineResponse, len(c.Items)),
		Subtotal: c.Subtotal,
		Savings:  c.Savings,
		Total:    c.Total,
	}
	for i, it := range c.Items {
		out.Items[i] = mapCartLine(it, true)
	}
	return out
}
