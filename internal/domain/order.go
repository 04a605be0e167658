package domain

import "time"

// OrderStatus tracks an order through fulfilment.
type OrderStatus string

const (
	// OrderStatusPlaced is the initial status after checkout.
	OrderStatusPlaced OrderStatus = "PLACED"
	// OrderStatusShipped means the order left the workshop.
	OrderStatusShipped OrderStatus = "SHIPPED"
	// OrderStatusDelivered means the customer received it.
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// OrderStatusCancelled means the order was cancelled.
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ShippingDetails is the address block collected at checkout.
type ShippingDetails struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	WhatsappNumber  string `json:"whatsappNumber" validate:"required,min=8,max=20"`
	AlternateNumber string `json:"alternateNumber,omitempty" validate:"omitempty,min=8,max=20"`
	Address         string `json:"address" validate:"required,min=5,max=500"`
	Pincode         string `json:"pincode" validate:"required,len=6,numeric"`
	State           string `json:"state" validate:"required"`
	District        string `json:"district" validate:"required"`
}

// Order is a placed order as held by the backend.
type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Items     []CartItem      `json:"items"`
	Total     float64         `json:"total"`
	Status    OrderStatus     `json:"status"`
	Shipping  ShippingDetails `json:"shipping"`
	CreatedAt time.Time       `json:"createdAt"`
}
