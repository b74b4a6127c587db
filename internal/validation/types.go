package validation

// CreateOrderRequest is the payload for POST /orders. order_id is synthesized
// server-side at intake; clients never supply one. Items stay opaque here --
// the pipeline validates only non-emptiness, not line-item shape.
type CreateOrderRequest struct {
	CustomerName string `json:"customer_name" validate:"required"`
	Items        []any  `json:"items" validate:"required,min=1"`
}
