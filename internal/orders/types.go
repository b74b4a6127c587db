package orders

import "time"

// Order statuses. PENDING is the only valid initial state; FULFILLED and
// FAILED are terminal.
const (
	StatusPending   = "PENDING"
	StatusFulfilled = "FULFILLED"
	StatusFailed    = "FAILED"
)

// Order represents the item stored in the Orders DynamoDB table. The same
// shape travels through the delivery queue as JSON, so both tag sets are kept
// in sync. `status` is the canonical attribute name everywhere.
type Order struct {
	OrderID      string     `dynamodbav:"order_id" json:"order_id"` // PK
	CustomerName string     `dynamodbav:"customer_name" json:"customer_name"`
	Items        []any      `dynamodbav:"items" json:"items"` // opaque line items; validated only for non-emptiness
	Status       string     `dynamodbav:"status" json:"status"`
	CreatedAt    time.Time  `dynamodbav:"created_at" json:"created_at"`
	FulfilledAt  *time.Time `dynamodbav:"fulfilled_at,omitempty" json:"fulfilled_at,omitempty"` // set on the transition out of PENDING
}

// Terminal reports whether the status admits no further transition.
func Terminal(status string) bool {
	return status == StatusFulfilled || status == StatusFailed
}
