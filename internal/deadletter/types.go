package deadletter

import "time"

// UnknownOrderID is the sentinel used when no order id can be recovered from
// a dead-lettered payload.
const UnknownOrderID = "UNKNOWN"

// FailedOrderRecord is the shape persisted in the failed-orders DynamoDB
// table, keyed by (order_id, recorded_at) so repeated captures append rather
// than overwrite. Records are never updated or deleted by this system; the
// table exists for operator inspection. A record may exist with no matching
// order (the payload can be dead-lettered before any order was stored).
type FailedOrderRecord struct {
	OrderID         string    `dynamodbav:"order_id"`         // PK, best-effort
	RecordedAt      time.Time `dynamodbav:"recorded_at"`      // SK
	OriginalPayload string    `dynamodbav:"original_payload"` // verbatim message body
}
