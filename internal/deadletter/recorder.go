package deadletter

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/order-fulfillment-pipeline/internal/metrics"
)

// Recorder consumes the dead-letter queue and captures every failed payload
// for operator inspection. Extraction problems (unparseable body, missing
// fields) never propagate back to the queue; only store failures do, so the
// dead-letter message itself gets redelivered until the capture sticks.
type Recorder struct {
	store   *Store
	metrics *metrics.Emitter
}

// NewRecorder returns a Recorder with its store injected.
func NewRecorder(store *Store, emitter *metrics.Emitter) *Recorder {
	return &Recorder{store: store, metrics: emitter}
}

// Record captures one dead-lettered payload verbatim, with a best-effort
// order id.
func (r *Recorder) Record(ctx context.Context, body string) error {
	orderID := extractOrderID(body)

	rec := FailedOrderRecord{
		OrderID:         orderID,
		OriginalPayload: body,
	}
	if err := r.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("store failed-order record: %w", err)
	}

	log.Printf("[dlq] recorded failed order=%s (%d bytes)", orderID, len(body))
	r.metrics.Count(ctx, metrics.DeadLettersRecorded)
	return nil
}

// HandleSQSEvent records every message in the batch. A store failure stops
// the batch so the remaining messages are redelivered along with the failed
// one; duplicate records from that redelivery are accepted.
func (r *Recorder) HandleSQSEvent(ctx context.Context, event events.SQSEvent) error {
	log.Printf("[dlq] received %d messages", len(event.Records))
	for _, rec := range event.Records {
		if err := r.Record(ctx, rec.Body); err != nil {
			return err
		}
	}
	return nil
}

// extractOrderID digs the order id out of a dead-lettered payload: top-level
// order_id first, then one nested under the producer's "order" key. Anything
// unrecoverable gets the UNKNOWN sentinel.
func extractOrderID(body string) string {
	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return UnknownOrderID
	}
	if id, ok := payload["order_id"].(string); ok && id != "" {
		return id
	}
	if order, ok := payload["order"].(map[string]any); ok {
		if id, ok := order["order_id"].(string); ok && id != "" {
			return id
		}
	}
	return UnknownOrderID
}
