package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/imrishuroy/order-fulfillment-pipeline/internal/aws"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/orders"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/validation"
)

// ErrorKind separates the two caller-visible failure classes of Submit.
type ErrorKind int

const (
	// ErrorValidation: client-caused, non-retryable. Nothing was stored or
	// enqueued.
	ErrorValidation ErrorKind = iota
	// ErrorInfrastructure: store or queue unavailable. The order was not
	// accepted and no partial state remains; the client may retry.
	ErrorInfrastructure
)

// Error is the failure result of Submit.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Receipt is the success result of Submit. TrackingReference is the SQS
// message id of the enqueued fulfillment message.
type Receipt struct {
	OrderID           string `json:"order_id"`
	TrackingReference string `json:"tracking_reference"`
}

// Envelope wraps an order for the delivery queue. The consumer side
// (fulfillment worker, dead-letter recorder) unwraps the same shape.
type Envelope struct {
	Order orders.Order `json:"order"`
}

// Orchestrator drives a submission through Validate -> Store -> Enqueue.
type Orchestrator struct {
	store     *orders.Store
	publisher *aws.Publisher
	newID     func() string
	nowFunc   func() time.Time
}

// New returns an Orchestrator with injected store and publisher.
func New(store *orders.Store, publisher *aws.Publisher) *Orchestrator {
	return &Orchestrator{
		store:     store,
		publisher: publisher,
		newID:     uuid.NewString,
		nowFunc:   time.Now,
	}
}

// Submit accepts a raw JSON order request, assigns a fresh order id and runs
// the intake stages in sequence. On success exactly one PENDING record exists
// and exactly one message is enqueued. If the enqueue fails after the store
// succeeded, the stored record is purged (best-effort) so the caller-visible
// contract stays "order not accepted, retry the whole submission".
func (o *Orchestrator) Submit(ctx context.Context, body []byte) (*Receipt, error) {
	var candidate map[string]any
	if err := json.Unmarshal(body, &candidate); err != nil {
		return nil, &Error{Kind: ErrorValidation, Err: fmt.Errorf("invalid request body: %w", err)}
	}

	orderID := o.newID()
	candidate["order_id"] = orderID

	if err := validation.ValidateOrder(candidate); err != nil {
		return nil, &Error{Kind: ErrorValidation, Err: err}
	}

	order := orders.Order{
		OrderID:      orderID,
		CustomerName: candidate["customer_name"].(string),
		Items:        candidate["items"].([]any),
		Status:       orders.StatusPending,
		CreatedAt:    o.nowFunc().UTC(),
	}

	if err := o.store.Create(ctx, order); err != nil {
		return nil, &Error{Kind: ErrorInfrastructure, Err: fmt.Errorf("store order: %w", err)}
	}

	payload, err := json.Marshal(Envelope{Order: order})
	if err != nil {
		o.purge(ctx, orderID)
		return nil, &Error{Kind: ErrorInfrastructure, Err: fmt.Errorf("marshal queue payload: %w", err)}
	}

	attrs := map[string]string{"order_id": orderID}
	messageID, err := o.publisher.SendOrderMessage(ctx, string(payload), attrs)
	if err != nil {
		o.purge(ctx, orderID)
		return nil, &Error{Kind: ErrorInfrastructure, Err: fmt.Errorf("enqueue order: %w", err)}
	}

	return &Receipt{OrderID: orderID, TrackingReference: messageID}, nil
}

// purge removes a stored order whose enqueue failed, so no orphaned PENDING
// record survives a rejected submission.
func (o *Orchestrator) purge(ctx context.Context, orderID string) {
	if err := o.store.Delete(ctx, orderID); err != nil {
		log.Printf("[intake] purge order=%s after enqueue failure: %v", orderID, err)
	}
}
