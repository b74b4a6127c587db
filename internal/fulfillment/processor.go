package fulfillment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/order-fulfillment-pipeline/internal/intake"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/metrics"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/orders"
)

// Outcome classifies the result of processing one delivery queue message.
// Every failure mode maps to exactly one bucket: transient faults retry,
// poison messages will never succeed and should burn down to the dead-letter
// queue, everything else acks.
type Outcome int

const (
	// OutcomeAck: message handled (or safely ignorable duplicate); delete it.
	OutcomeAck Outcome = iota
	// OutcomeRetry: transient fault; redelivery may succeed.
	OutcomeRetry
	// OutcomeDeadLetter: poison message; no number of retries will fix it.
	OutcomeDeadLetter
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAck:
		return "ack"
	case OutcomeRetry:
		return "retry"
	case OutcomeDeadLetter:
		return "dead-letter"
	default:
		return "unknown"
	}
}

// Processor consumes delivery queue messages and performs the single
// terminal transition on each order. It carries no retry loop, backoff or
// timeout of its own: redelivery is owned entirely by the queue's visibility
// timeout and redrive policy.
type Processor struct {
	store   *orders.Store
	decider Decider
	metrics *metrics.Emitter
}

// NewProcessor creates a worker processor with its dependencies injected.
func NewProcessor(store *orders.Store, decider Decider, emitter *metrics.Emitter) *Processor {
	return &Processor{
		store:   store,
		decider: decider,
		metrics: emitter,
	}
}

// Process handles a single message body and classifies the result. The
// returned error carries detail for the non-Ack outcomes.
func (p *Processor) Process(ctx context.Context, body string) (Outcome, error) {
	var env intake.Envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return OutcomeDeadLetter, fmt.Errorf("unparseable message body: %w", err)
	}
	order := env.Order
	if order.OrderID == "" {
		return OutcomeDeadLetter, fmt.Errorf("message has no order id")
	}

	stored, err := p.store.Get(ctx, order.OrderID)
	if err != nil {
		return OutcomeRetry, fmt.Errorf("fetch order %s: %w", order.OrderID, err)
	}
	if stored == nil {
		// the intake stores before it enqueues, so a missing record is a
		// read-after-write race; retry until the record is visible or the
		// redrive count runs out
		return OutcomeRetry, fmt.Errorf("order %s not found", order.OrderID)
	}
	if orders.Terminal(stored.Status) {
		log.Printf("[worker] duplicate delivery for order=%s status=%s", order.OrderID, stored.Status)
		return OutcomeAck, nil
	}

	newStatus := orders.StatusFulfilled
	if p.decider.Decide(*stored) == DecisionFailed {
		newStatus = orders.StatusFailed
	}

	err = p.store.Finalize(ctx, order.OrderID, newStatus)
	if err == orders.ErrStatusMismatch {
		// a concurrent worker won the conditional write; this delivery is a no-op
		log.Printf("[worker] lost terminal transition race for order=%s", order.OrderID)
		return OutcomeAck, nil
	}
	if err != nil {
		return OutcomeRetry, fmt.Errorf("finalize order %s: %w", order.OrderID, err)
	}

	log.Printf("[worker] order=%s status=%s", order.OrderID, newStatus)
	if newStatus == orders.StatusFulfilled {
		p.metrics.Count(ctx, metrics.OrdersFulfilled)
	} else {
		p.metrics.Count(ctx, metrics.OrdersFailed)
	}
	return OutcomeAck, nil
}

// HandleSQSEvent adapts Process to the Lambda SQS integration. Retry and
// DeadLetter both surface as a returned error so the queue redelivers the
// message; once the redrive policy's maxReceiveCount is exceeded the queue
// itself moves the message to the paired dead-letter queue. A dead-letter
// classification fails deterministically on every delivery, which is exactly
// what exhausts the receive count.
func (p *Processor) HandleSQSEvent(ctx context.Context, event events.SQSEvent) error {
	log.Printf("[worker] received %d messages", len(event.Records))
	for _, rec := range event.Records {
		outcome, err := p.Process(ctx, rec.Body)
		switch outcome {
		case OutcomeAck:
			continue
		case OutcomeRetry:
			p.metrics.Count(ctx, metrics.MessagesRetried)
		case OutcomeDeadLetter:
			p.metrics.Count(ctx, metrics.MessagesDeadLettered)
		}
		log.Printf("[worker] message=%s outcome=%s err=%v", rec.MessageId, outcome, err)
		return fmt.Errorf("%s: %w", outcome, err)
	}
	return nil
}
