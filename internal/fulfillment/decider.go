package fulfillment

import (
	"math/rand"

	"github.com/imrishuroy/order-fulfillment-pipeline/internal/orders"
)

// Decision is the business outcome of a fulfillment attempt.
type Decision int

const (
	DecisionFulfilled Decision = iota
	DecisionFailed
)

// Decider makes the fulfillment decision for an order. The pipeline only
// cares that the answer is one of the two terminal outcomes; a real
// implementation would call inventory/payment systems here.
type Decider interface {
	Decide(order orders.Order) Decision
}

// RandomDecider is the stand-in business rule: an order fails with
// probability FailureRate.
type RandomDecider struct {
	FailureRate float64
	// Rand overrides the random source; nil uses math/rand.
	Rand func() float64
}

func (d RandomDecider) Decide(orders.Order) Decision {
	f := d.Rand
	if f == nil {
		f = rand.Float64
	}
	if f() < d.FailureRate {
		return DecisionFailed
	}
	return DecisionFulfilled
}
