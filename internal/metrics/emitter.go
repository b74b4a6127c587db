package metrics

import (
	"context"
	"log"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/imrishuroy/order-fulfillment-pipeline/internal/aws"
)

// Metric names emitted by the pipeline.
const (
	OrdersFulfilled      = "OrdersFulfilled"
	OrdersFailed         = "OrdersFailed"
	MessagesRetried      = "MessagesRetried"
	MessagesDeadLettered = "MessagesDeadLettered"
	DeadLettersRecorded  = "DeadLettersRecorded"
)

// Emitter pushes count metrics to CloudWatch. A nil Emitter (or nil client)
// is a no-op, so local runs and tests can skip metrics entirely. Emission is
// best-effort: failures are logged and never affect message processing.
type Emitter struct {
	client    aws.CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

// New returns an Emitter publishing into the given namespace.
func New(client aws.CloudWatchAPI, namespace string) *Emitter {
	return &Emitter{
		client:    client,
		namespace: namespace,
		nowFunc:   time.Now,
	}
}

// Count increments a metric by one.
func (e *Emitter) Count(ctx context.Context, name string) {
	if e == nil || e.client == nil {
		return
	}
	now := e.nowFunc().UTC()
	input := &cloudwatch.PutMetricDataInput{
		Namespace: &e.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &name,
				Timestamp:  &now,
				Unit:       cwtypes.StandardUnitCount,
				Value:      sdkaws.Float64(1),
			},
		},
	}
	if _, err := e.client.PutMetricData(ctx, input); err != nil {
		log.Printf("[metrics] put metric %s: %v", name, err)
	}
}
