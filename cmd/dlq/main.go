package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/order-fulfillment-pipeline/internal/aws"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/config"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/deadletter"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.FailedOrdersTable == "" {
		log.Fatal("FAILED_ORDERS_TABLE is required")
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	recorder := deadletter.NewRecorder(
		deadletter.NewStore(clients.DynamoDB, cfg.FailedOrdersTable),
		metrics.New(clients.CloudWatch, cfg.MetricsNamespace),
	)

	// RUN_LOCAL: record a single simulated dead-letter message and exit.
	if cfg.RunLocal {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			body = `{"order":{"order_id":"local-order-1"}}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{{MessageId: "local-1", Body: body}},
		}
		if err := recorder.HandleSQSEvent(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(recorder.HandleSQSEvent)
}
