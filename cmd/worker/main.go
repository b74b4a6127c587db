package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/order-fulfillment-pipeline/internal/aws"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/config"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/fulfillment"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/metrics"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/orders"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.OrdersTable == "" {
		log.Fatal("ORDERS_TABLE is required")
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	processor := fulfillment.NewProcessor(
		orders.NewStore(clients.DynamoDB, cfg.OrdersTable),
		fulfillment.RandomDecider{FailureRate: cfg.FulfillmentFailureRate},
		metrics.New(clients.CloudWatch, cfg.MetricsNamespace),
	)

	// RUN_LOCAL: process a single simulated SQS event and exit.
	if cfg.RunLocal {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			body = `{"order":{"order_id":"local-order-1","customer_name":"local","items":["item"],"status":"PENDING"}}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{{MessageId: "local-1", Body: body}},
		}
		if err := processor.HandleSQSEvent(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(processor.HandleSQSEvent)
}
