package main

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/order-fulfillment-pipeline/internal/aws"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/config"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/handlers"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/intake"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/orders"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterOrdersRoutes(r, cfg)

	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.OrdersTable == "" || cfg.OrdersQueueURL == "" {
		log.Fatal("ORDERS_TABLE and ORDERS_QUEUE_URL are required")
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	store := orders.NewStore(clients.DynamoDB, cfg.OrdersTable)
	publisher := aws.NewPublisher(clients.SQS, cfg.OrdersQueueURL)
	orchestrator := intake.New(store, publisher)

	r := setupRouter(handlers.HandlerConfig{
		Orchestrator: orchestrator,
		Orders:       store,
	})

	// if RUN_LOCAL is set, run a local HTTP server for development.
	if cfg.RunLocal {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
