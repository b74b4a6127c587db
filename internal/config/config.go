package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the process-wide settings for all three binaries. Each main
// checks the fields it actually needs; a worker deployment has no queue URL to
// publish to and the API has no failed-orders table.
type Config struct {
	OrdersTable       string `env:"ORDERS_TABLE"`
	FailedOrdersTable string `env:"FAILED_ORDERS_TABLE"`
	OrdersQueueURL    string `env:"ORDERS_QUEUE_URL"`

	// FulfillmentFailureRate drives the stubbed fulfillment decision:
	// probability in [0,1] that an order resolves to FAILED.
	FulfillmentFailureRate float64 `env:"FULFILLMENT_FAILURE_RATE" envDefault:"0.3"`

	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"OrderPipeline"`

	// RunLocal switches the binaries from the Lambda runtime to a local
	// dev loop (HTTP server for the API, simulated events for consumers).
	RunLocal bool `env:"RUN_LOCAL"`
}

// Load resolves configuration from the environment once at startup.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	if cfg.FulfillmentFailureRate < 0 || cfg.FulfillmentFailureRate > 1 {
		return Config{}, fmt.Errorf("FULFILLMENT_FAILURE_RATE must be in [0,1], got %v", cfg.FulfillmentFailureRate)
	}
	return cfg, nil
}
