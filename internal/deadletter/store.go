package deadletter

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/imrishuroy/order-fulfillment-pipeline/internal/aws"
)

// Store appends FailedOrderRecords to the failed-orders table. Writes carry
// no condition expression: duplicates from redelivered dead-letter messages
// are an accepted consequence of at-least-once delivery, not a bug.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore returns a Store bound to the failed-orders table.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Put persists one record, stamping recorded_at.
func (s *Store) Put(ctx context.Context, rec FailedOrderRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = s.nowFunc().UTC()
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal failed-order record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}
