package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/imrishuroy/order-fulfillment-pipeline/internal/aws"
)

// ErrAlreadyExists indicates a Create hit an existing order_id.
var ErrAlreadyExists = errors.New("order already exists")

// ErrStatusMismatch indicates a conditional status transition found the
// record in a different state than expected (typically: already terminal).
var ErrStatusMismatch = errors.New("status mismatch/conditional failed")

// Store encapsulates operations on the orders table. All mutation is
// single-record and conditional, keyed by order_id; there is no other
// coordination between concurrent workers.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create persists a new PENDING order. The attribute_not_exists guard
// enforces exactly one record per order_id; a duplicate id returns
// ErrAlreadyExists.
func (s *Store) Create(ctx context.Context, order Order) error {
	if order.Status == "" {
		order.Status = StatusPending
	}
	if order.Status != StatusPending {
		return fmt.Errorf("create with status %s: only %s is a valid initial status", order.Status, StatusPending)
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.nowFunc().UTC()
	}

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order item: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(order_id)"),
	}

	_, err = s.client.PutItem(ctx, input)
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException" {
			return ErrAlreadyExists
		}
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Get fetches an order by order_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	key := map[string]types.AttributeValue{
		"order_id": &types.AttributeValueMemberS{Value: orderID},
	}
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// Finalize performs the single terminal transition PENDING -> newStatus,
// setting fulfilled_at in the same conditional write. The #s = :expected
// guard makes redelivered duplicates lose cleanly: if the stored status is no
// longer PENDING the update fails with ErrStatusMismatch and nothing changes.
func (s *Store) Finalize(ctx context.Context, orderID, newStatus string) error {
	if !Terminal(newStatus) {
		return fmt.Errorf("finalize to %s: not a terminal status", newStatus)
	}
	now := s.nowFunc().UTC()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:         awsString("SET #s = :new, fulfilled_at = :fa"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new":      &types.AttributeValueMemberS{Value: newStatus},
			":fa":       &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
			":expected": &types.AttributeValueMemberS{Value: StatusPending},
		},
		ConditionExpression: awsString("#s = :expected"),
	}

	_, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrStatusMismatch
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Delete removes an order record. Used only by intake to purge a stored order
// whose enqueue failed, so a rejected submission leaves no partial state.
func (s *Store) Delete(ctx context.Context, orderID string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
