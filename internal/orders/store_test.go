package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a simple in-memory stand-in supporting PutItem, GetItem,
// UpdateItem and DeleteItem with the two conditional expressions the store
// uses. Items are kept per table: table -> order_id -> item map.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue

	failNext error // when set, the next call returns this error once
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		tables: map[string]map[string]map[string]types.AttributeValue{},
	}
}

func (m *mockDynamo) ensureTable(tbl string) {
	if _, ok := m.tables[tbl]; !ok {
		m.tables[tbl] = map[string]map[string]types.AttributeValue{}
	}
}

func (m *mockDynamo) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func pkOf(attrs map[string]types.AttributeValue) (string, error) {
	if v, ok := attrs["order_id"]; ok {
		return v.(*types.AttributeValueMemberS).Value, nil
	}
	return "", errors.New("no order_id attribute")
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	table := *params.TableName
	m.ensureTable(table)
	pk, err := pkOf(params.Item)
	if err != nil {
		return nil, err
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(order_id)" {
		if _, exists := m.tables[table][pk]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.tables[table][pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	table := *params.TableName
	m.ensureTable(table)
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.tables[table][pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	table := *params.TableName
	m.ensureTable(table)
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, exists := m.tables[table][pk]
	// conditional "#s = :expected" fails for missing items too, like DynamoDB
	if params.ConditionExpression != nil && *params.ConditionExpression == "#s = :expected" {
		if !exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
		curr, ok := item["status"].(*types.AttributeValueMemberS)
		expected := params.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberS).Value
		if !ok || curr.Value != expected {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	if !exists {
		return nil, errors.New("item not found")
	}
	// naive apply of the store's update expression
	if v, ok := params.ExpressionAttributeValues[":new"]; ok {
		item["status"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":fa"]; ok {
		item["fulfilled_at"] = v
	}
	m.tables[table][pk] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	table := *params.TableName
	m.ensureTable(table)
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	delete(m.tables[table], pk)
	return &dyn.DeleteItemOutput{}, nil
}

func testStore(mock *mockDynamo) *Store {
	s := NewStore(mock, "orders")
	s.nowFunc = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestCreate_StoresPendingRecord(t *testing.T) {
	mock := newMockDynamo()
	store := testStore(mock)

	err := store.Create(context.Background(), Order{
		OrderID:      "order-1",
		CustomerName: "Alice",
		Items:        []any{"book"},
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	item := mock.tables["orders"]["order-1"]
	if item == nil {
		t.Fatal("order item not stored")
	}
	var o Order
	if err := attributevalue.UnmarshalMap(item, &o); err != nil {
		t.Fatalf("unmarshal stored order: %v", err)
	}
	if o.Status != StatusPending {
		t.Fatalf("expected status PENDING, got %s", o.Status)
	}
	if o.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}
	if o.FulfilledAt != nil {
		t.Fatalf("fulfilled_at should not be set on create, got %v", o.FulfilledAt)
	}
}

func TestCreate_DuplicateOrderID(t *testing.T) {
	mock := newMockDynamo()
	store := testStore(mock)

	order := Order{OrderID: "order-1", CustomerName: "Alice", Items: []any{"book"}}
	if err := store.Create(context.Background(), order); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	err := store.Create(context.Background(), order)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_RejectsNonPendingInitialStatus(t *testing.T) {
	mock := newMockDynamo()
	store := testStore(mock)

	err := store.Create(context.Background(), Order{
		OrderID:      "order-1",
		CustomerName: "Alice",
		Items:        []any{"book"},
		Status:       StatusFulfilled,
	})
	if err == nil {
		t.Fatal("expected error for non-PENDING initial status")
	}
}

func TestCreate_StoreUnavailable(t *testing.T) {
	mock := newMockDynamo()
	mock.failNext = errors.New("dynamodb unavailable")
	store := testStore(mock)

	err := store.Create(context.Background(), Order{OrderID: "order-1", CustomerName: "Alice", Items: []any{"book"}})
	if err == nil || errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected wrapped infrastructure error, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	mock := newMockDynamo()
	store := testStore(mock)

	o, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o != nil {
		t.Fatalf("expected nil for missing order, got %+v", o)
	}
}

func TestFinalize_PendingToFulfilled(t *testing.T) {
	mock := newMockDynamo()
	store := testStore(mock)
	ctx := context.Background()

	if err := store.Create(ctx, Order{OrderID: "order-1", CustomerName: "Alice", Items: []any{"book"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Finalize(ctx, "order-1", StatusFulfilled); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	o, err := store.Get(ctx, "order-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if o.Status != StatusFulfilled {
		t.Fatalf("expected FULFILLED, got %s", o.Status)
	}
	if o.FulfilledAt == nil {
		t.Fatal("fulfilled_at not set on terminal transition")
	}
}

func TestFinalize_SecondTransitionIsNoOp(t *testing.T) {
	mock := newMockDynamo()
	store := testStore(mock)
	ctx := context.Background()

	if err := store.Create(ctx, Order{OrderID: "order-1", CustomerName: "Alice", Items: []any{"book"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Finalize(ctx, "order-1", StatusFailed); err != nil {
		t.Fatalf("first finalize: %v", err)
	}

	// a redelivered duplicate must lose the conditional write and change nothing
	err := store.Finalize(ctx, "order-1", StatusFulfilled)
	if !errors.Is(err, ErrStatusMismatch) {
		t.Fatalf("expected ErrStatusMismatch, got %v", err)
	}
	o, _ := store.Get(ctx, "order-1")
	if o.Status != StatusFailed {
		t.Fatalf("terminal status changed by duplicate: %s", o.Status)
	}
}

func TestFinalize_RejectsNonTerminalTarget(t *testing.T) {
	mock := newMockDynamo()
	store := testStore(mock)

	if err := store.Finalize(context.Background(), "order-1", StatusPending); err == nil {
		t.Fatal("expected error for non-terminal target status")
	}
}

func TestFinalize_MissingOrder(t *testing.T) {
	mock := newMockDynamo()
	store := testStore(mock)

	err := store.Finalize(context.Background(), "ghost", StatusFulfilled)
	if !errors.Is(err, ErrStatusMismatch) {
		t.Fatalf("expected ErrStatusMismatch for missing order, got %v", err)
	}
}

func TestDelete_RemovesRecord(t *testing.T) {
	mock := newMockDynamo()
	store := testStore(mock)
	ctx := context.Background()

	if err := store.Create(ctx, Order{OrderID: "order-1", CustomerName: "Alice", Items: []any{"book"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Delete(ctx, "order-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	o, err := store.Get(ctx, "order-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if o != nil {
		t.Fatal("order still present after delete")
	}
}
