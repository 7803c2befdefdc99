package dynamodb

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/fpgold/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDDBClient is an in-memory DynamoDB mock for testing.
type mockDDBClient struct {
	mu       sync.RWMutex
	items    map[string]map[string]types.AttributeValue // run:partition -> item
	pageSize int
	queries  int
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{items: make(map[string]map[string]types.AttributeValue)}
}

func keyOf(item map[string]types.AttributeValue) string {
	return item[attrRun].(*types.AttributeValueMemberS).Value + ":" + item[attrPartition].(*types.AttributeValueMemberS).Value
}

func (m *mockDDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := keyOf(params.Item)
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(partition)" {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}
	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++

	run := params.ExpressionAttributeValues[":run"].(*types.AttributeValueMemberS).Value
	var keys []string
	for k, item := range m.items {
		if item[attrRun].(*types.AttributeValueMemberS).Value == run {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	if params.ExclusiveStartKey != nil {
		start := keyOf(params.ExclusiveStartKey)
		for len(keys) > 0 && keys[0] <= start {
			keys = keys[1:]
		}
	}

	out := &dynamodb.QueryOutput{}
	if m.pageSize > 0 && len(keys) > m.pageSize {
		keys = keys[:m.pageSize]
		out.LastEvaluatedKey = m.items[keys[len(keys)-1]]
	}
	for _, k := range keys {
		out.Items = append(out.Items, m.items[k])
	}
	return out, nil
}

func (m *mockDDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if item, ok := m.items[keyOf(params.Key)]; ok {
		return &dynamodb.GetItemOutput{Item: item}, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDDBClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, keyOf(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func entry(run string, width int, mode string, failed int) ledger.Entry {
	return ledger.Entry{
		Run:       run,
		Width:     width,
		Mode:      mode,
		DUT:       "golden",
		Reference: "exact",
		Total:     100,
		Failed:    failed,
		Recorded:  time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC),
	}
}

func TestLedger_RecordAndGet(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(newMockDDBClient(), "fpgold-runs")

	e := entry("run-1", 16, "rne", 3)
	e.Report = "reports/run-1.json"
	require.NoError(t, l.Record(ctx, e))

	got, ok, err := l.Get(ctx, "run-1", "fp16/rne")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, e, got)

	_, ok, err = l.Get(ctx, "run-1", "fp32/rne")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLedger_Duplicate(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(newMockDDBClient(), "fpgold-runs")

	require.NoError(t, l.Record(ctx, entry("run-1", 32, "rtz", 0)))
	err := l.Record(ctx, entry("run-1", 32, "rtz", 1))
	require.ErrorIs(t, err, ledger.ErrDuplicate)

	// The same partition in another run is independent.
	require.NoError(t, l.Record(ctx, entry("run-2", 32, "rtz", 1)))
}

func TestLedger_ListPaginates(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	ddb.pageSize = 2
	l := NewLedger(ddb, "fpgold-runs")

	modes := []string{"rne", "rtz", "rpi", "rni", "rna"}
	for _, w := range []int{64, 16, 32} {
		for _, m := range modes {
			require.NoError(t, l.Record(ctx, entry("run-1", w, m, 0)))
		}
	}
	require.NoError(t, l.Record(ctx, entry("other", 16, "rne", 0)))

	got, err := l.List(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 15)
	assert.Equal(t, 8, ddb.queries)
	assert.Equal(t, 16, got[0].Width)
	assert.Equal(t, 64, got[14].Width)
	for i := 1; i < len(got); i++ {
		assert.NotEqual(t, got[i-1].Key(), got[i].Key())
	}
}

func TestLedger_Delete(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(newMockDDBClient(), "fpgold-runs")

	require.NoError(t, l.Record(ctx, entry("run-1", 64, "rna", 0)))
	require.NoError(t, l.Delete(ctx, "run-1", "fp64/rna"))
	require.NoError(t, l.Delete(ctx, "run-1", "fp64/rna"))

	got, err := l.List(ctx, "run-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLedger_InvalidItem(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	ddb.items["run-1:fp16/rne"] = map[string]types.AttributeValue{
		attrRun:       &types.AttributeValueMemberS{Value: "run-1"},
		attrPartition: &types.AttributeValueMemberS{Value: "fp16/rne"},
		"width":       &types.AttributeValueMemberS{Value: "sixteen"},
	}
	l := NewLedger(ddb, "fpgold-runs")

	_, err := l.List(ctx, "run-1")
	require.Error(t, err)
}

type failingClient struct{ mockDDBClient }

func (*failingClient) PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return nil, errors.New("throttled")
}

func TestLedger_RecordError(t *testing.T) {
	l := NewLedger(&failingClient{}, "fpgold-runs")
	err := l.Record(context.Background(), entry("run-1", 16, "rne", 0))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ledger.ErrDuplicate)
	assert.Contains(t, err.Error(), "throttled")
}
