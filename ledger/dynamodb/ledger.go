// Package dynamodb implements ledger.Ledger on an Amazon DynamoDB table.
//
// Table schema:
//   - Partition key: run_id (string)
//   - Sort key: partition (string), e.g. "fp16/rne"
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name fpgold-runs \
//	  --attribute-definitions AttributeName=run_id,AttributeType=S AttributeName=partition,AttributeType=S \
//	  --key-schema AttributeName=run_id,KeyType=HASH AttributeName=partition,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/fpgold/ledger"
)

// DDBClient is the subset of the DynamoDB API the ledger uses.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

var _ DDBClient = (*dynamodb.Client)(nil)

const (
	attrRun       = "run_id"
	attrPartition = "partition"
)

// Ledger stores entries in a DynamoDB table.
type Ledger struct {
	client DDBClient
	table  string
}

var _ ledger.Ledger = (*Ledger)(nil)

// NewLedger creates a Ledger on an existing client.
func NewLedger(client DDBClient, table string) *Ledger {
	return &Ledger{client: client, table: table}
}

// New creates a Ledger with the default AWS configuration chain.
func New(ctx context.Context, table string, optFns ...func(*config.LoadOptions) error) (*Ledger, error) {
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewLedger(dynamodb.NewFromConfig(cfg), table), nil
}

// Record writes e unless its run and partition already exist.
func (l *Ledger) Record(ctx context.Context, e ledger.Entry) error {
	_, err := l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(l.table),
		Item:                marshalEntry(e),
		ConditionExpression: aws.String("attribute_not_exists(" + attrPartition + ")"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("%w: %s %s", ledger.ErrDuplicate, e.Run, e.Key())
		}
		return fmt.Errorf("failed to record entry in DynamoDB: %w", err)
	}
	return nil
}

// Get returns a single entry. The boolean is false when it does not exist.
func (l *Ledger) Get(ctx context.Context, run, key string) (ledger.Entry, bool, error) {
	resp, err := l.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(l.table),
		Key:       itemKey(run, key),
	})
	if err != nil {
		return ledger.Entry{}, false, fmt.Errorf("failed to get entry from DynamoDB: %w", err)
	}
	if len(resp.Item) == 0 {
		return ledger.Entry{}, false, nil
	}
	e, err := unmarshalEntry(resp.Item)
	return e, err == nil, err
}

// Delete removes a single entry. Missing entries are ignored.
func (l *Ledger) Delete(ctx context.Context, run, key string) error {
	_, err := l.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(l.table),
		Key:       itemKey(run, key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete entry from DynamoDB: %w", err)
	}
	return nil
}

// List returns every entry of a run.
func (l *Ledger) List(ctx context.Context, run string) ([]ledger.Entry, error) {
	var (
		out   []ledger.Entry
		start map[string]types.AttributeValue
	)
	for {
		resp, err := l.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(l.table),
			KeyConditionExpression: aws.String(attrRun + " = :run"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":run": &types.AttributeValueMemberS{Value: run},
			},
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query DynamoDB: %w", err)
		}
		for _, item := range resp.Items {
			e, err := unmarshalEntry(item)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		if len(resp.LastEvaluatedKey) == 0 {
			break
		}
		start = resp.LastEvaluatedKey
	}
	ledger.SortEntries(out)
	return out, nil
}

func itemKey(run, key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrRun:       &types.AttributeValueMemberS{Value: run},
		attrPartition: &types.AttributeValueMemberS{Value: key},
	}
}

func marshalEntry(e ledger.Entry) map[string]types.AttributeValue {
	item := itemKey(e.Run, e.Key())
	item["width"] = &types.AttributeValueMemberN{Value: strconv.Itoa(e.Width)}
	item["mode"] = &types.AttributeValueMemberS{Value: e.Mode}
	item["dut"] = &types.AttributeValueMemberS{Value: e.DUT}
	item["reference"] = &types.AttributeValueMemberS{Value: e.Reference}
	item["total"] = &types.AttributeValueMemberN{Value: strconv.Itoa(e.Total)}
	item["failed"] = &types.AttributeValueMemberN{Value: strconv.Itoa(e.Failed)}
	item["recorded"] = &types.AttributeValueMemberS{Value: e.Recorded.UTC().Format(time.RFC3339Nano)}
	if e.Report != "" {
		item["report"] = &types.AttributeValueMemberS{Value: e.Report}
	}
	return item
}

func unmarshalEntry(item map[string]types.AttributeValue) (ledger.Entry, error) {
	var (
		e   ledger.Entry
		err error
	)
	str := func(name string, required bool) string {
		v, ok := item[name].(*types.AttributeValueMemberS)
		if !ok {
			if required && err == nil {
				err = fmt.Errorf("invalid %s attribute in DynamoDB", name)
			}
			return ""
		}
		return v.Value
	}
	num := func(name string) int {
		v, ok := item[name].(*types.AttributeValueMemberN)
		if !ok {
			if err == nil {
				err = fmt.Errorf("invalid %s attribute in DynamoDB", name)
			}
			return 0
		}
		n, perr := strconv.Atoi(v.Value)
		if perr != nil && err == nil {
			err = fmt.Errorf("failed to parse %s: %w", name, perr)
		}
		return n
	}

	e.Run = str(attrRun, true)
	e.Width = num("width")
	e.Mode = str("mode", true)
	e.DUT = str("dut", false)
	e.Reference = str("reference", false)
	e.Total = num("total")
	e.Failed = num("failed")
	e.Report = str("report", false)
	if ts := str("recorded", false); ts != "" {
		t, perr := time.Parse(time.RFC3339Nano, ts)
		if perr != nil && err == nil {
			err = fmt.Errorf("failed to parse recorded: %w", perr)
		}
		e.Recorded = t
	}
	if err != nil {
		return ledger.Entry{}, err
	}
	return e, nil
}
