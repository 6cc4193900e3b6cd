// Package tracking persists the mapping from a logical resource identity
// to the external resource created for it. Rows are keyed by a
// (primary key, sort key) pair in a DynamoDB table and carry an open
// string attribute map, at minimum the ARN of the external resource.
//
// The store performs no retries of its own; API errors propagate
// unchanged so retry policy stays with the caller.
package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Table attribute names. The key schema matches the table provisioned by
// the deployment stack.
const (
	attrPK = "PrimaryKey"
	attrSK = "SortKey"
)

// ErrAlreadyTracked is returned by PutItem when the row exists and
// overwriting was not requested. It signals a duplicate Create delivery
// for the same logical resource.
var ErrAlreadyTracked = errors.New("row already tracked")

// DynamoAPI is the subset of the DynamoDB client the store uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Item is one tracking row.
type Item struct {
	PrimaryKey string
	SortKey    string
	Attributes map[string]string
}

// PutInput describes a row write. AllowOverwrite must be set explicitly
// for rotation; a plain write fails with ErrAlreadyTracked when the row
// exists.
type PutInput struct {
	Item
	AllowOverwrite bool
}

// Store is a composite-key tracking table client.
type Store struct {
	api   DynamoAPI
	table string
}

// NewStore creates a Store for the given table.
func NewStore(api DynamoAPI, table string) *Store {
	return &Store{api: api, table: table}
}

// GetItem returns the attribute map for (primaryKey, sortKey). Absence is
// not an error: the second return value reports whether the row exists.
func (s *Store) GetItem(ctx context.Context, primaryKey, sortKey string) (map[string]string, bool, error) {
	resp, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		ConsistentRead: aws.Bool(true),
		Key:            itemKey(primaryKey, sortKey),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get tracking row %s/%s: %w", primaryKey, sortKey, err)
	}
	if len(resp.Item) == 0 {
		return nil, false, nil
	}
	return attributesOf(resp.Item), true, nil
}

// PutItem writes a row. When AllowOverwrite is false the write is
// conditional on the row not existing, so two concurrent Creates cannot
// both believe they are first.
func (s *Store) PutItem(ctx context.Context, in PutInput) error {
	item := map[string]ddbtypes.AttributeValue{
		attrPK: &ddbtypes.AttributeValueMemberS{Value: in.PrimaryKey},
		attrSK: &ddbtypes.AttributeValueMemberS{Value: in.SortKey},
	}
	for k, v := range in.Attributes {
		item[k] = &ddbtypes.AttributeValueMemberS{Value: v}
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}
	if !in.AllowOverwrite {
		input.ConditionExpression = aws.String("attribute_not_exists(#pk)")
		input.ExpressionAttributeNames = map[string]string{"#pk": attrPK}
	}

	if _, err := s.api.PutItem(ctx, input); err != nil {
		var cfe *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return fmt.Errorf("tracking row %s/%s: %w", in.PrimaryKey, in.SortKey, ErrAlreadyTracked)
		}
		return fmt.Errorf("failed to put tracking row %s/%s: %w", in.PrimaryKey, in.SortKey, err)
	}
	return nil
}

// DeleteItem removes a row. Deleting an absent row is not an error.
func (s *Store) DeleteItem(ctx context.Context, primaryKey, sortKey string) error {
	_, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       itemKey(primaryKey, sortKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete tracking row %s/%s: %w", primaryKey, sortKey, err)
	}
	return nil
}

// Query returns all rows sharing a primary key. A pageLimit of 0 means
// unbounded; pagination is followed either way.
func (s *Store) Query(ctx context.Context, primaryKey string, pageLimit int32) ([]Item, error) {
	input := &dynamodb.QueryInput{
		TableName:                aws.String(s.table),
		ConsistentRead:           aws.Bool(true),
		KeyConditionExpression:   aws.String("#pk = :pk"),
		ExpressionAttributeNames: map[string]string{"#pk": attrPK},
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":pk": &ddbtypes.AttributeValueMemberS{Value: primaryKey},
		},
	}
	if pageLimit > 0 {
		input.Limit = aws.Int32(pageLimit)
	}

	var items []Item
	for {
		resp, err := s.api.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query tracking rows for %s: %w", primaryKey, err)
		}
		for _, raw := range resp.Items {
			items = append(items, Item{
				PrimaryKey: stringAttr(raw, attrPK),
				SortKey:    stringAttr(raw, attrSK),
				Attributes: attributesOf(raw),
			})
		}
		if len(resp.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = resp.LastEvaluatedKey
	}
	return items, nil
}

func itemKey(primaryKey, sortKey string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		attrPK: &ddbtypes.AttributeValueMemberS{Value: primaryKey},
		attrSK: &ddbtypes.AttributeValueMemberS{Value: sortKey},
	}
}

// attributesOf extracts the non-key string attributes of a raw item.
func attributesOf(raw map[string]ddbtypes.AttributeValue) map[string]string {
	attrs := make(map[string]string, len(raw))
	for k, v := range raw {
		if k == attrPK || k == attrSK {
			continue
		}
		if s, ok := v.(*ddbtypes.AttributeValueMemberS); ok {
			attrs[k] = s.Value
		}
	}
	return attrs
}

func stringAttr(raw map[string]ddbtypes.AttributeValue, name string) string {
	if s, ok := raw[name].(*ddbtypes.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}
