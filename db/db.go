// Package db records analysed takes in DynamoDB.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/hummix/constants"
	"github.com/jsphweid/hummix/model"
	"github.com/jsphweid/hummix/storage"
	"github.com/jsphweid/hummix/util"
)

// MaxBatch is the most keys DynamoDB accepts in one BatchGetItem call.
const MaxBatch = 100

var ErrTakeNotFound = errors.New("take not found")

type TakeTable struct {
	Client dynamodbiface.DynamoDBAPI
	Table  string
}

func NewTakeTable(endpoint, region, table string) (*TakeTable, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create a new DynamoDB session because %w", err)
	}
	return &TakeTable{Client: dynamodb.New(sess), Table: table}, nil
}

// FromEnv returns nil when HUMMIX_DYNAMO_ENDPOINT is unset.
func FromEnv() (*TakeTable, error) {
	endpoint := constants.GetDynamoEndpoint()
	if endpoint == "" {
		return nil, nil
	}
	return NewTakeTable(endpoint, constants.GetRegion(), constants.GetDynamoTable())
}

func key(id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(id)},
	}
}

func (t *TakeTable) Put(ctx context.Context, take model.Take) error {
	item, err := dynamodbattribute.MarshalMap(take)
	if err != nil {
		return fmt.Errorf("could not marshal take %v: %w", take.ID, err)
	}
	_, err = t.Client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.Table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("%w: put take %v: %w", storage.ErrIO, take.ID, err)
	}
	return nil
}

func (t *TakeTable) Get(ctx context.Context, id string) (model.Take, error) {
	out, err := t.Client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(t.Table),
		Key:       key(id),
	})
	if err != nil {
		return model.Take{}, fmt.Errorf("%w: get take %v: %w", storage.ErrIO, id, err)
	}
	if len(out.Item) == 0 {
		return model.Take{}, fmt.Errorf("%w: %v", ErrTakeNotFound, id)
	}
	var take model.Take
	if err := dynamodbattribute.UnmarshalMap(out.Item, &take); err != nil {
		return model.Take{}, fmt.Errorf("could not unmarshal take %v: %w", id, err)
	}
	return take, nil
}

// BatchGet looks up many takes at once. Missing ids are absent from the
// result.
func (t *TakeTable) BatchGet(ctx context.Context, ids []string) (map[string]model.Take, error) {
	res := make(map[string]model.Take)
	for start := 0; start < len(ids); start += MaxBatch {
		end := util.Min(start+MaxBatch, len(ids))

		var keys []map[string]*dynamodb.AttributeValue
		for _, id := range ids[start:end] {
			keys = append(keys, key(id))
		}
		pending := map[string]*dynamodb.KeysAndAttributes{
			t.Table: {Keys: keys},
		}

		for len(pending) > 0 {
			out, err := t.Client.BatchGetItemWithContext(ctx, &dynamodb.BatchGetItemInput{
				RequestItems: pending,
			})
			if err != nil {
				return nil, fmt.Errorf("%w: batch get takes: %w", storage.ErrIO, err)
			}
			for _, item := range out.Responses[t.Table] {
				var take model.Take
				if err := dynamodbattribute.UnmarshalMap(item, &take); err != nil {
					return nil, fmt.Errorf("could not unmarshal take: %w", err)
				}
				res[take.ID] = take
			}
			pending = out.UnprocessedKeys
		}
	}
	return res, nil
}
