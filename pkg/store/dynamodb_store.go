package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"

	manifest "github.com/joeydtaylor/steeze-gateway/pkg/manifest"
)

// DynamoDBKey is the partition key attribute of the endpoint table.
const DynamoDBKey = "name"

// DynamoDB reads endpoint records from a table keyed by name. Attributes use
// the same names as the JSON record.
type DynamoDB struct {
	ddb   dynamodbiface.DynamoDBAPI
	table string
}

func NewDynamoDB(api dynamodbiface.DynamoDBAPI, table string) *DynamoDB {
	return &DynamoDB{ddb: api, table: table}
}

// OpenDynamoDB builds a client from the default AWS credential chain.
func OpenDynamoDB(region, table string) (*DynamoDB, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return NewDynamoDB(dynamodb.New(sess), table), nil
}

func (s *DynamoDB) Get(ctx context.Context, name string) (manifest.Endpoint, error) {
	out, err := s.ddb.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		ConsistentRead: aws.Bool(true),
		Key: map[string]*dynamodb.AttributeValue{
			DynamoDBKey: {S: aws.String(name)},
		},
	})
	if err != nil {
		return manifest.Endpoint{}, fmt.Errorf("dynamodb get %q: %w", name, err)
	}
	if len(out.Item) == 0 {
		return manifest.Endpoint{}, ErrNotFound
	}
	var ep manifest.Endpoint
	if err := dynamodbattribute.UnmarshalMap(out.Item, &ep); err != nil {
		return manifest.Endpoint{}, fmt.Errorf("dynamodb record %q: %w", name, err)
	}
	return ep, nil
}

func (s *DynamoDB) Put(ctx context.Context, ep manifest.Endpoint) error {
	item, err := dynamodbattribute.MarshalMap(ep)
	if err != nil {
		return err
	}
	_, err = s.ddb.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	return err
}

func (s *DynamoDB) Close() error { return nil }
