package users

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dmitrijs2005/userkeeper/internal/common"
	"github.com/dmitrijs2005/userkeeper/internal/models"
)

// Verify interface compliance
var _ Repository = (*DynamoDBRepository)(nil)

// DynamoDB item attribute names.
const (
	attrUsername = "username"
	attrHash     = "hash"
	attrSalt     = "salt"
	attrRounds   = "rounds"
	attrHashed   = "hashed"
)

// DynamoDBAPI is the subset of *dynamodb.Client used by DynamoDBRepository.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	dynamodb.ScanAPIClient
}

// DynamoDBRepository stores one item per user in a table keyed by the
// "username" string attribute. Salt and derived key are binary attributes.
type DynamoDBRepository struct {
	client DynamoDBAPI
	table  string
}

func NewDynamoDBRepository(client DynamoDBAPI, table string) *DynamoDBRepository {
	return &DynamoDBRepository{client: client, table: table}
}

func (r *DynamoDBRepository) Put(ctx context.Context, username string, cred *models.Credential) error {
	if err := validatePut(username, cred); err != nil {
		return err
	}

	_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item: map[string]types.AttributeValue{
			attrUsername: &types.AttributeValueMemberS{Value: username},
			attrHash:     &types.AttributeValueMemberS{Value: cred.HashAlgorithm},
			attrSalt:     &types.AttributeValueMemberB{Value: cred.Salt},
			attrRounds:   &types.AttributeValueMemberN{Value: strconv.Itoa(cred.Rounds)},
			attrHashed:   &types.AttributeValueMemberB{Value: cred.DerivedKey},
		},
	})
	if err != nil {
		return storeError("dynamodb", err)
	}

	return nil
}

func (r *DynamoDBRepository) Get(ctx context.Context, username string) (*models.Credential, error) {
	if err := validateGet(username); err != nil {
		return nil, err
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			attrUsername: &types.AttributeValueMemberS{Value: username},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, storeError("dynamodb", err)
	}

	if len(out.Item) == 0 {
		return nil, common.ErrorNotFound
	}

	cred, err := decodeItem(out.Item)
	if err != nil {
		return nil, fmt.Errorf("dynamodb item %q: %w", username, err)
	}

	return cred, nil
}

func (r *DynamoDBRepository) ListUsernames(ctx context.Context) ([]string, error) {
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:                aws.String(r.table),
		ProjectionExpression:     aws.String("#u"),
		ExpressionAttributeNames: map[string]string{"#u": attrUsername},
	})

	names := make([]string, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storeError("dynamodb", err)
		}
		for _, item := range page.Items {
			name, err := stringAttr(item, attrUsername)
			if err != nil {
				return nil, err
			}
			names = append(names, name)
		}
	}

	return names, nil
}

func decodeItem(item map[string]types.AttributeValue) (*models.Credential, error) {
	var (
		cred models.Credential
		err  error
	)

	if cred.Username, err = stringAttr(item, attrUsername); err != nil {
		return nil, err
	}
	if cred.HashAlgorithm, err = stringAttr(item, attrHash); err != nil {
		return nil, err
	}
	if cred.Salt, err = binaryAttr(item, attrSalt); err != nil {
		return nil, err
	}
	if cred.DerivedKey, err = binaryAttr(item, attrHashed); err != nil {
		return nil, err
	}

	n, ok := item[attrRounds].(*types.AttributeValueMemberN)
	if !ok {
		return nil, fmt.Errorf("attribute %q: missing or not a number", attrRounds)
	}
	if cred.Rounds, err = strconv.Atoi(n.Value); err != nil {
		return nil, fmt.Errorf("attribute %q: %w", attrRounds, err)
	}

	return &cred, nil
}

func stringAttr(item map[string]types.AttributeValue, name string) (string, error) {
	v, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("attribute %q: missing or not a string", name)
	}
	return v.Value, nil
}

func binaryAttr(item map[string]types.AttributeValue, name string) ([]byte, error) {
	v, ok := item[name].(*types.AttributeValueMemberB)
	if !ok {
		return nil, fmt.Errorf("attribute %q: missing or not binary", name)
	}
	return v.Value, nil
}
