// Package secrets fetches secret values from AWS Secrets Manager and
// decrypts passphrase-protected private keys before import. Plaintext
// key material never leaves the invocation that requested it.
package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
)

var (
	// ErrSecretNotFound is returned when the requested secret does not
	// exist in the secret store.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrSecretEmpty is returned when a secret exists but carries no
	// value.
	ErrSecretEmpty = errors.New("secret value is empty")
)

// Provider fetches secret values by id or ARN.
type Provider interface {
	GetSecretValue(ctx context.Context, secretID string) ([]byte, error)
}

// ManagerAPI is the subset of the Secrets Manager client used here.
type ManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Client implements Provider on AWS Secrets Manager.
type Client struct {
	api ManagerAPI
}

// NewClient creates a Client from an AWS config.
func NewClient(cfg aws.Config) *Client {
	return &Client{api: secretsmanager.NewFromConfig(cfg)}
}

// NewClientFromAPI creates a Client on top of an existing API
// implementation.
func NewClientFromAPI(api ManagerAPI) *Client {
	return &Client{api: api}
}

// GetSecretValue returns the secret's value, preferring the string form
// over the binary form.
func (c *Client) GetSecretValue(ctx context.Context, secretID string) ([]byte, error) {
	resp, err := c.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("secret %s: %w", secretID, ErrSecretNotFound)
		}
		return nil, fmt.Errorf("failed to get secret %s: %w", secretID, err)
	}
	if resp.SecretString != nil {
		return []byte(*resp.SecretString), nil
	}
	if len(resp.SecretBinary) > 0 {
		return resp.SecretBinary, nil
	}
	return nil, fmt.Errorf("secret %s: %w", secretID, ErrSecretEmpty)
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException"
}
