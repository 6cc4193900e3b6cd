package secrets

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockManagerAPI struct {
	getFunc func(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func (m *mockManagerAPI) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	return m.getFunc(ctx, params, optFns...)
}

func TestGetSecretValue_PrefersSecretString(t *testing.T) {
	t.Parallel()
	client := NewClientFromAPI(&mockManagerAPI{
		getFunc: func(_ context.Context, params *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
			assert.Equal(t, "farm/passphrase", aws.ToString(params.SecretId))
			return &secretsmanager.GetSecretValueOutput{
				SecretString: aws.String("hunter2"),
			}, nil
		},
	})

	value, err := client.GetSecretValue(context.Background(), "farm/passphrase")
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), value)
}

func TestGetSecretValue_FallsBackToBinary(t *testing.T) {
	t.Parallel()
	client := NewClientFromAPI(&mockManagerAPI{
		getFunc: func(_ context.Context, _ *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
			return &secretsmanager.GetSecretValueOutput{
				SecretBinary: []byte{0x01, 0x02},
			}, nil
		},
	})

	value, err := client.GetSecretValue(context.Background(), "farm/passphrase")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, value)
}

func TestGetSecretValue_NotFound(t *testing.T) {
	t.Parallel()
	client := NewClientFromAPI(&mockManagerAPI{
		getFunc: func(_ context.Context, _ *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "ResourceNotFoundException"}
		},
	})

	_, err := client.GetSecretValue(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestGetSecretValue_Empty(t *testing.T) {
	t.Parallel()
	client := NewClientFromAPI(&mockManagerAPI{
		getFunc: func(_ context.Context, _ *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
			return &secretsmanager.GetSecretValueOutput{}, nil
		},
	})

	_, err := client.GetSecretValue(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrSecretEmpty)
}
