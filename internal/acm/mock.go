package acm

import (
	"context"
)

// MockClient is a mock implementation of Client.
type MockClient struct {
	ImportCertificateFunc   func(ctx context.Context, in ImportInput) (string, error)
	GetCertificateFunc      func(ctx context.Context, arn string) ([]byte, error)
	DescribeCertificateFunc func(ctx context.Context, arn string) (*Detail, error)
	DeleteCertificateFunc   func(ctx context.Context, arn string) error
}

func (m *MockClient) ImportCertificate(ctx context.Context, in ImportInput) (string, error) {
	return m.ImportCertificateFunc(ctx, in)
}

func (m *MockClient) GetCertificate(ctx context.Context, arn string) ([]byte, error) {
	return m.GetCertificateFunc(ctx, arn)
}

func (m *MockClient) DescribeCertificate(ctx context.Context, arn string) (*Detail, error) {
	return m.DescribeCertificateFunc(ctx, arn)
}

func (m *MockClient) DeleteCertificate(ctx context.Context, arn string) error {
	return m.DeleteCertificateFunc(ctx, arn)
}
