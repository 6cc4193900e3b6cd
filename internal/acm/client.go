// Package acm provides a wrapper around the AWS Certificate Manager API.
package acm

import (
	"context"
)

// ImportInput holds the PEM material for a certificate import. When
// CertificateARN is set the import replaces the certificate behind that
// ARN (rotation); otherwise a new certificate is created.
type ImportInput struct {
	CertPEM        []byte
	ChainPEM       []byte
	KeyPEM         []byte
	Tags           map[string]string
	CertificateARN string
}

// Detail is the subset of certificate metadata the lifecycle engine
// needs. InUseBy lists the consumers currently referencing the
// certificate; it must be empty before the certificate may be deleted.
type Detail struct {
	ARN     string
	InUseBy []string
}

// Client defines the interface for certificate-management operations.
// It abstracts the underlying AWS Certificate Manager API.
type Client interface {
	// ImportCertificate imports the PEM bundle and returns the ARN of the
	// resulting certificate. Tags are only applied on first import; AWS
	// rejects tags on reimport.
	ImportCertificate(ctx context.Context, in ImportInput) (string, error)

	// GetCertificate returns the certificate body for an ARN, or
	// ErrNotFound if the service has no record of it.
	GetCertificate(ctx context.Context, arn string) ([]byte, error)

	// DescribeCertificate returns metadata including the in-use list.
	DescribeCertificate(ctx context.Context, arn string) (*Detail, error)

	// DeleteCertificate deletes the certificate with the given ARN.
	DeleteCertificate(ctx context.Context, arn string) error
}
