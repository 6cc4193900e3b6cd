package acm

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsacm "github.com/aws/aws-sdk-go-v2/service/acm"
	acmtypes "github.com/aws/aws-sdk-go-v2/service/acm/types"
)

// ACMAPI is the subset of the AWS Certificate Manager client used by
// RealClient.
type ACMAPI interface {
	ImportCertificate(ctx context.Context, params *awsacm.ImportCertificateInput, optFns ...func(*awsacm.Options)) (*awsacm.ImportCertificateOutput, error)
	GetCertificate(ctx context.Context, params *awsacm.GetCertificateInput, optFns ...func(*awsacm.Options)) (*awsacm.GetCertificateOutput, error)
	DescribeCertificate(ctx context.Context, params *awsacm.DescribeCertificateInput, optFns ...func(*awsacm.Options)) (*awsacm.DescribeCertificateOutput, error)
	DeleteCertificate(ctx context.Context, params *awsacm.DeleteCertificateInput, optFns ...func(*awsacm.Options)) (*awsacm.DeleteCertificateOutput, error)
}

// RealClient implements Client using the AWS Certificate Manager API.
type RealClient struct {
	api ACMAPI
}

// NewRealClient creates a RealClient from an AWS config.
func NewRealClient(cfg aws.Config) *RealClient {
	return &RealClient{api: awsacm.NewFromConfig(cfg)}
}

// NewRealClientFromAPI creates a RealClient on top of an existing API
// implementation.
func NewRealClientFromAPI(api ACMAPI) *RealClient {
	return &RealClient{api: api}
}

// ImportCertificate imports the PEM bundle and returns the resulting ARN.
func (c *RealClient) ImportCertificate(ctx context.Context, in ImportInput) (string, error) {
	input := &awsacm.ImportCertificateInput{
		Certificate: in.CertPEM,
		PrivateKey:  in.KeyPEM,
	}
	if len(in.ChainPEM) > 0 {
		input.CertificateChain = in.ChainPEM
	}
	if in.CertificateARN != "" {
		input.CertificateArn = aws.String(in.CertificateARN)
	} else {
		// Tags are rejected on reimport, so only set them for a fresh
		// certificate.
		for k, v := range in.Tags {
			input.Tags = append(input.Tags, acmtypes.Tag{
				Key:   aws.String(k),
				Value: aws.String(v),
			})
		}
	}

	resp, err := c.api.ImportCertificate(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to import certificate: %w", err)
	}
	return aws.ToString(resp.CertificateArn), nil
}

// GetCertificate returns the certificate body for an ARN.
func (c *RealClient) GetCertificate(ctx context.Context, arn string) ([]byte, error) {
	resp, err := c.api.GetCertificate(ctx, &awsacm.GetCertificateInput{
		CertificateArn: aws.String(arn),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("certificate %s: %w", arn, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get certificate %s: %w", arn, err)
	}
	return []byte(aws.ToString(resp.Certificate)), nil
}

// DescribeCertificate returns metadata for an ARN, including its in-use
// list.
func (c *RealClient) DescribeCertificate(ctx context.Context, arn string) (*Detail, error) {
	resp, err := c.api.DescribeCertificate(ctx, &awsacm.DescribeCertificateInput{
		CertificateArn: aws.String(arn),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("certificate %s: %w", arn, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to describe certificate %s: %w", arn, err)
	}
	if resp.Certificate == nil {
		return nil, fmt.Errorf("certificate %s: %w", arn, ErrNotFound)
	}
	return &Detail{
		ARN:     aws.ToString(resp.Certificate.CertificateArn),
		InUseBy: resp.Certificate.InUseBy,
	}, nil
}

// DeleteCertificate deletes the certificate with the given ARN.
func (c *RealClient) DeleteCertificate(ctx context.Context, arn string) error {
	_, err := c.api.DeleteCertificate(ctx, &awsacm.DeleteCertificateInput{
		CertificateArn: aws.String(arn),
	})
	if err != nil {
		return fmt.Errorf("failed to delete certificate %s: %w", arn, err)
	}
	return nil
}
