// Package handlers implements the execution logic behind the CLI
// commands: wiring configuration into AWS clients and driving the
// lifecycle dispatch.
package handlers

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-logr/logr"

	"github.com/imamik/farmkit/internal/acm"
	"github.com/imamik/farmkit/internal/audit"
	"github.com/imamik/farmkit/internal/certificate"
	"github.com/imamik/farmkit/internal/config"
	"github.com/imamik/farmkit/internal/secrets"
	"github.com/imamik/farmkit/internal/tracking"
)

// clients bundles the external collaborators one invocation needs.
type clients struct {
	certs    acm.Client
	store    certificate.TrackingStore
	secrets  secrets.Provider
	recorder *audit.Recorder
}

// Factory function variable so tests can inject fakes.
var buildClients = defaultBuildClients

func defaultBuildClients(ctx context.Context, cfg *config.Config, log logr.Logger) (*clients, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.Credentials.IsSet() {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.Credentials.AccessKeyID,
				cfg.Credentials.SecretAccessKey,
				cfg.Credentials.SessionToken,
			),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if cfg.Endpoint != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	c := &clients{
		certs:   acm.NewRealClient(awsCfg),
		store:   tracking.NewStore(dynamodb.NewFromConfig(awsCfg), cfg.TableName),
		secrets: secrets.NewClient(awsCfg),
	}
	if cfg.AuditBucket != "" {
		c.recorder = audit.NewRecorder(s3.NewFromConfig(awsCfg), cfg.AuditBucket, log)
	}
	return c, nil
}
