package certificate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/farmkit/internal/acm"
	"github.com/imamik/farmkit/internal/lifecycle"
	"github.com/imamik/farmkit/internal/secrets"
	"github.com/imamik/farmkit/internal/tracking"
	"github.com/imamik/farmkit/internal/util/backoff"
)

const (
	// sortKeyCertificate is the fixed sort key: a certificate resource
	// owns exactly one tracked sub-resource.
	sortKeyCertificate = "certificate"

	// attrARN is the tracking attribute holding the certificate ARN.
	attrARN = "ARN"

	// defaultDeleteAttempts bounds the wait for a certificate to become
	// unreferenced before deletion.
	defaultDeleteAttempts = 10
)

// TrackingStore is the slice of the tracking table the importer uses.
type TrackingStore interface {
	GetItem(ctx context.Context, primaryKey, sortKey string) (map[string]string, bool, error)
	PutItem(ctx context.Context, in tracking.PutInput) error
	DeleteItem(ctx context.Context, primaryKey, sortKey string) error
	Query(ctx context.Context, primaryKey string, pageLimit int32) ([]tracking.Item, error)
}

// BackoffFactory builds a fresh generator per retry loop.
type BackoffFactory func() *backoff.Generator

// Importer implements the certificate-import custom resource handler.
type Importer struct {
	certs   acm.Client
	store   TrackingStore
	secrets secrets.Provider
	log     logr.Logger

	importBackoff BackoffFactory
	deleteBackoff BackoffFactory
}

var _ lifecycle.Handler = (*Importer)(nil)

// Option is a functional option for Importer construction.
type Option func(*Importer)

// WithImportBackoff overrides the backoff policy of the import retry
// loop.
func WithImportBackoff(f BackoffFactory) Option {
	return func(i *Importer) {
		i.importBackoff = f
	}
}

// WithDeleteBackoff overrides the backoff policy of the delete wait
// loop.
func WithDeleteBackoff(f BackoffFactory) Option {
	return func(i *Importer) {
		i.deleteBackoff = f
	}
}

// NewImporter wires an Importer with its collaborators.
func NewImporter(certs acm.Client, store TrackingStore, provider secrets.Provider, log logr.Logger, opts ...Option) *Importer {
	i := &Importer{
		certs:   certs,
		store:   store,
		secrets: provider,
		log:     log,
		importBackoff: func() *backoff.Generator {
			return backoff.New()
		},
		deleteBackoff: func() *backoff.Generator {
			return backoff.New(backoff.WithMaxAttempts(defaultDeleteAttempts))
		},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ValidateInput implements lifecycle.Handler.
func (i *Importer) ValidateInput(props map[string]any) error {
	_, err := ParseProperties(props)
	return err
}

// PhysicalID derives a stable identity from the stack and logical
// resource ids, so retried Creates agree on the tracking primary key
// without consulting any prior state.
func (i *Importer) PhysicalID(event lifecycle.Event) string {
	sum := sha256.Sum256([]byte(event.StackID + "|" + event.LogicalResourceID))
	return hex.EncodeToString(sum[:])[:32]
}

// DoCreate imports the certificate, or reimports over the tracked ARN
// when this physical id has already been created (a retried Create or a
// rotation delivered as Create).
func (i *Importer) DoCreate(ctx context.Context, physicalID string, props map[string]any) (map[string]string, error) {
	return i.ensureImported(ctx, physicalID, props)
}

// DoUpdate rotates the certificate material in place: the reimport path
// of Create under a different entry point, keeping the ARN stable.
func (i *Importer) DoUpdate(ctx context.Context, physicalID string, props map[string]any) (map[string]string, error) {
	return i.ensureImported(ctx, physicalID, props)
}

func (i *Importer) ensureImported(ctx context.Context, physicalID string, props map[string]any) (map[string]string, error) {
	parsed, err := ParseProperties(props)
	if err != nil {
		return nil, err
	}

	keyPEM, err := i.decryptKey(ctx, parsed)
	if err != nil {
		return nil, err
	}

	attrs, found, err := i.store.GetItem(ctx, physicalID, sortKeyCertificate)
	if err != nil {
		return nil, err
	}

	if found {
		arn, err := i.reimport(ctx, physicalID, attrs, parsed, keyPEM)
		if err != nil {
			importsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		importsTotal.WithLabelValues("rotated").Inc()
		return map[string]string{"CertificateArn": arn}, nil
	}

	arn, err := i.importNew(ctx, physicalID, parsed, keyPEM)
	if err != nil {
		importsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	importsTotal.WithLabelValues("imported").Inc()
	return map[string]string{"CertificateArn": arn}, nil
}

func (i *Importer) decryptKey(ctx context.Context, parsed *Properties) ([]byte, error) {
	passphrase, err := i.secrets.GetSecretValue(ctx, parsed.X509CertificatePem.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch key passphrase: %w", err)
	}
	keyPEM, err := secrets.DecryptPrivateKey([]byte(parsed.X509CertificatePem.Key), passphrase)
	if err != nil {
		return nil, err
	}
	return keyPEM, nil
}

// reimport replaces the material behind the already-tracked ARN. The
// tracking row needs no rewrite: the ARN does not change.
func (i *Importer) reimport(ctx context.Context, physicalID string, attrs map[string]string, parsed *Properties, keyPEM []byte) (string, error) {
	arn := attrs[attrARN]
	if arn == "" {
		return "", fmt.Errorf("tracking row for %s has no ARN attribute", physicalID)
	}

	// Confirm the tracked certificate still exists before touching it.
	// If the table and the service disagree, fail loudly: silently
	// recreating would leak an orphaned certificate.
	if _, err := i.certs.GetCertificate(ctx, arn); err != nil {
		if acm.IsNotFound(err) {
			return "", fmt.Errorf("tracking table maps %s to %s but the certificate service has no record of it", physicalID, arn)
		}
		return "", err
	}

	i.log.Info("reimporting certificate", "physicalId", physicalID, "arn", arn)
	if _, err := i.importWithRetry(ctx, acm.ImportInput{
		CertPEM:        []byte(parsed.X509CertificatePem.Cert),
		ChainPEM:       []byte(parsed.X509CertificatePem.CertChain),
		KeyPEM:         keyPEM,
		CertificateARN: arn,
	}); err != nil {
		return "", err
	}
	return arn, nil
}

func (i *Importer) importNew(ctx context.Context, physicalID string, parsed *Properties, keyPEM []byte) (string, error) {
	i.log.Info("importing new certificate", "physicalId", physicalID)
	arn, err := i.importWithRetry(ctx, acm.ImportInput{
		CertPEM:  []byte(parsed.X509CertificatePem.Cert),
		ChainPEM: []byte(parsed.X509CertificatePem.CertChain),
		KeyPEM:   keyPEM,
		Tags:     parsed.TagMap(),
	})
	if err != nil {
		return "", err
	}
	if arn == "" {
		return "", errors.New("certificate import returned an empty ARN")
	}

	err = i.store.PutItem(ctx, tracking.PutInput{
		Item: tracking.Item{
			PrimaryKey: physicalID,
			SortKey:    sortKeyCertificate,
			Attributes: map[string]string{attrARN: arn},
		},
	})
	if err != nil {
		if errors.Is(err, tracking.ErrAlreadyTracked) {
			return "", fmt.Errorf("concurrent create detected for %s: %w", physicalID, err)
		}
		return "", err
	}
	return arn, nil
}

// importWithRetry retries throttled imports with bounded backoff. An
// exhausted budget surfaces as its own error so callers can tell
// exhaustion from a single hard failure.
func (i *Importer) importWithRetry(ctx context.Context, in acm.ImportInput) (string, error) {
	g := i.importBackoff()
	var lastErr error
	for g.ShouldContinue() {
		arn, err := i.certs.ImportCertificate(ctx, in)
		if err == nil {
			return arn, nil
		}
		if !acm.IsThrottling(err) {
			return "", err
		}
		lastErr = err
		importRetriesTotal.Inc()
		i.log.Info("certificate import throttled, backing off", "attempt", g.Attempt()+1)
		if err := g.Backoff(ctx); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("certificate import failed after %d attempts: %w", g.MaxAttempts(), lastErr)
}

// DoDelete waits until the tracked certificate is unreferenced, deletes
// it, and only then removes the tracking row.
func (i *Importer) DoDelete(ctx context.Context, physicalID string, _ map[string]any) (map[string]string, error) {
	rows, err := i.store.Query(ctx, physicalID, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		// Never created, or a retried Delete that already finished.
		i.log.Info("no tracked certificate, nothing to delete", "physicalId", physicalID)
		return nil, nil
	}

	row := rows[0]
	arn := row.Attributes[attrARN]
	if arn == "" {
		return nil, fmt.Errorf("tracking row for %s has no ARN attribute", physicalID)
	}

	if err := i.waitUntilUnused(ctx, arn); err != nil {
		deletesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := i.certs.DeleteCertificate(ctx, arn); err != nil {
		if acm.IsAccessDenied(err) {
			// Credentials forbid cleanup; the operator has to remove the
			// certificate by hand. Still fail the operation so the
			// orchestration layer does not believe the delete happened.
			i.log.Info("WARNING: access denied deleting certificate; it must be cleaned up manually", "arn", arn)
			deletesTotal.WithLabelValues("access_denied").Inc()
			return nil, err
		}
		deletesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := i.store.DeleteItem(ctx, row.PrimaryKey, row.SortKey); err != nil {
		return nil, err
	}
	deletesTotal.WithLabelValues("deleted").Inc()
	i.log.Info("certificate deleted", "physicalId", physicalID, "arn", arn)
	return nil, nil
}

// waitUntilUnused polls the in-use list with backoff until it drains or
// the attempt budget runs out. Deleting a referenced certificate could
// break whatever still points at it, so exhaustion is a hard failure.
func (i *Importer) waitUntilUnused(ctx context.Context, arn string) error {
	g := i.deleteBackoff()
	for {
		detail, err := i.certs.DescribeCertificate(ctx, arn)
		if err != nil {
			return err
		}
		if len(detail.InUseBy) == 0 {
			return nil
		}
		if !g.ShouldContinue() {
			return fmt.Errorf("certificate %s is still in use after %d attempts", arn, g.MaxAttempts())
		}
		i.log.Info("certificate still in use, waiting", "arn", arn, "inUseBy", len(detail.InUseBy), "attempt", g.Attempt()+1)
		if err := g.Backoff(ctx); err != nil {
			return err
		}
	}
}
