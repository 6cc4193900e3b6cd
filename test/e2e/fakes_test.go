package e2e

import (
	"context"
	"fmt"
	"sync"

	"github.com/imamik/farmkit/internal/acm"
	"github.com/imamik/farmkit/internal/tracking"
)

// fakeCertService is an in-memory stand-in for the certificate service.
// Each certificate carries a drain counter: DescribeCertificate reports
// it in use until the counter reaches zero, mimicking consumers that
// release their reference over time.
type fakeCertService struct {
	mu      sync.Mutex
	nextID  int
	certs   map[string]*fakeCert
	imports int
}

type fakeCert struct {
	material []byte
	tags     map[string]string
	drain    int
}

func newFakeCertService() *fakeCertService {
	return &fakeCertService{certs: make(map[string]*fakeCert)}
}

func (f *fakeCertService) ImportCertificate(_ context.Context, in acm.ImportInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imports++

	if in.CertificateARN != "" {
		cert, ok := f.certs[in.CertificateARN]
		if !ok {
			return "", fmt.Errorf("certificate %s: %w", in.CertificateARN, acm.ErrNotFound)
		}
		cert.material = in.CertPEM
		return in.CertificateARN, nil
	}

	f.nextID++
	arn := fmt.Sprintf("arn:aws:acm:us-west-2:123456789012:certificate/%04d", f.nextID)
	f.certs[arn] = &fakeCert{material: in.CertPEM, tags: in.Tags}
	return arn, nil
}

func (f *fakeCertService) GetCertificate(_ context.Context, arn string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cert, ok := f.certs[arn]
	if !ok {
		return nil, fmt.Errorf("certificate %s: %w", arn, acm.ErrNotFound)
	}
	return cert.material, nil
}

func (f *fakeCertService) DescribeCertificate(_ context.Context, arn string) (*acm.Detail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cert, ok := f.certs[arn]
	if !ok {
		return nil, fmt.Errorf("certificate %s: %w", arn, acm.ErrNotFound)
	}
	detail := &acm.Detail{ARN: arn}
	if cert.drain > 0 {
		cert.drain--
		detail.InUseBy = []string{"arn:aws:elasticloadbalancing:listener/render-queue"}
	}
	return detail, nil
}

func (f *fakeCertService) DeleteCertificate(_ context.Context, arn string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.certs[arn]; !ok {
		return fmt.Errorf("certificate %s: %w", arn, acm.ErrNotFound)
	}
	delete(f.certs, arn)
	return nil
}

// setInUse arms the drain counter for a certificate.
func (f *fakeCertService) setInUse(arn string, drain int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.certs[arn].drain = drain
}

// fakeTable is an in-memory tracking table.
type fakeTable struct {
	mu   sync.Mutex
	rows map[string]tracking.Item
}

func newFakeTable() *fakeTable {
	return &fakeTable{rows: make(map[string]tracking.Item)}
}

func (f *fakeTable) GetItem(_ context.Context, pk, sk string) (map[string]string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[pk+"/"+sk]
	if !ok {
		return nil, false, nil
	}
	return row.Attributes, true, nil
}

func (f *fakeTable) PutItem(_ context.Context, in tracking.PutInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := in.PrimaryKey + "/" + in.SortKey
	if _, exists := f.rows[k]; exists && !in.AllowOverwrite {
		return tracking.ErrAlreadyTracked
	}
	f.rows[k] = in.Item
	return nil
}

func (f *fakeTable) DeleteItem(_ context.Context, pk, sk string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, pk+"/"+sk)
	return nil
}

func (f *fakeTable) Query(_ context.Context, pk string, _ int32) ([]tracking.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []tracking.Item
	for _, row := range f.rows {
		if row.PrimaryKey == pk {
			items = append(items, row)
		}
	}
	return items, nil
}

func (f *fakeTable) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

// fakePassphrases serves a fixed passphrase for every secret id.
type fakePassphrases struct{}

func (fakePassphrases) GetSecretValue(context.Context, string) ([]byte, error) {
	return []byte("renderfarm"), nil
}
