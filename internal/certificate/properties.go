// Package certificate implements the certificate-import custom resource:
// importing a PEM bundle into AWS Certificate Manager, tracking the
// resulting ARN for idempotency, rotating in place on Update, and
// deleting only once the certificate is unreferenced.
package certificate

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Tag is one key/value pair attached to the imported certificate.
type Tag struct {
	Key   string `mapstructure:"Key"`
	Value string `mapstructure:"Value"`
}

// PemBundle carries the certificate material for one import. Cert,
// CertChain and Key are PEM text; Passphrase is the id of the secret
// holding the private-key passphrase.
type PemBundle struct {
	Cert       string `mapstructure:"Cert"`
	CertChain  string `mapstructure:"CertChain"`
	Key        string `mapstructure:"Key"`
	Passphrase string `mapstructure:"Passphrase"`
}

// Properties is the typed form of the resource property bag.
type Properties struct {
	Tags               []Tag     `mapstructure:"Tags"`
	X509CertificatePem PemBundle `mapstructure:"X509CertificatePem"`
}

// ParseProperties decodes and structurally validates the raw property
// bag. It never trusts the shape implicitly; anything malformed fails
// here, before any external call is made.
func ParseProperties(raw map[string]any) (*Properties, error) {
	if raw == nil {
		return nil, errors.New("resource properties are missing")
	}

	var props Properties
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &props,
		ErrorUnused: false,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("malformed resource properties: %w", err)
	}

	if err := props.validate(); err != nil {
		return nil, err
	}
	return &props, nil
}

func (p *Properties) validate() error {
	pem := p.X509CertificatePem
	if pem.Cert == "" {
		return errors.New("X509CertificatePem.Cert is required")
	}
	if pem.Key == "" {
		return errors.New("X509CertificatePem.Key is required")
	}
	if pem.Passphrase == "" {
		return errors.New("X509CertificatePem.Passphrase is required")
	}
	for i, tag := range p.Tags {
		if tag.Key == "" {
			return fmt.Errorf("Tags[%d] is missing a Key", i)
		}
	}
	return nil
}

// TagMap returns the tags as a map for the import call.
func (p *Properties) TagMap() map[string]string {
	if len(p.Tags) == 0 {
		return nil
	}
	tags := make(map[string]string, len(p.Tags))
	for _, tag := range p.Tags {
		tags[tag.Key] = tag.Value
	}
	return tags
}
