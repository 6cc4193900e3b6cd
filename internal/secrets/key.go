package secrets

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"errors"
	"fmt"
	"hash"

	"golang.org/x/crypto/pbkdf2"
)

// ErrUnsupportedKeyEncryption is returned for key encodings the importer
// cannot decrypt.
var ErrUnsupportedKeyEncryption = errors.New("unsupported private key encryption")

// DecryptPrivateKey returns the plaintext PEM encoding of a private key.
// Unencrypted keys pass through unchanged. Supported encrypted forms are
// RFC 1423 blocks (DEK-Info header) and PKCS#8 "ENCRYPTED PRIVATE KEY"
// with PBES2/PBKDF2.
func DecryptPrivateKey(keyPEM, passphrase []byte) ([]byte, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, errors.New("private key is not valid PEM")
	}

	switch {
	//nolint:staticcheck // RFC 1423 is what openssl-encrypted PEM keys use.
	case x509.IsEncryptedPEMBlock(block):
		//nolint:staticcheck
		der, err := x509.DecryptPEMBlock(block, passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt private key: %w", err)
		}
		return pem.EncodeToMemory(&pem.Block{Type: block.Type, Bytes: der}), nil

	case block.Type == "ENCRYPTED PRIVATE KEY":
		der, err := decryptPKCS8(block.Bytes, passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt private key: %w", err)
		}
		return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil

	default:
		return keyPEM, nil
	}
}

// PKCS#5/PKCS#8 object identifiers.
var (
	oidPBES2      = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 5, 13}
	oidPBKDF2     = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 5, 12}
	oidHMACSHA1   = asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 7}
	oidHMACSHA256 = asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 9}
	oidHMACSHA384 = asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 10}
	oidHMACSHA512 = asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 11}
	oidAES128CBC  = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 2}
	oidAES192CBC  = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 22}
	oidAES256CBC  = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 42}
	oidDESEDE3CBC = asn1.ObjectIdentifier{1, 2, 840, 113549, 3, 7}
)

type encryptedPrivateKeyInfo struct {
	Algo          pkix.AlgorithmIdentifier
	EncryptedData []byte
}

type pbes2Params struct {
	KeyDerivationFunc pkix.AlgorithmIdentifier
	EncryptionScheme  pkix.AlgorithmIdentifier
}

type pbkdf2Params struct {
	Salt       []byte
	Iterations int
	KeyLength  int                      `asn1:"optional"`
	PRF        pkix.AlgorithmIdentifier `asn1:"optional"`
}

func decryptPKCS8(der, passphrase []byte) ([]byte, error) {
	var info encryptedPrivateKeyInfo
	if _, err := asn1.Unmarshal(der, &info); err != nil {
		return nil, fmt.Errorf("malformed EncryptedPrivateKeyInfo: %w", err)
	}
	if !info.Algo.Algorithm.Equal(oidPBES2) {
		return nil, fmt.Errorf("%w: scheme %v", ErrUnsupportedKeyEncryption, info.Algo.Algorithm)
	}

	var params pbes2Params
	if _, err := asn1.Unmarshal(info.Algo.Parameters.FullBytes, &params); err != nil {
		return nil, fmt.Errorf("malformed PBES2 parameters: %w", err)
	}
	if !params.KeyDerivationFunc.Algorithm.Equal(oidPBKDF2) {
		return nil, fmt.Errorf("%w: KDF %v", ErrUnsupportedKeyEncryption, params.KeyDerivationFunc.Algorithm)
	}

	var kdf pbkdf2Params
	if _, err := asn1.Unmarshal(params.KeyDerivationFunc.Parameters.FullBytes, &kdf); err != nil {
		return nil, fmt.Errorf("malformed PBKDF2 parameters: %w", err)
	}

	prf, err := prfFor(kdf.PRF)
	if err != nil {
		return nil, err
	}

	keyLen, blockCipher, err := cipherFor(params.EncryptionScheme.Algorithm)
	if err != nil {
		return nil, err
	}
	if kdf.KeyLength > 0 {
		keyLen = kdf.KeyLength
	}

	var iv []byte
	if _, err := asn1.Unmarshal(params.EncryptionScheme.Parameters.FullBytes, &iv); err != nil {
		return nil, fmt.Errorf("malformed cipher IV: %w", err)
	}

	key := pbkdf2.Key(passphrase, kdf.Salt, kdf.Iterations, keyLen, prf)
	block, err := blockCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != block.BlockSize() || len(info.EncryptedData)%block.BlockSize() != 0 {
		return nil, errors.New("malformed encrypted key data")
	}

	plaintext := make([]byte, len(info.EncryptedData))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, info.EncryptedData)

	return stripPadding(plaintext, block.BlockSize())
}

func prfFor(algo pkix.AlgorithmIdentifier) (func() hash.Hash, error) {
	switch {
	case algo.Algorithm == nil, algo.Algorithm.Equal(oidHMACSHA1):
		return sha1.New, nil
	case algo.Algorithm.Equal(oidHMACSHA256):
		return sha256.New, nil
	case algo.Algorithm.Equal(oidHMACSHA384):
		return sha512.New384, nil
	case algo.Algorithm.Equal(oidHMACSHA512):
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("%w: PRF %v", ErrUnsupportedKeyEncryption, algo.Algorithm)
	}
}

func cipherFor(oid asn1.ObjectIdentifier) (int, func([]byte) (cipher.Block, error), error) {
	switch {
	case oid.Equal(oidAES128CBC):
		return 16, aes.NewCipher, nil
	case oid.Equal(oidAES192CBC):
		return 24, aes.NewCipher, nil
	case oid.Equal(oidAES256CBC):
		return 32, aes.NewCipher, nil
	case oid.Equal(oidDESEDE3CBC):
		return 24, des.NewTripleDESCipher, nil
	default:
		return 0, nil, fmt.Errorf("%w: cipher %v", ErrUnsupportedKeyEncryption, oid)
	}
}

// stripPadding removes and verifies PKCS#7 padding. A padding mismatch
// almost always means a wrong passphrase.
func stripPadding(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("decryption produced no data")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.New("incorrect passphrase or corrupted key")
	}
	if !bytes.Equal(data[len(data)-n:], bytes.Repeat([]byte{byte(n)}, n)) {
		return nil, errors.New("incorrect passphrase or corrupted key")
	}
	return data[:len(data)-n], nil
}
