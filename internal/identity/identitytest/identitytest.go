// Package identitytest builds throwaway PKCS#12 client identities for tests.
package identitytest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"software.sslmate.com/src/go-pkcs12"
)

// CommonName is the subject of every generated client certificate
const CommonName = "reqwestur-test-client"

// Encode returns a self-signed client certificate wrapped in PKCS#12 and
// protected by passphrase.
func Encode(t testing.TB, passphrase string) ([]byte, *x509.Certificate) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: CommonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}

	data, err := pkcs12.Modern.Encode(key, cert, nil, passphrase)
	if err != nil {
		t.Fatalf("encode pkcs12: %v", err)
	}
	return data, cert
}

// WriteFile encodes a new identity into dir/client.p12 and returns its path
func WriteFile(t testing.TB, dir, passphrase string) (string, *x509.Certificate) {
	t.Helper()

	data, cert := Encode(t, passphrase)
	path := filepath.Join(dir, "client.p12")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write pkcs12: %v", err)
	}
	return path, cert
}
