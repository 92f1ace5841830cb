// Package identity loads TLS client identities from PKCS#12 containers.
package identity

import (
	"crypto/tls"
	"fmt"
	"os"

	"go.uber.org/zap"
	"software.sslmate.com/src/go-pkcs12"

	"reqwestur/internal/model"
)

const (
	// MsgLoaded is attached to a certificate after a successful import
	MsgLoaded = "Certificate loaded successfully!"
)

// Import reads a PKCS#12 file and decrypts it with passphrase. The error text
// is the OS error for unreadable files and the parser error otherwise.
func Import(filePath, passphrase string) (*tls.Certificate, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return Decode(data, passphrase)
}

// Decode builds a client identity from PKCS#12 bytes
func Decode(data []byte, passphrase string) (*tls.Certificate, error) {
	key, leaf, chain, err := pkcs12.DecodeChain(data, passphrase)
	if err != nil {
		return nil, err
	}
	if leaf == nil {
		return nil, fmt.Errorf("pkcs12: no certificate found")
	}

	cert := &tls.Certificate{
		Certificate: [][]byte{leaf.Raw},
		PrivateKey:  key,
		Leaf:        leaf,
	}
	for _, ca := range chain {
		cert.Certificate = append(cert.Certificate, ca.Raw)
	}
	return cert, nil
}

// Loader imports identities into a Certificate and records the outcome on it
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader. A nil logger disables logging.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// Load imports cert.FilePath with cert.Passphrase. On success the identity is
// cached and status becomes OK with an INFO notification. On failure any
// cached identity is dropped and status becomes ERROR with the failure text.
func (l *Loader) Load(cert *model.Certificate) error {
	id, err := Import(cert.FilePath, cert.Passphrase)
	if err != nil {
		l.logger.Warn("certificate import failed",
			zap.String("file", cert.FilePath),
			zap.Error(err))
		cert.Identity = nil
		cert.Status = model.CertificateError
		cert.Notification = model.NewNotification(model.NotificationError, err.Error())
		return err
	}

	l.logger.Info("certificate imported",
		zap.String("file", cert.FilePath),
		zap.String("subject", id.Leaf.Subject.String()))
	cert.Identity = id
	cert.Status = model.CertificateOK
	cert.Notification = model.NewNotification(model.NotificationInfo, MsgLoaded)
	return nil
}

// EnsureLoaded imports lazily: only when no identity is cached and both a file
// path and a passphrase are present. It reports whether an identity is available.
func (l *Loader) EnsureLoaded(cert *model.Certificate) bool {
	if cert.Identity != nil {
		return true
	}
	if !cert.CanImport() {
		return false
	}
	return l.Load(cert) == nil
}
