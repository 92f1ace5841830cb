package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqwestur/internal/identity/identitytest"
	"reqwestur/internal/model"
)

func TestImport(t *testing.T) {
	path, leaf := identitytest.WriteFile(t, t.TempDir(), "s3cret")

	id, err := Import(path, "s3cret")
	require.NoError(t, err)
	require.NotNil(t, id.Leaf)
	assert.Equal(t, identitytest.CommonName, id.Leaf.Subject.CommonName)
	assert.Equal(t, leaf.Raw, id.Certificate[0])
	assert.NotNil(t, id.PrivateKey)
}

func TestImportWrongPassphrase(t *testing.T) {
	path, _ := identitytest.WriteFile(t, t.TempDir(), "s3cret")

	_, err := Import(path, "nope")
	assert.Error(t, err)
}

func TestImportMissingFile(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "missing.p12"), "pw")
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte("not a pkcs12 container"), "pw")
	assert.Error(t, err)
}

func TestLoaderLoadSuccess(t *testing.T) {
	path, _ := identitytest.WriteFile(t, t.TempDir(), "pw")
	cert := &model.Certificate{Required: true, FilePath: path, Passphrase: "pw"}

	require.NoError(t, NewLoader(nil).Load(cert))

	assert.Equal(t, model.CertificateOK, cert.Status)
	require.NotNil(t, cert.Notification)
	assert.Equal(t, model.NotificationInfo, cert.Notification.Kind)
	assert.Equal(t, MsgLoaded, cert.Notification.Message)
	assert.NotNil(t, cert.Identity)
}

func TestLoaderLoadFailureDropsIdentity(t *testing.T) {
	dir := t.TempDir()
	path, _ := identitytest.WriteFile(t, dir, "pw")
	loader := NewLoader(nil)

	cert := &model.Certificate{Required: true, FilePath: path, Passphrase: "pw"}
	require.NoError(t, loader.Load(cert))
	require.NotNil(t, cert.Identity)

	cert.Passphrase = "wrong"
	require.Error(t, loader.Load(cert))

	assert.Nil(t, cert.Identity)
	assert.Equal(t, model.CertificateError, cert.Status)
	require.NotNil(t, cert.Notification)
	assert.Equal(t, model.NotificationError, cert.Notification.Kind)
	assert.NotEmpty(t, cert.Notification.Message)
}

func TestEnsureLoaded(t *testing.T) {
	path, _ := identitytest.WriteFile(t, t.TempDir(), "pw")
	loader := NewLoader(nil)

	// No passphrase: no attempt is made and the status is untouched
	cert := &model.Certificate{Required: true, FilePath: path}
	assert.False(t, loader.EnsureLoaded(cert))
	assert.Equal(t, model.CertificateUnconfirmed, cert.Status)
	assert.Nil(t, cert.Notification)

	cert.Passphrase = "pw"
	assert.True(t, loader.EnsureLoaded(cert))
	assert.Equal(t, model.CertificateOK, cert.Status)

	// A cached identity is reused even if the file disappears
	require.NoError(t, os.Remove(path))
	assert.True(t, loader.EnsureLoaded(cert))
}
