package model

import "crypto/tls"

// CertificateStatus tracks whether a client certificate has been imported
type CertificateStatus int

const (
	CertificateUnconfirmed CertificateStatus = iota
	CertificateOK
	CertificateError
)

var certificateStatusNames = []string{"UNCONFIRMED", "OK", "ERROR"}

func (s CertificateStatus) String() string {
	return enumName(certificateStatusNames, "CertificateStatus", int(s))
}

func (s CertificateStatus) MarshalJSON() ([]byte, error) {
	return marshalEnum(certificateStatusNames, "certificate status", int(s))
}

func (s *CertificateStatus) UnmarshalJSON(data []byte) error {
	i, err := unmarshalEnum(data, certificateStatusNames, "certificate status")
	if err != nil {
		return err
	}
	*s = CertificateStatus(i)
	return nil
}

// Certificate holds the client identity configuration for mutual TLS.
// Identity is only set after a successful import and is never persisted.
type Certificate struct {
	Required     bool              `json:"required"`
	FilePath     string            `json:"file_path"`
	Passphrase   string            `json:"passphrase"`
	Status       CertificateStatus `json:"status"`
	Notification *Notification     `json:"notification"`

	Identity *tls.Certificate `json:"-"`
}

// SetRequired toggles mutual TLS. Turning it off drops the path, passphrase,
// identity and notification so no secrets stay resident.
func (c *Certificate) SetRequired(required bool) {
	if !required {
		*c = Certificate{}
		return
	}
	c.Required = true
}

// CanImport reports whether an import could be attempted lazily
func (c *Certificate) CanImport() bool {
	return c.FilePath != "" && c.Passphrase != ""
}

// Clone copies c. The identity handle is shared since it is never mutated.
func (c Certificate) Clone() Certificate {
	cp := c
	cp.Notification = c.Notification.clone()
	return cp
}
