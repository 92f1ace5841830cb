package engine

import "reqwestur/internal/model"

// CheckSendable reports whether req may be sent given the certificate state:
// the URI parses, a required certificate has been imported, and neither the
// address nor the certificate carries an ERROR notification.
func CheckSendable(req *model.Request, cert *model.Certificate) bool {
	_, err := model.ParseURI(req.Address.URI)
	uriOK := err == nil

	certOK := !cert.Required || cert.Status == model.CertificateOK

	noErrors := !cert.Notification.IsError() && !req.Address.Notification.IsError()

	return uriOK && certOK && noErrors
}
