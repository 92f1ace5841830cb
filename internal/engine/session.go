// Package engine holds the shared request state and sends requests off the caller's goroutine.
package engine

import (
	"crypto/x509"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reqwestur/internal/identity"
	"reqwestur/internal/model"
)

const (
	MsgSent          = "Sent successfully."
	MsgNoCertificate = "Cannot find certificates, have you added them?"
	MsgNotSendable   = "Request is not ready to send, check the URL and certificate."
	MsgSaved         = "Saved request successfully!"
	MsgSaveFailed    = "Failed to save request!"
	MsgTruncated     = "Sent successfully, but the response body was truncated."
)

// Options configures a Session
type Options struct {
	// RootCAs overrides the system pool used to verify servers
	RootCAs *x509.CertPool

	// Timeout of zero keeps the transport defaults
	Timeout time.Duration

	// MaxResponseSize of zero keeps the client's default body limit
	MaxResponseSize int64

	Logger *zap.Logger

	// Clock defaults to time.Now
	Clock func() time.Time
}

// Session is the lock-protected cell holding the current request, history,
// saved requests and certificate. Readers get copies; the lock is never held
// across network I/O.
type Session struct {
	mu           sync.Mutex
	state        *model.AppState
	notification *model.Notification

	loader  *identity.Loader
	rootCAs *x509.CertPool
	timeout time.Duration
	maxBody int64
	logger  *zap.Logger
	clock   func() time.Time
}

// NewSession wraps state. A nil state starts from the defaults.
func NewSession(state *model.AppState, opts Options) *Session {
	if state == nil {
		state = model.DefaultAppState()
	}
	state.Normalize()

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Session{
		state:   state,
		loader:  identity.NewLoader(logger.Named("identity")),
		rootCAs: opts.RootCAs,
		timeout: opts.Timeout,
		maxBody: opts.MaxResponseSize,
		logger:  logger,
		clock:   clock,
	}
}

// Snapshot returns a deep copy of the whole state, suitable for persisting
func (s *Session) Snapshot() *model.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *s.state
	cp.Request = s.state.Request.Clone()
	cp.History = cloneRequests(s.state.History)
	cp.SavedRequests = cloneRequests(s.state.SavedRequests)
	cp.Certificate = s.state.Certificate.Clone()
	return &cp
}

// Request returns a copy of the current request
func (s *Session) Request() model.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Request.Clone()
}

// Update applies fn to the current request and recomputes its sendability
func (s *Session) Update(fn func(r *model.Request)) model.Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state.Request)
	s.state.Request.Sendable = CheckSendable(&s.state.Request, &s.state.Certificate)
	return s.state.Request.Clone()
}

// Refresh recomputes the cached sendable flag, as a render pass would
func (s *Session) Refresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := CheckSendable(&s.state.Request, &s.state.Certificate)
	s.state.Request.Sendable = ok
	return ok
}

// Notification returns the latest application-level message, if any
func (s *Session) Notification() *model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notification == nil {
		return nil
	}
	n := *s.notification
	return &n
}

// SetDarkMode toggles the persisted display preference
func (s *Session) SetDarkMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.DarkMode = on
}

// Certificate returns a copy of the certificate configuration
func (s *Session) Certificate() model.Certificate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Certificate.Clone()
}

// SetCertificateRequired toggles mutual TLS. Disabling it resets the certificate.
func (s *Session) SetCertificateRequired(required bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Certificate.SetRequired(required)
	s.state.Request.Sendable = CheckSendable(&s.state.Request, &s.state.Certificate)
}

// ConfigureCertificate records the file and passphrase to import from and
// marks the certificate required. Any cached identity is dropped.
func (s *Session) ConfigureCertificate(filePath, passphrase string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Certificate = model.Certificate{
		Required:   true,
		FilePath:   filePath,
		Passphrase: passphrase,
	}
	s.state.Request.Sendable = CheckSendable(&s.state.Request, &s.state.Certificate)
}

// ImportCertificate imports the configured certificate on explicit request,
// overwriting any cached identity.
func (s *Session) ImportCertificate() (model.Certificate, error) {
	cert := s.Certificate()
	err := s.loader.Load(&cert)
	s.publishCertificate(cert)
	return cert.Clone(), err
}

// publishCertificate writes cert back unless the user pointed the
// certificate elsewhere while the import ran.
func (s *Session) publishCertificate(cert model.Certificate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := &s.state.Certificate
	if cur.FilePath != cert.FilePath || cur.Passphrase != cert.Passphrase || cur.Required != cert.Required {
		return
	}
	*cur = cert
	s.state.Request.Sendable = CheckSendable(&s.state.Request, cur)
}

// History returns copies of the completed requests, oldest first
func (s *Session) History() []model.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRequests(s.state.History)
}

// ClearHistory drops every history entry
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.History = []model.Request{}
}

// OpenHistory replaces the current request with a copy of history entry i
func (s *Session) OpenHistory(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.state.History) {
		return fmt.Errorf("history entry %d out of range", i+1)
	}
	s.state.Request = s.state.History[i].Clone()
	s.state.Request.ID = ""
	s.state.Request.Sendable = CheckSendable(&s.state.Request, &s.state.Certificate)
	return nil
}

// SaveHistoryEntry stores history entry i as a saved template
func (s *Session) SaveHistoryEntry(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.state.History) {
		return fmt.Errorf("history entry %d out of range", i+1)
	}
	s.state.SavedRequests = append(s.state.SavedRequests, s.state.History[i].Template())
	return nil
}

// SavedRequests returns copies of the saved templates
func (s *Session) SavedRequests() []model.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRequests(s.state.SavedRequests)
}

// SaveRequest stores the current request as a template. A request without a
// URI is refused with a WARN notification.
func (s *Session) SaveRequest() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Request.Address.URI == "" {
		s.notification = model.NewNotification(model.NotificationWarn, MsgSaveFailed)
		return fmt.Errorf("cannot save a request without a URI")
	}
	s.state.SavedRequests = append(s.state.SavedRequests, s.state.Request.Template())
	s.notification = model.NewNotification(model.NotificationInfo, MsgSaved)
	return nil
}

// AddSavedRequests appends imported templates
func (s *Session) AddSavedRequests(reqs []model.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range reqs {
		s.state.SavedRequests = append(s.state.SavedRequests, r.Template())
	}
}

// OpenSaved replaces the current request with a copy of saved template i
func (s *Session) OpenSaved(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.state.SavedRequests) {
		return fmt.Errorf("saved request %d out of range", i+1)
	}
	s.state.Request = s.state.SavedRequests[i].Clone()
	s.state.Request.Address.Validate()
	s.state.Request.Sendable = CheckSendable(&s.state.Request, &s.state.Certificate)
	return nil
}

// DeleteSaved removes saved template i
func (s *Session) DeleteSaved(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.state.SavedRequests) {
		return fmt.Errorf("saved request %d out of range", i+1)
	}
	s.state.SavedRequests = append(s.state.SavedRequests[:i], s.state.SavedRequests[i+1:]...)
	return nil
}

func newHistoryID() string {
	return uuid.New().String()[:8]
}

func cloneRequests(reqs []model.Request) []model.Request {
	out := make([]model.Request, len(reqs))
	for i, r := range reqs {
		out[i] = r.Clone()
	}
	return out
}
