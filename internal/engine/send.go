package engine

import (
	"context"
	"crypto/tls"
	"errors"

	"go.uber.org/zap"

	httpclient "reqwestur/internal/http"
	"reqwestur/internal/model"
)

var (
	// ErrNotSendable is returned when the request fails validation at dispatch time
	ErrNotSendable = errors.New("request is not sendable")

	// ErrNoIdentity is returned when a certificate is required but no identity could be loaded
	ErrNoIdentity = errors.New("client certificate required but not available")
)

// Result is the outcome of an asynchronous send
type Result struct {
	Response model.Response
	Err      error
}

// Send runs a complete attempt on the calling goroutine. Every completed
// exchange, including transport failures and 4xx/5xx statuses, returns a nil
// error; only pre-flight failures return an error.
func (s *Session) Send(ctx context.Context) (model.Response, error) {
	snapshot, cert, err := s.begin()
	if err != nil {
		return model.Response{}, err
	}
	return s.execute(ctx, snapshot, cert)
}

// Dispatch marks the request pending before returning and performs the
// exchange on a new goroutine. The channel yields exactly one Result.
func (s *Session) Dispatch(ctx context.Context) <-chan Result {
	out := make(chan Result, 1)

	snapshot, cert, err := s.begin()
	if err != nil {
		out <- Result{Err: err}
		close(out)
		return out
	}

	go func() {
		defer close(out)
		resp, err := s.execute(ctx, snapshot, cert)
		out <- Result{Response: resp, Err: err}
	}()
	return out
}

// begin re-validates the request, moves it to PENDING with an empty
// response and returns the snapshots the exchange works on.
func (s *Session) begin() (model.Request, model.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := &s.state.Request
	if !CheckSendable(req, &s.state.Certificate) {
		req.Sendable = false
		req.Notification = model.NewNotification(model.NotificationWarn, MsgNotSendable)
		return model.Request{}, model.Certificate{}, ErrNotSendable
	}

	req.Sendable = true
	req.Event = model.EventPending
	req.Response = model.Response{}
	return req.Clone(), s.state.Certificate.Clone(), nil
}

func (s *Session) execute(ctx context.Context, snapshot model.Request, cert model.Certificate) (model.Response, error) {
	var id *tls.Certificate
	if cert.Required {
		if cert.Identity == nil && cert.CanImport() {
			s.loader.EnsureLoaded(&cert)
			s.publishCertificate(cert)
		}
		if cert.Identity == nil {
			s.abort(model.NewNotification(model.NotificationWarn, MsgNoCertificate))
			return model.Response{}, ErrNoIdentity
		}
		id = cert.Identity
	}

	client := httpclient.NewClient(httpclient.Options{
		Identity: id,
		RootCAs:  s.rootCAs,
		Timeout:         s.timeout,
		MaxResponseSize: s.maxBody,
		Logger:   s.logger.Named("http"),
	})

	s.logger.Info("sending request",
		zap.String("method", snapshot.Method.String()),
		zap.String("uri", snapshot.Address.URI),
		zap.Bool("mtls", id != nil))

	resp := client.Do(ctx, &snapshot)

	snapshot.Response = resp
	snapshot.Notification = model.NewNotification(model.NotificationInfo, MsgSent)
	if resp.Truncated {
		snapshot.Notification = model.NewNotification(model.NotificationWarn, MsgTruncated)
	}
	snapshot.Timestamp = s.clock().Format(model.TimestampLayout)
	snapshot.Event = model.EventSent

	s.complete(snapshot)

	s.logger.Info("request completed",
		zap.String("uri", snapshot.Address.URI),
		zap.Uint16("status", resp.Status))

	return resp.Clone(), nil
}

// abort reverts a pending request to UNSENT after a pre-flight failure
func (s *Session) abort(n *model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Request.Event = model.EventUnsent
	s.state.Request.Notification = n
}

// complete publishes the finished request and appends a copy to history
func (s *Session) complete(done model.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Request = done.Clone()

	entry := done.Clone()
	entry.ID = newHistoryID()
	s.state.History = append(s.state.History, entry)
}
