package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// TimestampLayout is the wall-clock format stamped on a sent request (DD/MM/YYYY HH:MM)
const TimestampLayout = "02/01/2006 15:04"

// Method is the HTTP verb of a request
type Method int

const (
	MethodGet Method = iota
	MethodPost
	MethodPut
	MethodPatch
	MethodDelete
)

var methodNames = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}

// Methods lists every supported method in display order
func Methods() []Method {
	return []Method{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete}
}

// ParseMethod parses a method name, ignoring case
func ParseMethod(name string) (Method, error) {
	i, err := parseEnum(methodNames, "method", name)
	return Method(i), err
}

func (m Method) String() string {
	return enumName(methodNames, "Method", int(m))
}

func (m Method) MarshalJSON() ([]byte, error) {
	return marshalEnum(methodNames, "method", int(m))
}

func (m *Method) UnmarshalJSON(data []byte) error {
	i, err := unmarshalEnum(data, methodNames, "method")
	if err != nil {
		return err
	}
	*m = Method(i)
	return nil
}

// ContentType selects how a request body is materialized on the wire
type ContentType int

const (
	ContentEmpty ContentType = iota
	ContentText
	ContentJSON
	ContentFormURLEncoded
	ContentMultipart
)

var contentTypeNames = []string{"EMPTY", "TEXT", "JSON", "XWWWFORMURLENCODED", "MULTIPART"}

var contentTypeMIMEs = []string{
	"",
	"text/plain",
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// ContentTypes lists every content type in display order
func ContentTypes() []ContentType {
	return []ContentType{ContentEmpty, ContentText, ContentJSON, ContentFormURLEncoded, ContentMultipart}
}

// ParseContentType accepts either the enum name or a short alias (text, json, form, multipart)
func ParseContentType(name string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "empty", "none":
		return ContentEmpty, nil
	case "form", "urlencoded", "x-www-form-urlencoded", "application/x-www-form-urlencoded":
		return ContentFormURLEncoded, nil
	case "text/plain":
		return ContentText, nil
	case "application/json":
		return ContentJSON, nil
	case "multipart/form-data":
		return ContentMultipart, nil
	}
	i, err := parseEnum(contentTypeNames, "content type", name)
	return ContentType(i), err
}

func (c ContentType) String() string {
	return enumName(contentTypeNames, "ContentType", int(c))
}

// MIME returns the media type sent for c, empty for ContentEmpty
func (c ContentType) MIME() string {
	if c < 0 || int(c) >= len(contentTypeMIMEs) {
		return ""
	}
	return contentTypeMIMEs[c]
}

func (c ContentType) MarshalJSON() ([]byte, error) {
	return marshalEnum(contentTypeNames, "content type", int(c))
}

func (c *ContentType) UnmarshalJSON(data []byte) error {
	i, err := unmarshalEnum(data, contentTypeNames, "content type")
	if err != nil {
		return err
	}
	*c = ContentType(i)
	return nil
}

// RequestEvent is the lifecycle state of a send attempt
type RequestEvent int

const (
	EventUnsent RequestEvent = iota
	EventPending
	EventSent
)

var requestEventNames = []string{"UNSENT", "PENDING", "SENT"}

func (e RequestEvent) String() string {
	return enumName(requestEventNames, "RequestEvent", int(e))
}

func (e RequestEvent) MarshalJSON() ([]byte, error) {
	return marshalEnum(requestEventNames, "request event", int(e))
}

func (e *RequestEvent) UnmarshalJSON(data []byte) error {
	i, err := unmarshalEnum(data, requestEventNames, "request event")
	if err != nil {
		return err
	}
	*e = RequestEvent(i)
	return nil
}

// Pair is an ordered (name, value) entry used for headers, params and form fields.
// It serializes as a two element array.
type Pair struct {
	Name  string
	Value string
}

func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Name, p.Value})
}

func (p *Pair) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("pair must have exactly 2 elements, got %d", len(raw))
	}
	p.Name, p.Value = raw[0], raw[1]
	return nil
}

// ParsePair splits "name<sep>value", trimming whitespace around both parts
func ParsePair(s, sep string) (Pair, bool) {
	name, value, ok := strings.Cut(s, sep)
	if !ok {
		return Pair{}, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Pair{}, false
	}
	return Pair{Name: name, Value: strings.TrimSpace(value)}, true
}

func clonePairs(pairs []Pair) []Pair {
	if pairs == nil {
		return nil
	}
	out := make([]Pair, len(pairs))
	copy(out, pairs)
	return out
}

// ParseURI parses raw as an absolute URL. http and https URLs must also name a host.
func ParseURI(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("empty URL")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("relative URL without a base: %q", raw)
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme == "http" || scheme == "https") && u.Host == "" {
		return nil, fmt.Errorf("empty host: %q", raw)
	}
	if u.Host == "" && u.Opaque == "" && u.Path == "" {
		return nil, fmt.Errorf("URL has nothing after the scheme: %q", raw)
	}
	return u, nil
}

// Address is the request target together with its validation notification
type Address struct {
	URI          string        `json:"uri"`
	Notification *Notification `json:"notification"`
}

// Validate sets an ERROR notification when URI does not parse and clears it otherwise
func (a *Address) Validate() bool {
	if _, err := ParseURI(a.URI); err != nil {
		a.Notification = NewNotification(NotificationError, err.Error())
		return false
	}
	a.Notification = nil
	return true
}

// Response is a normalized HTTP response
type Response struct {
	Status  uint16   `json:"status"`
	Reason  string   `json:"reason"`
	Headers []Pair   `json:"headers"`
	Cookies []string `json:"cookies"`
	Body    string   `json:"body"`

	// Truncated is set when Body was cut at the client's size limit
	Truncated bool `json:"truncated,omitempty"`
}

// Clone returns a deep copy of r
func (r Response) Clone() Response {
	c := r
	c.Headers = clonePairs(r.Headers)
	if r.Cookies != nil {
		c.Cookies = append([]string(nil), r.Cookies...)
	}
	return c
}

// StatusClass groups status codes for display
type StatusClass int

const (
	StatusSuccess StatusClass = iota
	StatusClientError
	StatusOther
)

// ClassifyStatus maps 200-399 to success, 400-499 to client error and the rest to other
func ClassifyStatus(status uint16) StatusClass {
	switch {
	case status >= 200 && status <= 399:
		return StatusSuccess
	case status >= 400 && status <= 499:
		return StatusClientError
	default:
		return StatusOther
	}
}

func (c StatusClass) String() string {
	return enumName([]string{"success", "client error", "server/other error"}, "StatusClass", int(c))
}

// Request is the editable request together with its latest response and lifecycle state
type Request struct {
	ID           string        `json:"id,omitempty"`
	Method       Method        `json:"method"`
	Headers      []Pair        `json:"headers"`
	Address      Address       `json:"address"`
	Timestamp    string        `json:"timestamp"`
	ContentType  ContentType   `json:"content_type"`
	Body         *string       `json:"body"`
	Params       []Pair        `json:"params"`
	Response     Response      `json:"response"`
	Notification *Notification `json:"notification"`
	Sendable     bool          `json:"sendable"`
	Event        RequestEvent  `json:"event"`
}

// NewRequest returns an unsent request for uri with its address validated
func NewRequest(method Method, uri string) Request {
	req := Request{Method: method}
	req.SetURI(uri)
	return req
}

// SetMethod changes the method. Any in-progress payload is discarded.
func (r *Request) SetMethod(m Method) {
	r.Method = m
	r.ContentType = ContentEmpty
	r.Body = nil
}

// SetContentType changes how the body is encoded. Switching to ContentEmpty discards the body.
func (r *Request) SetContentType(c ContentType) {
	r.ContentType = c
	if c == ContentEmpty {
		r.Body = nil
	}
}

// SetURI updates the address and re-validates it
func (r *Request) SetURI(uri string) bool {
	r.Address.URI = uri
	return r.Address.Validate()
}

// SetBody stores a free-text body
func (r *Request) SetBody(body string) {
	r.Body = &body
}

// BodyText returns the body or an empty string
func (r *Request) BodyText() string {
	if r.Body == nil {
		return ""
	}
	return *r.Body
}

func (r *Request) AddHeader(name, value string) {
	r.Headers = append(r.Headers, Pair{Name: name, Value: value})
}

// RemoveHeader deletes the header at index i, reporting whether it existed
func (r *Request) RemoveHeader(i int) bool {
	if i < 0 || i >= len(r.Headers) {
		return false
	}
	r.Headers = append(r.Headers[:i], r.Headers[i+1:]...)
	return true
}

func (r *Request) AddParam(name, value string) {
	r.Params = append(r.Params, Pair{Name: name, Value: value})
}

// RemoveParam deletes the param at index i, reporting whether it existed
func (r *Request) RemoveParam(i int) bool {
	if i < 0 || i >= len(r.Params) {
		return false
	}
	r.Params = append(r.Params[:i], r.Params[i+1:]...)
	return true
}

// Clone returns a deep copy of r
func (r Request) Clone() Request {
	c := r
	c.Headers = clonePairs(r.Headers)
	c.Params = clonePairs(r.Params)
	c.Address.Notification = r.Address.Notification.clone()
	c.Notification = r.Notification.clone()
	c.Response = r.Response.Clone()
	if r.Body != nil {
		body := *r.Body
		c.Body = &body
	}
	return c
}

// Template keeps only what a saved request needs: method, headers, address,
// content type, body and params. Everything else is reset.
func (r Request) Template() Request {
	c := r.Clone()
	return Request{
		Method:      c.Method,
		Headers:     c.Headers,
		Address:     c.Address,
		ContentType: c.ContentType,
		Body:        c.Body,
		Params:      c.Params,
	}
}
