package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSetMethodResetsPayload(t *testing.T) {
	req := NewRequest(MethodPost, "https://example.com")
	req.SetContentType(ContentJSON)
	req.SetBody(`{"a":1}`)

	req.SetMethod(MethodPut)

	assert.Equal(t, MethodPut, req.Method)
	assert.Equal(t, ContentEmpty, req.ContentType)
	assert.Nil(t, req.Body)
}

func TestSetContentTypeEmptyClearsBody(t *testing.T) {
	req := NewRequest(MethodPost, "https://example.com")
	req.SetContentType(ContentText)
	req.SetBody("hello")

	req.SetContentType(ContentJSON)
	assert.Equal(t, "hello", req.BodyText())

	req.SetContentType(ContentEmpty)
	assert.Nil(t, req.Body)
	assert.Equal(t, "", req.BodyText())
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status uint16
		want   StatusClass
	}{
		{100, StatusOther},
		{199, StatusOther},
		{200, StatusSuccess},
		{302, StatusSuccess},
		{399, StatusSuccess},
		{400, StatusClientError},
		{404, StatusClientError},
		{499, StatusClientError},
		{500, StatusOther},
		{503, StatusOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyStatus(tt.status), "status %d", tt.status)
	}
}

func TestClassifyStatusIsTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		status := rapid.Uint16().Draw(t, "status")
		class := ClassifyStatus(status)

		switch {
		case status >= 200 && status < 400:
			assert.Equal(t, StatusSuccess, class)
		case status >= 400 && status < 500:
			assert.Equal(t, StatusClientError, class)
		default:
			assert.Equal(t, StatusOther, class)
		}
	})
}

func TestAddressValidate(t *testing.T) {
	tests := []struct {
		uri string
		ok  bool
	}{
		{"https://example.com", true},
		{"http://localhost:8080/path?q=1", true},
		{"ftp://files.example.com", true},
		{"mailto:someone@example.com", true},
		{"", false},
		{"not a url", false},
		{"example.com/path", false},
		{"http://", false},
		{"https:///path", false},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			addr := Address{URI: tt.uri}
			assert.Equal(t, tt.ok, addr.Validate())
			if tt.ok {
				assert.Nil(t, addr.Notification)
			} else {
				require.NotNil(t, addr.Notification)
				assert.Equal(t, NotificationError, addr.Notification.Kind)
				assert.NotEmpty(t, addr.Notification.Message)
			}
		})
	}
}

func TestAddressValidateClearsPreviousError(t *testing.T) {
	addr := Address{URI: "bad"}
	require.False(t, addr.Validate())

	addr.URI = "https://example.com"
	assert.True(t, addr.Validate())
	assert.Nil(t, addr.Notification)
}

func TestTemplateStripsRuntimeFields(t *testing.T) {
	req := NewRequest(MethodPost, "https://example.com/items")
	req.ID = "abcd1234"
	req.AddHeader("Accept", "application/json")
	req.AddParam("q", "1")
	req.SetContentType(ContentJSON)
	req.SetBody(`{"x":1}`)
	req.Timestamp = "01/02/2024 10:00"
	req.Response = Response{Status: 200, Reason: "OK", Body: "{}"}
	req.Notification = NewNotification(NotificationInfo, "Sent successfully.")
	req.Sendable = true
	req.Event = EventSent

	tpl := req.Template()

	assert.Empty(t, tpl.ID)
	assert.Equal(t, MethodPost, tpl.Method)
	assert.Equal(t, []Pair{{"Accept", "application/json"}}, tpl.Headers)
	assert.Equal(t, []Pair{{"q", "1"}}, tpl.Params)
	assert.Equal(t, "https://example.com/items", tpl.Address.URI)
	assert.Equal(t, ContentJSON, tpl.ContentType)
	assert.Equal(t, `{"x":1}`, tpl.BodyText())
	assert.Empty(t, tpl.Timestamp)
	assert.Equal(t, Response{}, tpl.Response)
	assert.Nil(t, tpl.Notification)
	assert.False(t, tpl.Sendable)
	assert.Equal(t, EventUnsent, tpl.Event)

	// The template must not alias the source
	tpl.Headers[0].Value = "text/plain"
	*tpl.Body = "changed"
	assert.Equal(t, "application/json", req.Headers[0].Value)
	assert.Equal(t, `{"x":1}`, req.BodyText())
}

func TestRemoveHeaderAndParam(t *testing.T) {
	req := NewRequest(MethodGet, "https://example.com")
	req.AddHeader("A", "1")
	req.AddHeader("B", "2")
	req.AddParam("p", "1")

	assert.False(t, req.RemoveHeader(5))
	assert.True(t, req.RemoveHeader(0))
	assert.Equal(t, []Pair{{"B", "2"}}, req.Headers)

	assert.False(t, req.RemoveParam(-1))
	assert.True(t, req.RemoveParam(0))
	assert.Empty(t, req.Params)
}

func TestPairJSON(t *testing.T) {
	data, err := json.Marshal(Pair{Name: "Accept", Value: "*/*"})
	require.NoError(t, err)
	assert.JSONEq(t, `["Accept","*/*"]`, string(data))

	var p Pair
	require.NoError(t, json.Unmarshal([]byte(`["X-Id","7"]`), &p))
	assert.Equal(t, Pair{Name: "X-Id", Value: "7"}, p)

	assert.Error(t, json.Unmarshal([]byte(`["only-one"]`), &p))
}

func TestParsePair(t *testing.T) {
	p, ok := ParsePair("Content-Type: application/json", ":")
	require.True(t, ok)
	assert.Equal(t, Pair{Name: "Content-Type", Value: "application/json"}, p)

	p, ok = ParsePair("token=a=b", "=")
	require.True(t, ok)
	assert.Equal(t, Pair{Name: "token", Value: "a=b"}, p)

	_, ok = ParsePair("novalue", "=")
	assert.False(t, ok)

	_, ok = ParsePair(" =value", "=")
	assert.False(t, ok)
}

func TestEnumJSONUsesNames(t *testing.T) {
	req := NewRequest(MethodDelete, "https://example.com")
	req.SetContentType(ContentFormURLEncoded)
	req.Event = EventPending

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "DELETE", raw["method"])
	assert.Equal(t, "XWWWFORMURLENCODED", raw["content_type"])
	assert.Equal(t, "PENDING", raw["event"])

	var back Request
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, MethodDelete, back.Method)
	assert.Equal(t, ContentFormURLEncoded, back.ContentType)
	assert.Equal(t, EventPending, back.Event)
}

func TestEnumUnmarshalRejectsUnknownName(t *testing.T) {
	var m Method
	assert.Error(t, json.Unmarshal([]byte(`"TRACE"`), &m))

	var c ContentType
	assert.Error(t, json.Unmarshal([]byte(`"XML"`), &c))
}

func TestParseContentTypeAliases(t *testing.T) {
	tests := map[string]ContentType{
		"":                                  ContentEmpty,
		"none":                              ContentEmpty,
		"text":                              ContentText,
		"JSON":                              ContentJSON,
		"form":                              ContentFormURLEncoded,
		"application/x-www-form-urlencoded": ContentFormURLEncoded,
		"XWWWFORMURLENCODED":                ContentFormURLEncoded,
		"multipart":                         ContentMultipart,
		"multipart/form-data":               ContentMultipart,
	}

	for in, want := range tests {
		got, err := ParseContentType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseContentType("xml")
	assert.Error(t, err)
}

func TestCertificateSetRequiredFalseResets(t *testing.T) {
	cert := Certificate{
		Required:     true,
		FilePath:     "/tmp/client.p12",
		Passphrase:   "secret",
		Status:       CertificateOK,
		Notification: NewNotification(NotificationInfo, "loaded"),
	}

	cert.SetRequired(false)

	assert.Equal(t, Certificate{}, cert)
	assert.Equal(t, CertificateUnconfirmed, cert.Status)
}

func TestCertificateIdentityNotSerialized(t *testing.T) {
	cert := Certificate{Required: true, FilePath: "c.p12", Status: CertificateOK}
	data, err := json.Marshal(cert)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Identity")
	assert.Contains(t, string(data), `"status":"OK"`)
}

func TestNormalizeResetsPending(t *testing.T) {
	state := &AppState{}
	state.Request.Event = EventPending

	state.Normalize()

	assert.Equal(t, EventUnsent, state.Request.Event)
	assert.NotNil(t, state.History)
	assert.NotNil(t, state.SavedRequests)
}

func TestDefaultAppState(t *testing.T) {
	state := DefaultAppState()
	assert.False(t, state.DarkMode)
	assert.True(t, state.HistoryPanelMinimised)
	assert.Empty(t, state.History)
	assert.Empty(t, state.SavedRequests)
	assert.False(t, state.Certificate.Required)
}
