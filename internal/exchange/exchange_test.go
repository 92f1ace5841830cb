package exchange

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"reqwestur/internal/model"
)

func strPtr(s string) *string { return &s }

func pairsGen() *rapid.Generator[[]model.Pair] {
	return rapid.SliceOfN(rapid.Custom(func(t *rapid.T) model.Pair {
		return model.Pair{
			Name:  rapid.StringMatching(`[A-Za-z][A-Za-z0-9-]{0,10}`).Draw(t, "name"),
			Value: rapid.String().Draw(t, "value"),
		}
	}), 0, 4)
}

func requestGen() *rapid.Generator[model.Request] {
	return rapid.Custom(func(t *rapid.T) model.Request {
		req := model.Request{
			Method:      rapid.SampledFrom(model.Methods()).Draw(t, "method"),
			ContentType: rapid.SampledFrom(model.ContentTypes()).Draw(t, "contentType"),
			Address:     model.Address{URI: rapid.StringMatching(`https://[a-z]{1,10}\.com(/[a-z]{0,6})?`).Draw(t, "uri")},
			Headers:     pairsGen().Draw(t, "headers"),
			Params:      pairsGen().Draw(t, "params"),
		}
		if rapid.Bool().Draw(t, "hasBody") {
			req.Body = strPtr(rapid.String().Draw(t, "body"))
		}
		return req
	})
}

func TestJSONRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reqs := rapid.SliceOfN(requestGen(), 0, 5).Draw(t, "requests")

		data, err := Export(reqs, FormatJSON)
		require.NoError(t, err)

		back, err := Import(data, FormatJSON)
		require.NoError(t, err)
		require.Len(t, back, len(reqs))

		for i := range reqs {
			assert.Equal(t, reqs[i].Method, back[i].Method)
			assert.Equal(t, reqs[i].ContentType, back[i].ContentType)
			assert.Equal(t, reqs[i].Address.URI, back[i].Address.URI)
			assert.Equal(t, reqs[i].Body, back[i].Body)
			assert.Equal(t, reqs[i].Headers, back[i].Headers)
			assert.Equal(t, reqs[i].Params, back[i].Params)
		}
	})
}

func TestJSONExportOmitsRuntimeFields(t *testing.T) {
	req := model.NewRequest(model.MethodGet, "https://example.com")
	req.ID = "abcd1234"
	req.Timestamp = "01/01/2024 00:00"
	req.Response = model.Response{Status: 200, Body: "secret response"}
	req.Event = model.EventSent

	data, err := Export([]model.Request{req}, FormatJSON)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"contentType": "EMPTY"`)
	assert.Contains(t, s, `"method": "GET"`)
	assert.NotContains(t, s, "secret response")
	assert.NotContains(t, s, "abcd1234")
	assert.NotContains(t, s, "timestamp")
}

func TestJSONImportValidatesAddress(t *testing.T) {
	data := []byte(`[{"method":"POST","contentType":"JSON","uri":"nope","headers":[["A","1"]],"body":"{}","params":[]}]`)

	reqs, err := Import(data, FormatJSON)
	require.NoError(t, err)
	require.Len(t, reqs, 1)

	assert.Equal(t, model.MethodPost, reqs[0].Method)
	assert.Equal(t, []model.Pair{{Name: "A", Value: "1"}}, reqs[0].Headers)
	assert.True(t, reqs[0].Address.Notification.IsError())
}

func TestJSONImportRejectsBadInput(t *testing.T) {
	_, err := Import([]byte(`{"not":"a list"}`), FormatJSON)
	assert.Error(t, err)

	_, err = Import([]byte(`[{"method":"TRACE","contentType":"EMPTY","uri":"https://a.com"}]`), FormatJSON)
	assert.Error(t, err)
}

func TestHTTPExport(t *testing.T) {
	get := model.NewRequest(model.MethodGet, "https://example.com/users")
	get.AddHeader("Accept", "application/json")
	get.AddHeader("X-Trace", "1")

	post := model.NewRequest(model.MethodPost, "https://example.com/login")
	post.SetContentType(model.ContentFormURLEncoded)
	post.AddParam("user", "john")
	post.AddParam("pass", "secret")

	put := model.NewRequest(model.MethodPut, "https://example.com/items/1")
	put.SetContentType(model.ContentJSON)
	put.SetBody(`{"name":"x"}`)

	data, err := Export([]model.Request{get, post, put}, FormatHTTP)
	require.NoError(t, err)

	want := "GET https://example.com/users\n" +
		"Accept=application/json\n" +
		"X-Trace=1\n" +
		"\n###\n\n" +
		"POST https://example.com/login\n" +
		"user=john\n&pass=secret\n" +
		"\n###\n\n" +
		"PUT https://example.com/items/1\n" +
		"{\"name\":\"x\"}\n"
	assert.Equal(t, want, string(data))
}

func TestHTTPImportUnsupported(t *testing.T) {
	_, err := Import([]byte("GET https://example.com\n"), FormatHTTP)
	assert.Error(t, err)
}

func TestYAMLRoundTrip(t *testing.T) {
	req := model.NewRequest(model.MethodPatch, "https://example.com/items/7")
	req.SetContentType(model.ContentMultipart)
	req.AddHeader("Authorization", "Bearer t")
	req.AddParam("field", "value")
	req.AddParam("field", "again")

	empty := model.NewRequest(model.MethodGet, "https://example.com")

	data, err := Export([]model.Request{req, empty}, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "contentType: MULTIPART")

	back, err := Import(data, FormatYAML)
	require.NoError(t, err)
	require.Len(t, back, 2)

	assert.Equal(t, model.MethodPatch, back[0].Method)
	assert.Equal(t, model.ContentMultipart, back[0].ContentType)
	assert.Equal(t, req.Headers, back[0].Headers)
	assert.Equal(t, req.Params, back[0].Params)
	assert.Nil(t, back[0].Body)

	assert.Equal(t, model.MethodGet, back[1].Method)
	assert.Nil(t, back[1].Headers)
	assert.Nil(t, back[1].Params)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "reqwestur_history.json", FileName(SourceHistory, FormatJSON))
	assert.Equal(t, "reqwestur_saved_requests.http", FileName(SourceSaved, FormatHTTP))
	assert.Equal(t, "reqwestur_saved_requests.yaml", FileName(SourceSaved, FormatYAML))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, ".JSON": FormatJSON, "http": FormatHTTP, "yml": FormatYAML, ".yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestExportImportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName(SourceSaved, FormatJSON))

	req := model.NewRequest(model.MethodDelete, "https://example.com/items/1")
	require.NoError(t, ExportFile(path, []model.Request{req}, FormatJSON))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	back, err := ImportFile(path)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, model.MethodDelete, back[0].Method)

	_, err = ImportFile(filepath.Join(dir, "export.txt"))
	assert.Error(t, err)
}
