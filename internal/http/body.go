package http

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strings"

	"reqwestur/internal/model"
)

// Payload is an encoded request body and the media type describing it
type Payload struct {
	Body        io.Reader
	ContentType string
}

// EncodeBody materializes the outbound body for req according to its content
// type. It returns nil for ContentEmpty.
func EncodeBody(req *model.Request) (*Payload, error) {
	switch req.ContentType {
	case model.ContentEmpty:
		return nil, nil
	case model.ContentText, model.ContentJSON:
		return &Payload{
			Body:        strings.NewReader(req.BodyText()),
			ContentType: req.ContentType.MIME(),
		}, nil
	case model.ContentFormURLEncoded:
		return &Payload{
			Body:        strings.NewReader(EncodeForm(req.Params)),
			ContentType: req.ContentType.MIME(),
		}, nil
	case model.ContentMultipart:
		return encodeMultipart(req.Params)
	default:
		return nil, fmt.Errorf("unsupported content type: %s", req.ContentType)
	}
}

// EncodeForm percent-encodes pairs in order. url.Values is not used because it sorts keys.
func EncodeForm(pairs []model.Pair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, url.QueryEscape(p.Name)+"="+url.QueryEscape(p.Value))
	}
	return strings.Join(parts, "&")
}

// encodeMultipart writes each pair as a text field. File fields are not supported.
func encodeMultipart(pairs []model.Pair) (*Payload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range pairs {
		if err := w.WriteField(p.Name, p.Value); err != nil {
			return nil, fmt.Errorf("failed to write multipart field %q: %w", p.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &Payload{Body: &buf, ContentType: w.FormDataContentType()}, nil
}
