// Package exchange exports and imports requests as JSON, YAML or HTTP text files.
package exchange

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"reqwestur/internal/model"
)

// Format is a file encoding for a list of requests
type Format int

const (
	FormatJSON Format = iota
	FormatHTTP
	FormatYAML
)

// Source names where the exported requests came from
type Source int

const (
	SourceHistory Source = iota
	SourceSaved
)

// RecordSeparator separates requests in the HTTP text encoding
const RecordSeparator = "\n###\n\n"

// Secure file permissions - owner read/write only
const exportFileMode = 0600

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatHTTP:
		return "http"
	case FormatYAML:
		return "yaml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat accepts json, http or yaml (yml), ignoring case
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "json":
		return FormatJSON, nil
	case "http":
		return FormatHTTP, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("unknown export format: %q", s)
}

func (s Source) String() string {
	if s == SourceSaved {
		return "reqwestur_saved_requests"
	}
	return "reqwestur_history"
}

// FileName is the default export file name for a source and format
func FileName(src Source, f Format) string {
	return src.String() + "." + f.String()
}

// record is the exported shape of a request. Response, notification and
// lifecycle state are never exported.
type record struct {
	Method      model.Method      `json:"method"`
	ContentType model.ContentType `json:"contentType"`
	URI         string            `json:"uri"`
	Headers     []model.Pair      `json:"headers"`
	Body        *string           `json:"body"`
	Params      []model.Pair      `json:"params"`
}

type yamlPair struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type yamlRecord struct {
	Method      string     `yaml:"method"`
	ContentType string     `yaml:"contentType"`
	URI         string     `yaml:"uri"`
	Headers     []yamlPair `yaml:"headers,omitempty"`
	Body        *string    `yaml:"body,omitempty"`
	Params      []yamlPair `yaml:"params,omitempty"`
}

// Export encodes reqs in the given format
func Export(reqs []model.Request, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return exportJSON(reqs)
	case FormatYAML:
		return exportYAML(reqs)
	case FormatHTTP:
		return []byte(exportHTTP(reqs)), nil
	}
	return nil, fmt.Errorf("unsupported export format: %s", f)
}

// Import decodes requests written by Export. The HTTP text encoding is export only.
func Import(data []byte, f Format) ([]model.Request, error) {
	switch f {
	case FormatJSON:
		return importJSON(data)
	case FormatYAML:
		return importYAML(data)
	}
	return nil, fmt.Errorf("import is not supported for %s files", f)
}

// ExportFile writes reqs to path
func ExportFile(path string, reqs []model.Request, f Format) error {
	data, err := Export(reqs, f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, exportFileMode)
}

// ImportFile reads requests from path, picking the format from the extension
func ImportFile(path string) ([]model.Request, error) {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Import(data, f)
}

func exportJSON(reqs []model.Request) ([]byte, error) {
	records := make([]record, 0, len(reqs))
	for _, r := range reqs {
		records = append(records, record{
			Method:      r.Method,
			ContentType: r.ContentType,
			URI:         r.Address.URI,
			Headers:     r.Headers,
			Body:        r.Body,
			Params:      r.Params,
		})
	}
	return json.MarshalIndent(records, "", "  ")
}

func importJSON(data []byte) ([]model.Request, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse JSON export: %w", err)
	}

	reqs := make([]model.Request, 0, len(records))
	for _, rec := range records {
		req := model.Request{
			Method:      rec.Method,
			Headers:     rec.Headers,
			Address:     model.Address{URI: rec.URI},
			ContentType: rec.ContentType,
			Body:        rec.Body,
			Params:      rec.Params,
		}
		req.Address.Validate()
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func exportYAML(reqs []model.Request) ([]byte, error) {
	records := make([]yamlRecord, 0, len(reqs))
	for _, r := range reqs {
		records = append(records, yamlRecord{
			Method:      r.Method.String(),
			ContentType: r.ContentType.String(),
			URI:         r.Address.URI,
			Headers:     toYAMLPairs(r.Headers),
			Body:        r.Body,
			Params:      toYAMLPairs(r.Params),
		})
	}
	return yaml.Marshal(records)
}

func importYAML(data []byte) ([]model.Request, error) {
	var records []yamlRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse YAML export: %w", err)
	}

	reqs := make([]model.Request, 0, len(records))
	for i, rec := range records {
		method, err := model.ParseMethod(rec.Method)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i+1, err)
		}
		ct, err := model.ParseContentType(rec.ContentType)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i+1, err)
		}
		req := model.Request{
			Method:      method,
			Headers:     fromYAMLPairs(rec.Headers),
			Address:     model.Address{URI: rec.URI},
			ContentType: ct,
			Body:        rec.Body,
			Params:      fromYAMLPairs(rec.Params),
		}
		req.Address.Validate()
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func toYAMLPairs(pairs []model.Pair) []yamlPair {
	if len(pairs) == 0 {
		return nil
	}
	out := make([]yamlPair, len(pairs))
	for i, p := range pairs {
		out[i] = yamlPair{Name: p.Name, Value: p.Value}
	}
	return out
}

func fromYAMLPairs(pairs []yamlPair) []model.Pair {
	if len(pairs) == 0 {
		return nil
	}
	out := make([]model.Pair, len(pairs))
	for i, p := range pairs {
		out[i] = model.Pair{Name: p.Name, Value: p.Value}
	}
	return out
}

// exportHTTP writes one record per request: "METHOD URI", then one
// "name=value" line per header, then the params joined with "\n&", then the
// body. Records are joined with RecordSeparator.
func exportHTTP(reqs []model.Request) string {
	records := make([]string, 0, len(reqs))
	for _, r := range reqs {
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s\n", r.Method, r.Address.URI)

		for _, h := range r.Headers {
			fmt.Fprintf(&b, "%s=%s\n", h.Name, h.Value)
		}

		if len(r.Params) > 0 {
			params := make([]string, 0, len(r.Params))
			for _, p := range r.Params {
				params = append(params, p.Name+"="+p.Value)
			}
			b.WriteString(strings.Join(params, "\n&") + "\n")
		}

		if r.Body != nil {
			b.WriteString(*r.Body + "\n")
		}
		records = append(records, b.String())
	}
	return strings.Join(records, RecordSeparator)
}
