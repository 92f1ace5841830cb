package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"reqwestur/internal/engine"
	"reqwestur/internal/format"
	"reqwestur/internal/model"
)

var (
	headers     []string
	data        string
	formFields  []string
	contentType string
	certFile    string
	passphrase  string
	saveRequest bool
)

func init() {
	for _, m := range model.Methods() {
		method := m
		cmd := &cobra.Command{
			Use:   strings.ToLower(method.String()) + " <url>",
			Short: fmt.Sprintf("Send a %s request", method),
			Args:  cobra.ExactArgs(1),
			Run:   runRequest(method),
		}
		addRequestFlags(cmd)
		rootCmd.AddCommand(cmd)
	}
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&headers, "header", "H", []string{}, "Add header as 'Name: value' (can be used multiple times)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "Request body (string or @filename)")
	cmd.Flags().StringArrayVarP(&formFields, "field", "f", []string{}, "Add form field as name=value (can be used multiple times)")
	cmd.Flags().StringVarP(&contentType, "content-type", "t", "", "Body encoding: empty, text, json, form, multipart")
	cmd.Flags().StringVar(&certFile, "cert", "", "PKCS#12 client certificate for mutual TLS")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Passphrase of the client certificate")
	cmd.Flags().BoolVar(&saveRequest, "save", false, "Save the request as a template")
}

// requestInput is what a method command collects from its flags
type requestInput struct {
	method      model.Method
	uri         string
	contentType model.ContentType
	headers     []model.Pair
	fields      []model.Pair
	body        string
	hasBody     bool
	certFile    string
	passphrase  string
}

func runRequest(method model.Method) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")

		body, hasBody, err := resolveBody(data)
		if err != nil {
			format.PrintError(fmt.Sprintf("Failed to read file: %v", err))
			os.Exit(1)
		}

		ct, err := resolveContentType(contentType, hasBody, len(formFields) > 0)
		if err != nil {
			format.PrintError(err.Error())
			os.Exit(1)
		}

		a := openApp()
		defer a.close()

		err = applyRequest(a, requestInput{
			method:      method,
			uri:         args[0],
			contentType: ct,
			headers:     parseHeaders(headers),
			fields:      parseFields(formFields),
			body:        body,
			hasBody:     hasBody,
			certFile:    certFile,
			passphrase:  passphrase,
		})
		if err != nil {
			cert := a.session.Certificate()
			format.PrintNotification(cert.Notification)
			a.save()
			a.close()
			os.Exit(1)
		}

		if saveRequest {
			_ = a.session.SaveRequest()
			format.PrintNotification(a.session.Notification())
		}

		ok := sendCurrent(a, verbose)
		a.save()
		if !ok {
			a.close()
			os.Exit(1)
		}
	}
}

// applyRequest replaces the current request and, when a certificate file is
// given, imports it so the request can be sent over mutual TLS.
func applyRequest(a *app, in requestInput) error {
	a.session.Update(func(r *model.Request) {
		*r = model.NewRequest(in.method, in.uri)
		r.SetContentType(in.contentType)
		for _, p := range in.headers {
			r.AddHeader(p.Name, p.Value)
		}
		for _, p := range in.fields {
			r.AddParam(p.Name, p.Value)
		}
		if in.hasBody && in.contentType != model.ContentEmpty {
			r.SetBody(in.body)
		}
	})

	if in.certFile == "" {
		return nil
	}
	a.session.ConfigureCertificate(in.certFile, in.passphrase)
	if _, err := a.session.ImportCertificate(); err != nil {
		return fmt.Errorf("import certificate: %w", err)
	}
	return nil
}

// sendCurrent sends the session's current request and prints the outcome.
// It reports false when the request could not be dispatched.
func sendCurrent(a *app, verbose bool) bool {
	resp, err := a.session.Send(context.Background())
	if err != nil {
		req := a.session.Request()
		cert := a.session.Certificate()
		switch {
		case errors.Is(err, engine.ErrNotSendable):
			format.PrintNotification(req.Address.Notification)
			if cert.Notification.IsError() {
				format.PrintNotification(cert.Notification)
			}
			format.PrintNotification(req.Notification)
		case errors.Is(err, engine.ErrNoIdentity):
			format.PrintNotification(cert.Notification)
			format.PrintNotification(req.Notification)
		default:
			format.PrintError(fmt.Sprintf("Request failed: %v", err))
		}
		return false
	}

	format.PrintResponse(&resp, verbose)
	if n := a.session.Request().Notification; n != nil && n.Kind == model.NotificationWarn {
		format.PrintNotification(n)
	}
	return true
}

// resolveBody returns the body text, reading it from a file when prefixed with @
func resolveBody(raw string) (string, bool, error) {
	if raw == "" {
		return "", false, nil
	}
	if strings.HasPrefix(raw, "@") {
		content, err := readBodyFromFile(strings.TrimPrefix(raw, "@"))
		if err != nil {
			return "", false, err
		}
		return content, true, nil
	}
	return raw, true, nil
}

// resolveContentType picks the body encoding. Without an explicit choice a
// body is sent as JSON and form fields as urlencoded.
func resolveContentType(raw string, hasBody, hasFields bool) (model.ContentType, error) {
	if raw != "" {
		return model.ParseContentType(raw)
	}
	switch {
	case hasFields:
		return model.ContentFormURLEncoded, nil
	case hasBody:
		return model.ContentJSON, nil
	}
	return model.ContentEmpty, nil
}

func parseHeaders(headerStrings []string) []model.Pair {
	var result []model.Pair
	for _, h := range headerStrings {
		if p, ok := model.ParsePair(h, ":"); ok {
			result = append(result, p)
		}
	}
	return result
}

func parseFields(fieldStrings []string) []model.Pair {
	var result []model.Pair
	for _, f := range fieldStrings {
		if p, ok := model.ParsePair(f, "="); ok {
			result = append(result, p)
		}
	}
	return result
}

// readBodyFromFile reads file content with path validation to prevent directory traversal
func readBodyFromFile(filename string) (string, error) {
	// Get working directory
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	// Get absolute path of the requested file
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return "", fmt.Errorf("invalid file path: %w", err)
	}

	// Clean the path to resolve any .. or . components
	cleanPath := filepath.Clean(absPath)

	// Ensure file is within working directory (prevent path traversal)
	if !strings.HasPrefix(cleanPath, wd+string(filepath.Separator)) && cleanPath != wd {
		return "", fmt.Errorf("access denied: file must be within current directory")
	}

	// Check for symlinks - resolve and verify target is also within working directory
	realPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		// If file doesn't exist, we'll let ReadFile handle the error
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to resolve path: %w", err)
		}
		realPath = cleanPath
	} else if !strings.HasPrefix(realPath, wd+string(filepath.Separator)) && realPath != wd {
		return "", fmt.Errorf("access denied: symlink target must be within current directory")
	}

	content, err := os.ReadFile(realPath)
	if err != nil {
		return "", err
	}

	return string(content), nil
}
