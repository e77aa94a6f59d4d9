package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/dom"
)

// Submitter delivers the entries of a form to target and returns the decoded
// reply.
type Submitter interface {
	Submit(ctx context.Context, target string, entries []dom.Entry) (any, error)
}

// SubmitterFunc adapts a function into a Submitter.
type SubmitterFunc func(ctx context.Context, target string, entries []dom.Entry) (any, error)

// Submit calls fn.
func (fn SubmitterFunc) Submit(ctx context.Context, target string, entries []dom.Entry) (any, error) {
	return fn(ctx, target, entries)
}

// HTTPSubmitter posts entries as multipart/form-data.
type HTTPSubmitter struct {
	opts options
}

// NewHTTPSubmitter constructs a submitter.
func NewHTTPSubmitter(opts ...Option) *HTTPSubmitter {
	return &HTTPSubmitter{opts: newOptions(opts)}
}

// Submit issues one POST. A non-2xx status or a reply that is not JSON is
// returned as *SubmitError. 204 No Content yields nil data.
func (s *HTTPSubmitter) Submit(ctx context.Context, target string, entries []dom.Entry) (any, error) {
	if target == "" {
		return nil, &SubmitError{Err: errors.New("submission url is required")}
	}
	body, contentType, err := EncodeMultipart(entries)
	if err != nil {
		return nil, &SubmitError{URL: target, Err: err}
	}

	resp, cancel, err := do(ctx, s.opts, http.MethodPost, target, body, contentType)
	if err != nil {
		return nil, &SubmitError{URL: target, Err: err}
	}
	defer cancel()
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(resp); err != nil {
		return nil, &SubmitError{URL: target, Err: err}
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var data any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &SubmitError{URL: target, Err: fmt.Errorf("decode reply: %w", err)}
	}
	return data, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"", "\r", "%0D", "\n", "%0A")

// EncodeMultipart writes entries as a multipart/form-data body and returns it
// with its content type. File entries become file parts carrying their own
// content type.
func EncodeMultipart(entries []dom.Entry) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, entry := range entries {
		if entry.File == nil {
			if err := writer.WriteField(entry.Name, entry.Value); err != nil {
				return nil, "", err
			}
			continue
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(entry.Name), quoteEscaper.Replace(entry.File.Name)))
		contentType := entry.File.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(entry.File.Data); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
