// Package testsupport holds fixtures shared by package tests: sample field
// documents, an httptest form backend and template capture helpers.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// SampleFields returns a document exercising every field type.
func SampleFields() []model.Field {
	return []model.Field{
		{Key: "name", Label: "Name", Type: model.FieldTypeText, Validations: []model.ValidationRule{
			{Kind: model.RuleRequired, Value: "true"},
			{Kind: model.RuleMaxLength, Value: "20"},
		}},
		{Key: "age", Label: "Age", Type: model.FieldTypeNumber, Validations: []model.ValidationRule{
			{Kind: model.RuleMin, Value: "18", Message: "Adults only."},
		}},
		{Key: "bio", Label: "Bio", Type: model.FieldTypeTextarea},
		{Key: "terms", Label: "Accept terms", Type: model.FieldTypeCheckbox, Validations: []model.ValidationRule{
			{Kind: model.RuleRequired, Value: "true"},
		}},
		{Key: "size", Label: "Size", Type: model.FieldTypeRadio, Options: []model.Option{
			{Label: "Small", Value: "s"},
			{Label: "Large", Value: "l"},
		}},
		{Key: "color", Label: "Color", Type: model.FieldTypeSelect, Options: []model.Option{
			{Label: "Red", Value: "red"},
			{Label: "Blue", Value: "blue"},
		}},
		{Key: "country", Label: "Country", Type: model.FieldTypeCustomSelect, Options: []model.Option{
			{Label: "Spain", Value: "es"},
			{Label: "Sweden", Value: "se"},
		}},
		{Key: "source", Label: "Source", Type: model.FieldTypeHidden, DefaultValue: "web"},
		{Key: "submit", Label: "Send", Type: model.FieldTypeButton},
	}
}

// MustJSON encodes v or fails the test.
func MustJSON(t testing.TB, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

// Submission is one request received by a FormServer.
type Submission struct {
	Values map[string][]string
	Files  map[string]string
}

// FormServer is an httptest backend serving field documents at
// /{formId}.json and accepting submissions at /save.
type FormServer struct {
	*httptest.Server

	mu          sync.Mutex
	fields      map[string][]model.Field
	submissions []Submission
	fetches     int

	// SaveStatus and SaveBody shape the reply to submissions. The zero value
	// answers 200 with {"ok":true}.
	SaveStatus int
	SaveBody   string
}

// NewFormServer starts a backend serving fields for each form ID. The server
// is closed when the test ends.
func NewFormServer(t testing.TB, fields map[string][]model.Field) *FormServer {
	t.Helper()
	fs := &FormServer{fields: fields}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(fs.Close)
	return fs
}

// BaseURL returns the document base with a trailing slash.
func (s *FormServer) BaseURL() string {
	return s.URL + "/"
}

// SaveURL returns the submission endpoint.
func (s *FormServer) SaveURL() string {
	return s.URL + "/save"
}

// Submissions returns the submissions received so far.
func (s *FormServer) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Submission(nil), s.submissions...)
}

// Fetches reports how many field documents were served.
func (s *FormServer) Fetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

func (s *FormServer) serve(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, ".json"):
		formID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), ".json")
		s.mu.Lock()
		fields, ok := s.fields[formID]
		if ok {
			s.fetches++
		}
		s.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(fields)
	case r.Method == http.MethodPost && r.URL.Path == "/save":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		sub := Submission{Values: r.MultipartForm.Value, Files: map[string]string{}}
		for name, headers := range r.MultipartForm.File {
			if len(headers) > 0 {
				sub.Files[name] = headers[0].Filename
			}
		}
		s.mu.Lock()
		s.submissions = append(s.submissions, sub)
		status, body := s.SaveStatus, s.SaveBody
		s.mu.Unlock()
		if status == 0 {
			status = http.StatusOK
		}
		if body == "" {
			body = `{"ok":true}`
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	default:
		http.NotFound(w, r)
	}
}

// SetSaveReply changes the reply to subsequent submissions.
func (s *FormServer) SetSaveReply(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveStatus, s.SaveBody = status, body
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t testing.TB, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
