package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/controller"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/transport"
)

// Name is the registry name of the renderer.
const Name = "tui"

// Renderer implements render.Renderer for terminal sessions: it builds the
// form offline, prompts for every field and returns the collected values
// instead of posting them.
type Renderer struct {
	filler *Filler
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	return &Renderer{filler: NewFiller(options...)}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.filler.cfg.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for form and serializes the entries the form would submit.
// options.Values pre-fill the prompts and options.Hidden join the entries.
func (r *Renderer) Render(ctx context.Context, form model.Form, options render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var captured []dom.Entry
	capture := transport.SubmitterFunc(func(_ context.Context, _ string, entries []dom.Entry) (any, error) {
		captured = entries
		return nil, nil
	})
	c, err := controller.New(dom.NewPage(), controller.Options{
		FormID:    form.ID,
		PortalID:  form.TenantID,
		SubmitURL: "tui:" + form.ID,
		Hidden:    options.Hidden,
		Data:      form.Fields,
	}, controller.WithSubmitter(capture), controller.WithEvaluator(r.filler.cfg.evaluator))
	if err != nil {
		return nil, err
	}
	c.Init(ctx)
	for key, value := range options.Values {
		_ = c.SetValue(key, value)
	}

	result, err := r.filler.Fill(ctx, c)
	if err != nil {
		return nil, err
	}
	if !result.Success() {
		return nil, fmt.Errorf("tui: form %q was not accepted", form.ID)
	}

	values := entryValues(captured)
	if r.filler.cfg.transformer != nil {
		values, err = r.filler.cfg.transformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

// entryValues groups entries by name; repeated names become lists.
func entryValues(entries []dom.Entry) map[string]any {
	values := make(map[string]any, len(entries))
	for _, entry := range entries {
		value := entry.Value
		if entry.File != nil {
			value = entry.File.Name
		}
		switch existing := values[entry.Name].(type) {
		case nil:
			values[entry.Name] = value
		case []any:
			values[entry.Name] = append(existing, value)
		default:
			values[entry.Name] = []any{existing, value}
		}
	}
	return values
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.filler.cfg.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	for key, value := range values {
		switch v := value.(type) {
		case []any:
			for _, item := range v {
				flattened.Add(key, fmt.Sprint(item))
			}
		default:
			flattened.Set(key, fmt.Sprint(v))
		}
	}
	return flattened.Encode()
}

func prettyPrint(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		switch v := values[key].(type) {
		case []any:
			for idx, item := range v {
				fmt.Fprintf(&b, "%s[%d]=%v\n", key, idx, item)
			}
		default:
			fmt.Fprintf(&b, "%s=%v\n", key, v)
		}
	}
	return b.String()
}
