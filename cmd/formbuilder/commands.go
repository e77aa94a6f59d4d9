package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbuilder/internal/server"
	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/controller"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/transport"
)

func loadConfig(path string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, cfg.Logger(os.Stderr), nil
}

// fieldSource picks a source for raw: an OpenAPI document when operation is
// set, otherwise a field document by URL or path.
func fieldSource(raw, operation string, cfg *config.Config, logger zerolog.Logger) (transport.FieldSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("-source is required")
	}
	remote := strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
	if operation != "" {
		if remote {
			return openapi.NewSource(func(ctx context.Context) (*openapi.Document, error) {
				return openapi.LoadURL(ctx, raw)
			}, operation), nil
		}
		return openapi.NewFileSource(raw, operation), nil
	}
	if remote {
		return transport.NewHTTPSource(raw,
			transport.WithTimeout(cfg.Timeout),
			transport.WithLogger(logger),
		), nil
	}
	return transport.FileSource{Path: raw}, nil
}

func themeConfig(name, variant string) (*theme.RendererConfig, error) {
	selector := html.NewManifestSelector(html.DefaultThemeName, html.DefaultManifest())
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return html.RendererConfig(selection, nil), nil
}

func runRender(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	source := fs.String("source", "", "field document path or URL (OpenAPI document with -operation)")
	operation := fs.String("operation", "", "OpenAPI operation ID to derive fields from")
	formID := fs.String("form-id", "", "form id (defaults to the source file name)")
	tenant := fs.String("tenant", "", "tenant id written to the tenantId input")
	renderer := fs.String("renderer", html.Name, "renderer to use (html or tui)")
	page := fs.Bool("page", false, "wrap the html fragment in a full page")
	title := fs.String("title", "", "page title")
	themeName := fs.String("theme", "", "theme name (defaults to the configured theme)")
	variant := fs.String("variant", "", "theme variant")
	submitURL := fs.String("submit-url", "", "submit URL (defaults to save_url)")
	format := fs.String("format", string(tui.OutputFormatJSON), "tui output format: json, form or pretty")
	output := fs.String("output", "", "output file (stdout if empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	src, err := fieldSource(*source, *operation, cfg, logger)
	if err != nil {
		return err
	}
	fields, err := src.Load(ctx)
	if err != nil {
		return err
	}

	id := *formID
	if id == "" {
		id = *operation
	}
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(*source), filepath.Ext(*source))
	}
	form := model.Form{ID: id, TenantID: *tenant, Fields: fields}

	name := *themeName
	if name == "" {
		name = cfg.Theme
	}
	rc, err := themeConfig(name, *variant)
	if err != nil {
		return err
	}
	htmlOpts := []html.Option{html.WithTheme(rc)}
	if *page {
		htmlOpts = append(htmlOpts, html.WithPage(*title))
	}
	htmlRenderer, err := html.New(htmlOpts...)
	if err != nil {
		return err
	}
	tuiRenderer, err := tui.New(tui.WithOutputFormat(tui.OutputFormat(*format)))
	if err != nil {
		return err
	}
	registry := render.NewRegistry()
	registry.MustRegister(htmlRenderer)
	registry.MustRegister(tuiRenderer)

	target := *submitURL
	if target == "" {
		target = cfg.SaveURL
	}
	out, _, err := registry.Render(ctx, *renderer, form, render.RenderOptions{SubmitURL: target})
	if err != nil {
		return err
	}

	if *output == "" {
		_, err := os.Stdout.Write(append(out, '\n'))
		return err
	}
	if err := os.WriteFile(*output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info().Str("output", *output).Str("renderer", *renderer).Msg("form written")
	return nil
}

func runFill(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fill", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	apiURL := fs.String("api-url", "", "field document base URL (defaults to api_url)")
	formID := fs.String("form-id", "", "form id to fetch")
	portalID := fs.String("portal", "", "portal id sent with the fetch and as tenantId")
	submitURL := fs.String("submit-url", "", "submit URL (defaults to save_url)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *formID == "" {
		return errors.New("-form-id is required")
	}

	cfg, logger, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
	}

	c, err := controller.New(dom.NewPage(), controller.Options{
		FormID:    *formID,
		PortalID:  *portalID,
		SubmitURL: *submitURL,
	}, controller.WithConfig(*cfg), controller.WithLogger(logger))
	if err != nil {
		return err
	}

	var initErr error
	c.On(controller.EventInit, func(payload any) {
		if p, ok := payload.(controller.InitPayload); ok && !p.Status {
			initErr = p.Err
		}
	})
	c.Init(ctx)
	if initErr != nil {
		return fmt.Errorf("load form %s: %w", *formID, initErr)
	}

	result, err := tui.NewFiller().Fill(ctx, c)
	if err != nil {
		return err
	}
	if !result.Success() {
		return errors.New("form was not submitted")
	}
	return nil
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	dir := fs.String("dir", "forms", "directory of {formId}.json or .yaml documents")
	addr := fs.String("addr", "", "listen address (defaults to server.addr)")
	variant := fs.String("variant", "", "theme variant")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	rc, err := themeConfig(cfg.Theme, *variant)
	if err != nil {
		return err
	}

	srv, err := server.New(*cfg, server.DirStore{FS: os.DirFS(*dir)},
		server.WithLogger(logger),
		server.WithTheme(rc),
	)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}

func runLint(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: formbuilder lint <paths...>\n\nReport duplicate keys, missing options, unknown types or rules and invalid patterns.\n")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("no documents given")
	}

	failed := 0
	for _, path := range fs.Args() {
		fields, err := transport.FileSource{Path: path}.Load(ctx)
		if err == nil {
			err = model.Check(fields)
		}
		if err != nil {
			failed++
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(os.Stderr, "%s: %s\n", path, line)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents have problems", failed, fs.NArg())
	}
	return nil
}
