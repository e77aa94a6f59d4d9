package controller_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/controller"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
	"github.com/goliatone/go-formbuilder/pkg/transport"
)

type recorder struct {
	names    []string
	payloads []any
}

func (r *recorder) attach(c *controller.Controller) {
	for _, name := range []string{
		controller.EventBeforeInit,
		controller.EventInit,
		controller.EventBeforeSubmit,
		controller.EventAfterSubmit,
	} {
		c.On(name, func(payload any) {
			r.names = append(r.names, name)
			r.payloads = append(r.payloads, payload)
		})
	}
}

func (r *recorder) last(name string) any {
	for idx := len(r.names) - 1; idx >= 0; idx-- {
		if r.names[idx] == name {
			return r.payloads[idx]
		}
	}
	return nil
}

func newServerController(t *testing.T, formID string, options ...controller.Option) (*controller.Controller, *testsupport.FormServer, *recorder) {
	t.Helper()
	srv := testsupport.NewFormServer(t, map[string][]model.Field{"contact": testsupport.SampleFields()})

	cfg := config.Default()
	cfg.APIURL = srv.BaseURL()
	cfg.SaveURL = srv.SaveURL()

	page := dom.NewPage()
	page.AddScript("embed.js")

	opts := append([]controller.Option{controller.WithConfig(cfg)}, options...)
	c, err := controller.New(page, controller.Options{FormID: formID, PortalID: "portal-7"}, opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	rec := &recorder{}
	rec.attach(c)
	return c, srv, rec
}

func control(t *testing.T, c *controller.Controller, selector string) *dom.Element {
	t.Helper()
	el := c.Form().QuerySelector(selector)
	if el == nil {
		t.Fatalf("no element matches %q", selector)
	}
	return el
}

func fillValid(t *testing.T, c *controller.Controller) {
	t.Helper()
	if err := c.SetValue("name", "Ada"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if err := c.Check("terms", true); err != nil {
		t.Fatalf("check terms: %v", err)
	}
}

func TestInitBuildsFormFromFetchedFields(t *testing.T) {
	c, srv, rec := newServerController(t, "contact")
	c.Init(context.Background())

	if diff := cmp.Diff([]string{controller.EventBeforeInit, controller.EventInit}, rec.names); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	payload, ok := rec.last(controller.EventInit).(controller.InitPayload)
	if !ok || !payload.Status || payload.Form == nil || payload.Err != nil {
		t.Fatalf("unexpected init payload %#v", rec.last(controller.EventInit))
	}
	if srv.Fetches() != 1 {
		t.Fatalf("expected one fetch, got %d", srv.Fetches())
	}
	if c.State() != controller.StateBuilt {
		t.Fatalf("state = %s", c.State())
	}

	form := c.Form()
	if form.ID() != "contact" || !form.HasAttr("novalidate") {
		t.Fatalf("unexpected form attributes %v", form.Attrs())
	}
	if form.Parent() != c.Container() {
		t.Fatalf("form is not inside the container")
	}

	var names []string
	for _, el := range dom.Controls(form) {
		if el.Name() != "" && (len(names) == 0 || names[len(names)-1] != el.Name()) {
			names = append(names, el.Name())
		}
	}
	want := []string{"formId", "tenantId", "name", "age", "bio", "terms", "size", "color", "country", "source"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("control order mismatch (-want +got):\n%s", diff)
	}
	if got := control(t, c, "input[name=tenantId]").Value(); got != "portal-7" {
		t.Fatalf("tenantId = %q", got)
	}
}

func TestContainerInsertedAfterCurrentScript(t *testing.T) {
	page := dom.NewPage()
	page.Body.AppendChild(dom.NewElement("header"))
	script := page.AddScript("embed.js")
	page.Body.AppendChild(dom.NewElement("footer"))

	handle, err := controller.Create(page, controller.Options{FormID: "inline", Data: testsupport.SampleFields()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	children := page.Body.Children()
	var tags []string
	for _, child := range children {
		tags = append(tags, child.Tag)
	}
	if diff := cmp.Diff([]string{"header", "script", "div", "footer"}, tags); diff != "" {
		t.Fatalf("body children mismatch (-want +got):\n%s", diff)
	}
	if children[2] != handle.Container || !handle.Container.HasClass("form-container") {
		t.Fatalf("container not placed after %v", script.Attrs())
	}
}

func TestContainerSelectorMissing(t *testing.T) {
	page := dom.NewPage()
	_, err := controller.Create(page, controller.Options{Selector: "#nowhere", FormID: "x"})
	if !errors.Is(err, controller.ErrContainerNotFound) {
		t.Fatalf("expected ErrContainerNotFound, got %v", err)
	}
	if len(page.Body.Children()) != 0 {
		t.Fatalf("nothing should be added to the page")
	}
}

func TestContainerSelectorAndElement(t *testing.T) {
	page := dom.NewPage()
	target := dom.NewElement("section")
	target.SetAttr("id", "slot")
	page.Body.AppendChild(target)

	handle, err := controller.Create(page, controller.Options{Selector: "#slot", FormID: "x"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if handle.Container != target {
		t.Fatalf("selector should resolve the section")
	}

	other := dom.NewElement("div")
	handle, err = controller.Create(page, controller.Options{Selector: "#missing", Element: other, FormID: "x"})
	if err != nil {
		t.Fatalf("create with element: %v", err)
	}
	if handle.Container != other {
		t.Fatalf("element should win over selector")
	}
}

func TestInlineDataSkipsFetchAndFiresInit(t *testing.T) {
	srv := testsupport.NewFormServer(t, map[string][]model.Field{"inline": testsupport.SampleFields()})
	page := dom.NewPage()
	handle, err := controller.Create(page, controller.Options{FormID: "inline", Data: []model.Field{
		{Key: "email", Label: "Email", Type: model.FieldTypeText},
	}}, controller.WithConfig(config.Config{APIURL: srv.BaseURL()}))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var statuses []bool
	handle.On(controller.EventInit, func(payload any) {
		statuses = append(statuses, payload.(controller.InitPayload).Status)
	}).Init(context.Background())

	if diff := cmp.Diff([]bool{true}, statuses); diff != "" {
		t.Fatalf("init statuses mismatch (-want +got):\n%s", diff)
	}
	if srv.Fetches() != 0 {
		t.Fatalf("inline data must not fetch")
	}
	if handle.Controller().Form().QuerySelector("input[name=email]") == nil {
		t.Fatalf("inline field missing")
	}
}

func TestFetchFailureEmitsInitFalseOnce(t *testing.T) {
	var logs bytes.Buffer
	c, _, rec := newServerController(t, "unknown", controller.WithLogger(zerolog.New(&logs)))
	c.Init(context.Background())

	if diff := cmp.Diff([]string{controller.EventBeforeInit, controller.EventInit}, rec.names); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	payload := rec.last(controller.EventInit).(controller.InitPayload)
	if payload.Status || payload.Form != nil {
		t.Fatalf("unexpected init payload %#v", payload)
	}
	var fetchErr *transport.FetchError
	if !errors.As(payload.Err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", payload.Err)
	}
	var status *transport.StatusError
	if !errors.As(payload.Err, &status) || status.Code != http.StatusNotFound {
		t.Fatalf("expected 404 status error, got %v", payload.Err)
	}
	if c.Form() != nil || len(c.Container().Children()) != 0 {
		t.Fatalf("no form should be built")
	}
	if c.State() != controller.StateUnbuilt {
		t.Fatalf("state = %s", c.State())
	}
	if !strings.Contains(logs.String(), "There was a problem fetching or building the form") {
		t.Fatalf("fetch failure not logged: %s", logs.String())
	}

	result := c.Submit(context.Background())
	if !errors.Is(result.Err, controller.ErrNotBuilt) {
		t.Fatalf("expected ErrNotBuilt, got %v", result.Err)
	}
}

func TestLiveValidationTogglesSingleErrorNode(t *testing.T) {
	c, _, _ := newServerController(t, "contact")
	c.Init(context.Background())

	name := control(t, c, "input[name=name]")
	name.Dispatch(dom.EventBlur)
	if got := dom.ErrorFor(name); got != "This field is required." {
		t.Fatalf("blur error = %q", got)
	}

	name.Input(strings.Repeat("x", 21))
	if got := dom.ErrorFor(name); got != "Maximum length is 20 characters." {
		t.Fatalf("maxlength error = %q", got)
	}
	if n := len(name.Closest(".form-field").QuerySelectorAll(".error")); n != 1 {
		t.Fatalf("expected one error node, got %d", n)
	}

	name.Input("Ada")
	if got := dom.ErrorFor(name); got != "" {
		t.Fatalf("error should clear, got %q", got)
	}

	age := control(t, c, "input[name=age]")
	age.Input("12")
	if got := dom.ErrorFor(age); got != "Adults only." {
		t.Fatalf("custom message = %q", got)
	}
	if _, ok := c.Errors()["name"]; ok {
		t.Fatalf("live validation must only touch the changed field")
	}
}

func TestSubmitBlockedByValidation(t *testing.T) {
	c, srv, rec := newServerController(t, "contact")
	c.Init(context.Background())
	rec.names, rec.payloads = nil, nil

	result := c.Submit(context.Background())
	if result.Valid || result.Success() {
		t.Fatalf("submission should be blocked: %#v", result)
	}
	if len(rec.names) != 0 {
		t.Fatalf("no events expected, got %v", rec.names)
	}
	if len(srv.Submissions()) != 0 {
		t.Fatalf("no request expected")
	}

	want := map[string]string{
		"name":  "This field is required.",
		"terms": "This field is required.",
	}
	if diff := cmp.Diff(want, c.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitSuccessResetsForm(t *testing.T) {
	c, srv, rec := newServerController(t, "contact")
	c.Init(context.Background())
	fillValid(t, c)
	if err := c.SetValue("size", "l"); err != nil {
		t.Fatalf("set size: %v", err)
	}
	if err := c.SetValue("country", "se"); err != nil {
		t.Fatalf("set country: %v", err)
	}
	rec.names, rec.payloads = nil, nil

	result := c.Submit(context.Background())
	if !result.Success() {
		t.Fatalf("expected success, got %#v", result)
	}
	if diff := cmp.Diff([]string{controller.EventBeforeSubmit, controller.EventAfterSubmit}, rec.names); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	if rec.payloads[0] != c.Form() {
		t.Fatalf("beforeSubmit should carry the form element")
	}
	after := rec.payloads[1].(controller.SubmitPayload)
	if diff := cmp.Diff(map[string]any{"ok": true}, after.Data); diff != "" || !after.Success {
		t.Fatalf("afterSubmit payload mismatch (-want +got):\n%s", diff)
	}

	subs := srv.Submissions()
	if len(subs) != 1 {
		t.Fatalf("expected one submission, got %d", len(subs))
	}
	got := map[string]string{}
	for _, key := range []string{"formId", "tenantId", "name", "size", "country", "source"} {
		got[key] = strings.Join(subs[0].Values[key], ",")
	}
	want := map[string]string{
		"formId":   "contact",
		"tenantId": "portal-7",
		"name":     "Ada",
		"size":     "l",
		"country":  "se",
		"source":   "web",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}
	if _, ok := subs[0].Values["submit"]; ok {
		t.Fatalf("buttons must not be submitted")
	}

	if v, _ := c.Value("name"); v != "" {
		t.Fatalf("form should be reset, name = %q", v)
	}
	if v, _ := c.Value("source"); v != "web" {
		t.Fatalf("hidden value should survive reset, got %q", v)
	}
}

func TestSubmitFailureKeepsValuesAndMapsErrors(t *testing.T) {
	c, srv, rec := newServerController(t, "contact")
	srv.SetSaveReply(http.StatusUnprocessableEntity, `{"errors":{"name":["Name is taken"],"unknown":["Try again later"]}}`)
	c.Init(context.Background())
	fillValid(t, c)

	result := c.Submit(context.Background())
	if !result.Valid || result.Success() {
		t.Fatalf("expected a failed submission, got %#v", result)
	}
	after := rec.last(controller.EventAfterSubmit).(controller.SubmitPayload)
	if after.Success || after.Err == nil {
		t.Fatalf("unexpected afterSubmit payload %#v", after)
	}
	var submitErr *transport.SubmitError
	if !errors.As(after.Err, &submitErr) {
		t.Fatalf("expected SubmitError, got %v", after.Err)
	}
	if v, _ := c.Value("name"); v != "Ada" {
		t.Fatalf("values must be kept on failure, name = %q", v)
	}

	mapping, err := c.MapServerErrors(result.Err)
	if err != nil {
		t.Fatalf("map server errors: %v", err)
	}
	if diff := cmp.Diff([]string{"Try again later"}, mapping.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	if got := c.Errors()["name"]; got != "Name is taken" {
		t.Fatalf("server error not shown, got %q", got)
	}
	if _, err := c.MapServerErrors(errors.New("offline")); err == nil {
		t.Fatalf("expected an error for a non-HTTP failure")
	}
}

func TestSubmitButtonClickSubmits(t *testing.T) {
	var got []string
	submitter := transport.SubmitterFunc(func(_ context.Context, target string, entries []dom.Entry) (any, error) {
		for _, entry := range entries {
			got = append(got, entry.Name+"="+entry.Value)
		}
		got = append(got, "@"+target)
		return nil, nil
	})

	page := dom.NewPage()
	c, err := controller.New(page, controller.Options{
		FormID:    "inline",
		SubmitURL: "https://example.test/save",
		Hidden:    []render.HiddenField{render.CSRFToken("_csrf", "t0k")},
		Data: []model.Field{
			{Key: "email", Type: model.FieldTypeText},
			{Key: "submit", Label: "Send", Type: model.FieldTypeButton},
		},
	}, controller.WithSubmitter(submitter))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.Init(context.Background())
	if err := c.SetValue("email", "a@b.c"); err != nil {
		t.Fatalf("set email: %v", err)
	}

	page.Click(c.Form().QuerySelector("button"))

	want := []string{"formId=inline", "tenantId=", "_csrf=t0k", "email=a@b.c", "@https://example.test/save"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submitted entries mismatch (-want +got):\n%s", diff)
	}
}

func TestInitRebuildReplacesForm(t *testing.T) {
	calls := 0
	source := transport.FieldSourceFunc(func(context.Context) ([]model.Field, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("flaky")
		}
		return []model.Field{{Key: "n" + string(rune('0'+calls)), Type: model.FieldTypeText}}, nil
	})
	page := dom.NewPage()
	c, err := controller.New(page, controller.Options{FormID: "f"}, controller.WithFieldSource(source))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	c.Init(context.Background())
	first := c.Form()
	c.Init(context.Background())
	if c.Form() != first || c.State() != controller.StateBuilt {
		t.Fatalf("a failed rebuild must keep the previous form")
	}
	c.Init(context.Background())
	if len(c.Container().QuerySelectorAll("form")) != 1 {
		t.Fatalf("expected exactly one form after rebuild")
	}
	if c.Form().QuerySelector("input[name=n3]") == nil {
		t.Fatalf("rebuilt form should carry the new fields")
	}
}

func TestValueHelpers(t *testing.T) {
	page := dom.NewPage()
	c, err := controller.New(page, controller.Options{FormID: "f", Data: testsupport.SampleFields()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.SetValue("name", "x"); !errors.Is(err, controller.ErrNotBuilt) {
		t.Fatalf("expected ErrNotBuilt before init, got %v", err)
	}
	c.Init(context.Background())

	if err := c.SetValue("missing", "x"); !errors.Is(err, controller.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := c.SetValue("color", "green"); err == nil {
		t.Fatalf("expected unknown select option to fail")
	}
	if err := c.SetValue("size", "xl"); err == nil {
		t.Fatalf("expected unknown radio option to fail")
	}
	if err := c.Check("name", true); err == nil {
		t.Fatalf("expected Check on a text input to fail")
	}

	if err := c.SetValue("color", "blue"); err != nil {
		t.Fatalf("set color: %v", err)
	}
	if err := c.SetValue("terms", "true"); err != nil {
		t.Fatalf("set terms: %v", err)
	}
	got := map[string]string{}
	for _, key := range []string{"color", "terms"} {
		got[key], _ = c.Value(key)
	}
	if diff := cmp.Diff(map[string]string{"color": "blue", "terms": "on"}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestDecoratorsRunBeforeBuild(t *testing.T) {
	page := dom.NewPage()
	localize := render.Localize(render.LocalizeOptions{
		Locale: "es",
		Translator: render.TranslatorFunc(func(_, key string, _ ...any) (string, error) {
			if key == "fields.name.validations.required" {
				return "Campo obligatorio", nil
			}
			return "", errors.New("missing")
		}),
	})
	c, err := controller.New(page, controller.Options{FormID: "f", Data: []model.Field{
		{Key: "name", Label: "Name", Type: model.FieldTypeText, Validations: []model.ValidationRule{
			{Kind: model.RuleRequired, Value: "true", Message: "Required"},
		}},
	}}, controller.WithDecorators(localize))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.Init(context.Background())

	if c.Validate() {
		t.Fatalf("empty required field should fail")
	}
	if got := c.Errors()["name"]; got != "Campo obligatorio" {
		t.Fatalf("localized message = %q", got)
	}
}

func TestCustomSelectBindsAnyKey(t *testing.T) {
	options := []model.Option{{Label: "Paris", Value: "par"}, {Label: "Lima", Value: "lim"}}
	for _, key := range []string{"city", "city,state", `say "where"`} {
		t.Run(key, func(t *testing.T) {
			var logs bytes.Buffer
			c, err := controller.New(dom.NewPage(), controller.Options{FormID: "f", Data: []model.Field{
				{Key: key, Label: "City", Type: model.FieldTypeCustomSelect, Options: options, Validations: []model.ValidationRule{
					{Kind: model.RuleRequired, Value: "true"},
				}},
			}}, controller.WithLogger(zerolog.New(&logs)))
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			c.Init(context.Background())

			root := control(t, c, "."+element.ClassCustomSelect)
			root.QuerySelector("." + element.ClassSelected).Click()
			if root.QuerySelector("."+element.ClassShow) == nil {
				t.Fatalf("panel did not open on click")
			}
			if err := c.SetValue(key, "par"); err != nil {
				t.Fatalf("choose: %v", err)
			}
			if got, _ := c.Value(key); got != "par" {
				t.Fatalf("hidden value = %q, want par", got)
			}
			if !c.Validate() {
				t.Fatalf("required custom select should pass once chosen: %v", c.Errors())
			}
			if strings.Contains(logs.String(), "custom select not bound") {
				t.Fatalf("unexpected warning: %s", logs.String())
			}
		})
	}
}
