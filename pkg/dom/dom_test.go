package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

func mountForm(t *testing.T, fields ...model.Field) *Element {
	t.Helper()
	form := NewElement("form")
	factory := element.NewFactory(element.WithIDGenerator(func() string { return "cb" }))
	for _, node := range factory.BuildAll(fields) {
		form.AppendChild(Mount(node))
	}
	return form
}

func TestMountPreservesStructure(t *testing.T) {
	node := element.Build(model.Field{
		Key:     "color",
		Label:   "Color",
		Type:    model.FieldTypeSelect,
		Options: []model.Option{{Label: "Red", Value: "r"}},
	})
	live := Mount(node)
	if diff := cmp.Diff(node, Snapshot(live)); diff != "" {
		t.Fatalf("mount/snapshot mismatch (-want +got):\n%s", diff)
	}
	sel := live.QuerySelector("select")
	if sel == nil || sel.Value() != "" {
		t.Fatalf("expected placeholder option selected by default, got %+v", sel)
	}
}

func TestQuerySelectors(t *testing.T) {
	form := mountForm(t,
		model.Field{Key: "name", Label: "Name", Type: model.FieldTypeText},
		model.Field{Key: "bio", Label: "Bio", Type: model.FieldTypeTextarea},
		model.Field{Key: "token", Type: model.FieldTypeHidden},
	)

	controls := Controls(form)
	var names []string
	for _, control := range controls {
		names = append(names, control.Name())
	}
	if diff := cmp.Diff([]string{"name", "bio", "token"}, names); diff != "" {
		t.Fatalf("control order mismatch (-want +got):\n%s", diff)
	}

	if got := form.QuerySelector(`input[name=token]`); got == nil || got.Type() != "hidden" {
		t.Fatalf("attribute selector failed, got %+v", got)
	}
	if got := form.QuerySelectorAll(".form-field"); len(got) != 2 {
		t.Fatalf("expected 2 field containers, got %d", len(got))
	}
	textarea := form.QuerySelector("textarea")
	if textarea.Closest(".form-field") == nil {
		t.Fatalf("expected textarea inside a form-field")
	}
	if textarea.Closest("form") != form {
		t.Fatalf("expected closest form to be the root")
	}
}

func TestToggleErrorReplacesNode(t *testing.T) {
	form := mountForm(t, model.Field{Key: "name", Label: "Name", Type: model.FieldTypeText})
	input := form.QuerySelector("input")
	field := input.Closest(".form-field")

	for i := 0; i < 3; i++ {
		ToggleError(input, "This field is required.")
	}
	errs := field.QuerySelectorAll(".error")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error node, got %d", len(errs))
	}
	if got := ErrorFor(input); got != "This field is required." {
		t.Fatalf("unexpected error text %q", got)
	}
	if style, _ := errs[0].Attr("style"); style != ErrorStyle {
		t.Fatalf("expected inline style, got %q", style)
	}

	ToggleError(input, "")
	if got := field.QuerySelectorAll(".error"); len(got) != 0 {
		t.Fatalf("expected error node removed, got %d", len(got))
	}
}

func TestToggleErrorIgnoresBareControls(t *testing.T) {
	form := mountForm(t, model.Field{Key: "token", Type: model.FieldTypeHidden})
	hidden := form.QuerySelector("input")
	ToggleError(hidden, "nope")
	if got := form.QuerySelectorAll(".error"); len(got) != 0 {
		t.Fatalf("bare control must not get an error node")
	}
}

func TestFormDataFollowsNativeSemantics(t *testing.T) {
	form := mountForm(t,
		model.Field{Key: "formId", Type: model.FieldTypeHidden, DefaultValue: "f1"},
		model.Field{Key: "name", Label: "Name", Type: model.FieldTypeText},
		model.Field{Key: "agree", Label: "Agree", Type: model.FieldTypeCheckbox},
		model.Field{Key: "size", Label: "Size", Type: model.FieldTypeRadio, Options: []model.Option{{Label: "S", Value: "s"}, {Label: "M", Value: "m"}}},
		model.Field{Key: "color", Label: "Color", Type: model.FieldTypeSelect, Options: []model.Option{{Label: "Red", Value: "r"}}},
		model.Field{Key: "send", Label: "Send", Type: model.FieldTypeButton},
	)
	upload := NewElement("input")
	upload.SetAttr("type", "file")
	upload.SetAttr("name", "doc")
	upload.SetFiles(File{Name: "a.txt", ContentType: "text/plain", Data: []byte("hi")})
	form.AppendChild(upload)

	form.QuerySelector(`input[name=name]`).SetValue("Ada")
	radios := form.QuerySelectorAll(`input[name=size]`)
	radios[0].SetChecked(true)
	radios[1].SetChecked(true)
	form.QuerySelector("select").SetValue("r")

	entries := FormData(form)
	var got []string
	for _, entry := range entries {
		if entry.File != nil {
			got = append(got, entry.Name+"=file:"+entry.File.Name)
			continue
		}
		got = append(got, entry.Name+"="+entry.Value)
	}
	want := []string{"formId=f1", "name=Ada", "size=m", "color=r", "doc=file:a.txt"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("form data mismatch (-want +got):\n%s", diff)
	}
	if radios[0].Checked() {
		t.Fatalf("checking a radio must uncheck its siblings")
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	form := mountForm(t,
		model.Field{Key: "name", Label: "Name", Type: model.FieldTypeText, DefaultValue: "Ada"},
		model.Field{Key: "bio", Label: "Bio", Type: model.FieldTypeTextarea},
		model.Field{Key: "agree", Label: "Agree", Type: model.FieldTypeCheckbox},
		model.Field{Key: "color", Label: "Color", Type: model.FieldTypeSelect, Options: []model.Option{{Label: "Red", Value: "r"}}},
		model.Field{Key: "token", Type: model.FieldTypeHidden},
	)
	form.QuerySelector(`input[name=name]`).SetValue("Grace")
	form.QuerySelector("textarea").SetValue("text")
	form.QuerySelector(`input[type=checkbox]`).SetChecked(true)
	form.QuerySelector("select").SetValue("r")
	form.QuerySelector(`input[name=token]`).SetValue("kept")

	Reset(form)

	if got := form.QuerySelector(`input[name=name]`).Value(); got != "Ada" {
		t.Fatalf("expected default restored, got %q", got)
	}
	if got := form.QuerySelector("textarea").Value(); got != "" {
		t.Fatalf("expected textarea cleared, got %q", got)
	}
	if form.QuerySelector(`input[type=checkbox]`).Checked() {
		t.Fatalf("expected checkbox unchecked")
	}
	if got := form.QuerySelector("select").Value(); got != "" {
		t.Fatalf("expected placeholder selected, got %q", got)
	}
	if got := form.QuerySelector(`input[name=token]`).Value(); got != "kept" {
		t.Fatalf("hidden inputs keep their value on reset, got %q", got)
	}
}

func TestDispatchBubblesAndStops(t *testing.T) {
	outer := NewElement("div")
	inner := outer.AppendChild(NewElement("span"))

	var order []string
	outer.AddEventListener(EventClick, func(ev *Event) { order = append(order, "outer") })
	inner.AddEventListener(EventClick, func(ev *Event) { order = append(order, "inner") })
	inner.Click()
	if diff := cmp.Diff([]string{"inner", "outer"}, order); diff != "" {
		t.Fatalf("bubble order mismatch (-want +got):\n%s", diff)
	}

	order = nil
	inner.AddEventListener(EventClick, func(ev *Event) { ev.StopPropagation() })
	inner.Click()
	if diff := cmp.Diff([]string{"inner"}, order); diff != "" {
		t.Fatalf("stopPropagation mismatch (-want +got):\n%s", diff)
	}

	order = nil
	outer.AddEventListener(EventBlur, func(ev *Event) { order = append(order, "outer-blur") })
	inner.Dispatch(EventBlur)
	if len(order) != 0 {
		t.Fatalf("blur must not bubble, got %v", order)
	}
}

func TestCustomSelectBehaviour(t *testing.T) {
	page := NewPage()
	options := []model.Option{{Label: "Spain", Value: "es"}, {Label: "Sweden", Value: "se"}, {Label: "Peru", Value: "pe"}}
	form := mountForm(t, model.Field{Key: "country", Label: "Country", Type: model.FieldTypeCustomSelect, Options: options})
	page.Body.AppendChild(form)
	outside := page.Body.AppendChild(NewElement("p"))

	cs, err := BindCustomSelect(form.QuerySelector(".custom-select"), options)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	changes := 0
	cs.Hidden().AddEventListener(EventChange, func(*Event) { changes++ })

	cs.Toggle()
	if !cs.Open() {
		t.Fatalf("expected panel open after toggle")
	}
	cs.Search("SW")
	if diff := cmp.Diff([]string{"se"}, cs.Visible()); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}
	if err := cs.Choose("se"); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if cs.Open() {
		t.Fatalf("expected panel closed after choosing")
	}
	if got := cs.Hidden().Value(); got != "se" {
		t.Fatalf("expected hidden value se, got %q", got)
	}
	if got := cs.Display(); got != "Sweden" {
		t.Fatalf("expected display Sweden, got %q", got)
	}
	if changes != 1 {
		t.Fatalf("expected one change event, got %d", changes)
	}

	cs.Toggle()
	cs.Search("pe")
	page.Click(outside)
	if cs.Open() {
		t.Fatalf("outside click must close the panel")
	}
	if len(cs.Visible()) != 3 {
		t.Fatalf("closing clears the search, got %v", cs.Visible())
	}
	if changes != 2 {
		t.Fatalf("expected change on outside close, got %d", changes)
	}

	cs.Toggle()
	cs.Toggle()
	if cs.Open() || changes != 3 {
		t.Fatalf("toggling closed must dispatch change, open=%v changes=%d", cs.Open(), changes)
	}

	if err := cs.Choose("xx"); err == nil {
		t.Fatalf("expected error for unlisted option")
	}
	if _, err := BindCustomSelect(NewElement("div"), nil); err == nil {
		t.Fatalf("expected bind error for plain div")
	}
}
