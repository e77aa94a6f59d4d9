package element

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

func fixedIDs(ids ...string) IDGenerator {
	idx := 0
	return func() string {
		id := ids[idx%len(ids)]
		idx++
		return id
	}
}

func optionTexts(node *Node) []string {
	var out []string
	for _, opt := range node.FindAll(func(n *Node) bool { return n.Tag == "option" }) {
		out = append(out, opt.Text)
	}
	return out
}

func TestBuildSelectPlaceholderFirst(t *testing.T) {
	node := Build(model.Field{
		Key:     "color",
		Label:   "Color",
		Type:    model.FieldTypeSelect,
		Options: []model.Option{{Label: "A", Value: "a"}},
	})
	if node == nil || !node.HasClass(ClassFormField) {
		t.Fatalf("expected form-field wrapper, got %+v", node)
	}
	want := []string{"--Select Color--", "A"}
	if diff := cmp.Diff(want, optionTexts(node)); diff != "" {
		t.Fatalf("option list mismatch (-want +got):\n%s", diff)
	}
	first := node.Children[0].Children[0]
	if value, _ := first.Attr("value"); value != "" {
		t.Fatalf("placeholder option must carry an empty value, got %q", value)
	}
}

func TestBuildHiddenIsBare(t *testing.T) {
	node := Build(model.Field{Key: "token", Type: model.FieldTypeHidden, DefaultValue: "abc"})
	want := &Node{
		Tag: "input",
		Attrs: []Attr{
			{Name: "name", Value: "token"},
			{Name: "value", Value: "abc"},
			{Name: "type", Value: "hidden"},
		},
	}
	if diff := cmp.Diff(want, node); diff != "" {
		t.Fatalf("hidden node mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTextAppliesNativeRules(t *testing.T) {
	node := Build(model.Field{
		Key:   "name",
		Label: "Name",
		Type:  model.FieldTypeText,
		Validations: []model.ValidationRule{
			{Kind: model.RuleRequired, Value: "true"},
			{Kind: model.RuleMaxLength, Value: "20"},
		},
	})
	input := node.Children[0]
	want := []Attr{
		{Name: "name", Value: "name"},
		{Name: "type", Value: "text"},
		{Name: "placeholder", Value: "Name"},
		{Name: "required", Value: ""},
		{Name: "maxlength", Value: "20"},
	}
	if diff := cmp.Diff(want, input.Attrs); diff != "" {
		t.Fatalf("input attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTextareaCarriesDefault(t *testing.T) {
	node := Build(model.Field{Key: "bio", Label: "Bio", Type: model.FieldTypeTextarea, DefaultValue: "hello"})
	textarea := node.Children[0]
	if textarea.Tag != "textarea" || textarea.Text != "hello" {
		t.Fatalf("unexpected textarea %+v", textarea)
	}
	if placeholder, _ := textarea.Attr("placeholder"); placeholder != "Bio" {
		t.Fatalf("expected placeholder Bio, got %q", placeholder)
	}
}

func TestBuildCheckboxUsesGeneratedID(t *testing.T) {
	factory := NewFactory(WithIDGenerator(fixedIDs("cb1")))
	node := factory.Build(model.Field{Key: "agree", Label: "I agree", Type: model.FieldTypeCheckbox})

	label := node.Children[0]
	if label.Tag != "label" {
		t.Fatalf("expected label wrapper, got %q", label.Tag)
	}
	if target, _ := label.Attr("for"); target != "cb1" {
		t.Fatalf("expected label for=cb1, got %q", target)
	}
	input := label.Children[0]
	if id, _ := input.Attr("id"); id != "cb1" {
		t.Fatalf("expected input id cb1, got %q", id)
	}
	if got := label.Children[1]; !got.IsText() || got.Text != "I agree" {
		t.Fatalf("expected trailing label text, got %+v", got)
	}
}

func TestBuildCheckboxDefaultIDsAreUnique(t *testing.T) {
	field := model.Field{Key: "agree", Label: "I agree", Type: model.FieldTypeCheckbox}
	first, _ := Build(field).Children[0].Attr("for")
	second, _ := Build(field).Children[0].Attr("for")
	if first == "" || first == second {
		t.Fatalf("expected distinct generated ids, got %q and %q", first, second)
	}
}

func TestBuildRadioIDsFollowKeyIndex(t *testing.T) {
	node := Build(model.Field{
		Key:          "size",
		Label:        "Size",
		Type:         model.FieldTypeRadio,
		DefaultValue: "m",
		Options:      []model.Option{{Label: "Small", Value: "s"}, {Label: "Medium", Value: "m"}},
	})
	group := node.Children[0]
	if !group.HasClass(ClassRadioGroup) {
		t.Fatalf("expected radio-group container")
	}
	if group.Children[0].Tag != "label" || group.Children[0].Text != "Size" {
		t.Fatalf("expected group label first, got %+v", group.Children[0])
	}

	inputs := group.FindAll(func(n *Node) bool { return n.Tag == "input" })
	if len(inputs) != 2 {
		t.Fatalf("expected 2 radio inputs, got %d", len(inputs))
	}
	for idx, input := range inputs {
		id, _ := input.Attr("id")
		if id != RadioID("size", idx) {
			t.Fatalf("radio %d: expected id %q, got %q", idx, RadioID("size", idx), id)
		}
	}
	if _, checked := inputs[1].Attr("checked"); !checked {
		t.Fatalf("expected default option to be checked")
	}
}

func TestBuildCustomSelectStructure(t *testing.T) {
	node := Build(model.Field{
		Key:     "country",
		Label:   "Country",
		Type:    model.FieldTypeCustomSelect,
		Options: []model.Option{{Label: "Spain", Value: "es"}, {Label: "Sweden", Value: "se"}},
		Validations: []model.ValidationRule{
			{Kind: model.RuleRequired, Value: "true"},
		},
	})
	custom := node.Children[0]
	if !custom.HasClass(ClassCustomSelect) {
		t.Fatalf("expected custom-select container")
	}

	hidden := custom.Children[0]
	if kind, _ := hidden.Attr("type"); kind != "hidden" {
		t.Fatalf("expected hidden input first, got %+v", hidden)
	}
	if _, required := hidden.Attr("required"); !required {
		t.Fatalf("expected rules on the hidden input")
	}
	if got := custom.Children[1]; !got.HasClass(ClassSelected) || got.Text != "Country" {
		t.Fatalf("expected selected display with label, got %+v", got)
	}

	content := custom.Children[2]
	search := content.Children[0]
	if !search.HasClass(ClassSearch) {
		t.Fatalf("expected search box, got %+v", search)
	}
	items := content.FindAll(func(n *Node) bool { return n.HasClass(ClassItem) })
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if value, _ := items[1].Attr(AttrDataValue); value != "se" {
		t.Fatalf("expected data-value se, got %q", value)
	}
}

func TestBuildButtonTypeIsKey(t *testing.T) {
	node := Build(model.Field{Key: "submit", Label: "Send", Type: model.FieldTypeButton})
	button := node.Children[0]
	if kind, _ := button.Attr("type"); kind != "submit" {
		t.Fatalf("expected type=submit from key, got %q", kind)
	}

	node = Build(model.Field{Key: "go", Label: "Go", Type: model.FieldTypeButton})
	if kind, _ := node.Children[0].Attr("type"); kind != "go" {
		t.Fatalf("expected type to mirror key verbatim, got %q", kind)
	}

	factory := NewFactory(WithButtonType(func(model.Field) string { return "submit" }))
	if kind, _ := factory.Build(model.Field{Key: "go", Type: model.FieldTypeButton}).Children[0].Attr("type"); kind != "submit" {
		t.Fatalf("expected override to apply, got %q", kind)
	}
}

func TestBuildUnknownTypeIsSkipped(t *testing.T) {
	if node := Build(model.Field{Key: "x", Type: "slider"}); node != nil {
		t.Fatalf("expected nil for unknown type, got %+v", node)
	}
	nodes := NewFactory().BuildAll([]model.Field{
		{Key: "a", Type: model.FieldTypeText},
		{Key: "b", Type: "slider"},
		{Key: "c", Type: model.FieldTypeHidden},
	})
	if len(nodes) != 2 {
		t.Fatalf("expected unknown types to be dropped, got %d nodes", len(nodes))
	}
}

func TestRegistryOverride(t *testing.T) {
	registry := NewDefaultRegistry().Clone()
	registry.MustRegister("color", Descriptor{Builder: func(_ *Factory, field model.Field) *Node {
		return New("input").Set("type", "color").Set("name", field.Key)
	}})
	factory := NewFactory(WithRegistry(registry))
	node := factory.Build(model.Field{Key: "fav", Type: "color"})
	if node == nil || !node.HasClass(ClassFormField) {
		t.Fatalf("expected wrapped custom control, got %+v", node)
	}
	if err := registry.Register("", Descriptor{Builder: buildInput}); err == nil {
		t.Fatalf("expected error for empty type")
	}
	if err := registry.Register("x", Descriptor{}); err == nil {
		t.Fatalf("expected error for nil builder")
	}
}

func TestFilterOptions(t *testing.T) {
	options := []model.Option{{Label: "Spain", Value: "es"}, {Label: "Sweden", Value: "se"}, {Label: "Peru", Value: "pe"}}

	if got := FilterOptions(options, ""); len(got) != 3 {
		t.Fatalf("empty query should keep all options, got %d", len(got))
	}
	got := FilterOptions(options, "SP")
	if diff := cmp.Diff([]model.Option{{Label: "Spain", Value: "es"}}, got); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
	if got := FilterOptions(options, "e"); len(got) != 2 {
		t.Fatalf("expected Sweden and Peru, got %+v", got)
	}
}

func TestOptionListMarksActive(t *testing.T) {
	list := OptionList([]model.Option{{Label: "A", Value: "a"}, {Label: "B", Value: "b"}}, "b")
	if list.Children[0].HasClass(ClassActive) || !list.Children[1].HasClass(ClassActive) {
		t.Fatalf("expected only the selected entry to be active")
	}
}
