package render

// RenderOptions carry per-request data renderers use without changing the
// field definitions.
type RenderOptions struct {
	// SubmitURL is where the browser runtime posts the form.
	SubmitURL string
	// Values pre-populates controls by field key.
	Values map[string]string
	// Errors surfaces server-side validation feedback keyed by field key.
	Errors map[string][]string
	// FormErrors are shown above the fields.
	FormErrors []string
	// Hidden adds inputs after the formId and tenantId fields, for example a
	// CSRF token.
	Hidden []HiddenField
}
