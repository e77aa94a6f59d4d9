// Package controller owns a single form instance on a dom.Page.
//
// A Controller resolves its container, acquires field definitions (inline or
// through a transport.FieldSource), builds the form through the element
// factory, validates fields live and on submit with the validation evaluator
// and posts the collected entries through a transport.Submitter. Progress is
// reported through the beforeInit, init, beforeSubmit and afterSubmit events.
//
// Fetch and submission failures never surface as returned errors from Init;
// they are delivered to event handlers and logged.
//
// A Controller is not safe for concurrent use.
package controller
