// Package transport moves form data across the network and the filesystem.
//
// A FieldSource yields the field definitions of a form. HTTPSource fetches
// them from `{base}[prefix]{formId}.json?formId=..&portalId=..`, FileSource
// and FSSource read JSON or YAML documents, and StaticSource wraps inline
// definitions. A Submitter posts the collected entries of a form as a
// multipart body and decodes the JSON reply.
package transport
