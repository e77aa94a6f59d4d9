// Package openapi derives form field definitions from the request body of an
// OpenAPI 3 operation using kin-openapi.
package openapi
