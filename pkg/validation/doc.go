// Package validation evaluates the declarative rules attached to a field.
//
// Rules run in declaration order and evaluation stops at the first violated
// rule, so a field only ever reports one message. Numeric bounds are lenient:
// input that does not parse as a number never violates min or max.
package validation
