// Package form provides an in-memory model of an HTML form: named fields,
// interactive controls, a feedback slot and a loading state. Field writes
// raise input and change events the way a browser does, so enhancement logic
// can be driven and observed without a DOM.
package form
