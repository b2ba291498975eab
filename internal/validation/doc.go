// Package validation implements the debounced availability check for a
// user-chosen custom slug.
package validation
