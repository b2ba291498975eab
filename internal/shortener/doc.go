// Package shortener holds the server-side link model and the strategies
// that choose the id of a new link.
package shortener
