// Package generation provides the monotonically increasing tokens used to
// tell a current asynchronous result from a superseded one.
package generation

import "sync/atomic"

// Token identifies one issued operation.
type Token uint64

// Counter hands out tokens. Exactly one token is current at a time; Next
// retires every earlier token. The zero value is ready to use.
type Counter struct {
	current atomic.Uint64
}

// Next issues a new current token.
func (c *Counter) Next() Token {
	return Token(c.current.Add(1))
}

// Current returns the current token without issuing a new one.
func (c *Counter) Current() Token {
	return Token(c.current.Load())
}

// IsCurrent reports whether t has not been retired.
func (c *Counter) IsCurrent(t Token) bool {
	return c.Current() == t
}
