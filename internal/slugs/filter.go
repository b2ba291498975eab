package slugs

import "strings"

// ReservedWords are slugs that would shadow service routes or read as
// offensive.
var ReservedWords = []string{
	"admin", "administrator", "api", "root", "sys",
	"config", "server", "system", "backend", "frontend",
	"login", "logout", "signin", "signup", "auth",
	"token", "jwt", "password", "secret", "superuser",
	"test", "debug", "staging", "prod", "production",
	"god", "null", "undefined", "void", "error", "health",
	"ass", "fuck", "shit", "damn", "bitch",
}

var deobfuscate = strings.NewReplacer("0", "o", "1", "i", "@", "a", "3", "e")

type node struct {
	children map[rune]*node
	terminal bool
}

func newNode() *node {
	return &node{children: map[rune]*node{}}
}

// Filter reports whether text contains a prohibited word anywhere, after
// undoing common digit-for-letter substitutions.
type Filter struct {
	root *node
}

// NewFilter builds a filter over words.
func NewFilter(words []string) *Filter {
	f := &Filter{root: newNode()}

	for _, w := range words {
		f.Insert(w)
	}

	return f
}

// DefaultFilter returns a filter over ReservedWords.
func DefaultFilter() *Filter {
	return NewFilter(ReservedWords)
}

// Insert adds word to the filter.
func (f *Filter) Insert(word string) {
	n := f.root

	for _, r := range strings.ToLower(word) {
		next, ok := n.children[r]
		if !ok {
			next = newNode()
			n.children[r] = next
		}

		n = next
	}

	n.terminal = true
}

// Contains reports whether any substring of text is a prohibited word.
func (f *Filter) Contains(text string) bool {
	runes := []rune(strings.ToLower(deobfuscate.Replace(text)))

	for i := range runes {
		n := f.root

		for _, r := range runes[i:] {
			next, ok := n.children[r]
			if !ok {
				break
			}

			if next.terminal {
				return true
			}

			n = next
		}
	}

	return false
}
