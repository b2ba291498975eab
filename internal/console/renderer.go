// Package console renders coordinator state to a terminal and drives the
// interactive shortlink form.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/serroba/shortlink-client/internal/history"
	"github.com/serroba/shortlink-client/internal/shortlink"
	"github.com/serroba/shortlink-client/internal/submission"
	"github.com/serroba/shortlink-client/internal/suggestion"
	"github.com/serroba/shortlink-client/internal/validation"
)

// Renderer writes state updates to out. It is safe for concurrent use;
// coordinator listeners fire from timer goroutines.
type Renderer struct {
	mu   sync.Mutex
	out  io.Writer
	good *color.Color
	warn *color.Color
	bad  *color.Color
	dim  *color.Color
}

// NewRenderer creates a renderer. With plain set, no ANSI colours are
// written; otherwise colour follows terminal detection.
func NewRenderer(out io.Writer, plain bool) *Renderer {
	r := &Renderer{
		out:  out,
		good: color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		bad:  color.New(color.FgRed),
		dim:  color.New(color.Faint),
	}

	if plain {
		for _, c := range []*color.Color{r.good, r.warn, r.bad, r.dim} {
			c.DisableColor()
		}
	}

	return r
}

// Println writes one plain line.
func (r *Renderer) Println(a ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, a...)
}

// Error writes msg as an error line.
func (r *Renderer) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bad.Fprintln(r.out, "✗ "+msg)
}

// Validation renders the slug validation state. Idle renders nothing.
func (r *Renderer) Validation(s validation.State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch st := s.(type) {
	case validation.Checking:
		r.dim.Fprintln(r.out, "… checking availability")
	case validation.Valid:
		r.good.Fprintln(r.out, "✓ slug is available")
	case validation.Invalid:
		r.bad.Fprintln(r.out, "✗ "+st.Reason)
		r.suggestionsLocked(st.Suggestions)
	}
}

// Suggestions renders the suggestion panel.
func (r *Renderer) Suggestions(s suggestion.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case s.Loading:
		r.dim.Fprintln(r.out, "… loading suggestions")
	case s.Err != "":
		r.bad.Fprintln(r.out, "✗ "+s.Err)
	case len(s.Suggestions) == 0:
		r.good.Fprintln(r.out, "✓ no alternatives needed")
	default:
		r.suggestionsLocked(s.Suggestions)
	}
}

func (r *Renderer) suggestionsLocked(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}

	numbered := make([]string, len(suggestions))
	for i, s := range suggestions {
		numbered[i] = fmt.Sprintf("[%d] %s", i+1, s)
	}

	r.warn.Fprintln(r.out, "  try: "+strings.Join(numbered, "  "))
}

// Submission renders the submission state.
func (r *Renderer) Submission(s submission.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case s.Loading:
		r.dim.Fprintln(r.out, "… creating short link")
	case s.Err != "":
		r.bad.Fprintln(r.out, "✗ "+s.Err)
	case s.Result != "":
		r.good.Fprintln(r.out, "✓ "+s.Result)
	}
}

// History renders the session history.
func (r *Renderer) History(s history.Snapshot) {
	if s.Loading {
		r.mu.Lock()
		r.dim.Fprintln(r.out, "… loading links")
		r.mu.Unlock()

		return
	}

	if s.Err != "" {
		r.Error(s.Err)
	}

	r.Links(s.Links)
}

// Links renders links as a table.
func (r *Renderer) Links(links []shortlink.ShortLink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(links) == 0 {
		fmt.Fprintln(r.out, "No links yet.")

		return
	}

	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"ID", "Short URL", "Original URL", "Created"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	for _, l := range links {
		table.Append([]string{l.ID, l.ShortURL, l.OriginalURL, l.CreatedAt.Local().Format(time.DateTime)})
	}

	table.Render()
}
