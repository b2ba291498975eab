package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/serroba/shortlink-client/internal/shortlink"
	"github.com/serroba/shortlink-client/internal/submission"
	"github.com/serroba/shortlink-client/internal/validation"
)

const helpText = `commands:
  url <url>         set the URL to shorten
  custom on|off     toggle the custom slug
  slug <text>       edit the custom slug
  suggest           load alternatives for the slug
  pick <n|slug>     use a suggestion as the slug
  submit [url]      create the short link
  list              reload links from the service
  status            show the form
  help              show this help
  quit              leave`

// REPL reads form commands line by line.
type REPL struct {
	session  *Session
	renderer *Renderer
	in       io.Reader
	url      string
}

// NewREPL creates a REPL over session reading from in.
func NewREPL(session *Session, renderer *Renderer, in io.Reader) *REPL {
	return &REPL{session: session, renderer: renderer, in: in}
}

// Run processes commands until quit, end of input or ctx cancellation.
func (p *REPL) Run(ctx context.Context) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(p.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		scanErr <- scanner.Err()
	}()

	p.renderer.Println(`shortlink form, type "help" for commands`)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}

			if quit := p.Exec(ctx, line); quit {
				return nil
			}
		}
	}
}

// Exec runs one command line and reports whether the REPL should stop.
func (p *REPL) Exec(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "":
	case "help", "?":
		p.renderer.Println(helpText)
	case "quit", "exit":
		return true
	case "url":
		p.setURL(rest)
	case "custom":
		p.custom(rest)
	case "slug":
		p.session.Validation.Edit(rest)
	case "suggest":
		p.session.Suggestions.Refresh(ctx, p.session.Validation.Candidate())
	case "pick":
		p.pick(rest)
	case "submit":
		if rest != "" {
			p.setURL(rest)
		}

		p.submit(ctx)
	case "list":
		_ = p.session.History.Load(ctx, p.session.Service)
		p.renderer.History(p.session.History.Snapshot())
	case "status":
		p.status()
	default:
		p.renderer.Error(fmt.Sprintf("unknown command %q", cmd))
	}

	return false
}

func (p *REPL) setURL(raw string) {
	if err := shortlink.ValidateURL(raw); err != nil {
		p.renderer.Error(err.Error())

		return
	}

	p.url = raw
}

func (p *REPL) custom(arg string) {
	switch strings.ToLower(arg) {
	case "on":
		p.session.Validation.SetEnabled(true)
		p.renderer.Println("custom slug on")
	case "off":
		p.session.Validation.SetEnabled(false)
		p.renderer.Println("custom slug off")
	default:
		p.renderer.Error("usage: custom on|off")
	}
}

// pick accepts a 1-based index into the visible suggestions, or a literal
// slug.
func (p *REPL) pick(arg string) {
	if arg == "" {
		p.renderer.Error("usage: pick <n|slug>")

		return
	}

	choice := arg

	if n, err := strconv.Atoi(arg); err == nil {
		suggestions := p.visibleSuggestions()
		if n < 1 || n > len(suggestions) {
			p.renderer.Error(fmt.Sprintf("no suggestion %d", n))

			return
		}

		choice = suggestions[n-1]
	}

	p.session.Suggestions.Select(choice)
	p.renderer.Println("slug: " + p.session.Validation.Candidate())
}

// visibleSuggestions prefers the suggestion panel and falls back to the
// alternatives carried by an invalid verdict.
func (p *REPL) visibleSuggestions() []string {
	if s := p.session.Suggestions.Snapshot().Suggestions; len(s) > 0 {
		return s
	}

	if inv, ok := p.session.Validation.State().(validation.Invalid); ok {
		return inv.Suggestions
	}

	return nil
}

func (p *REPL) submit(ctx context.Context) {
	if p.url == "" {
		p.renderer.Error(shortlink.ErrInvalidURL.Error())

		return
	}

	_, err := p.session.Submission.Submit(ctx, p.url)

	switch {
	case errors.Is(err, submission.ErrSuppressed):
		form := p.session.Validation.Form()
		if form.Pending || validation.Status(form.State) == "checking" {
			p.renderer.Error("wait for the slug check to finish")

			return
		}

		p.renderer.Error("fix the custom slug before submitting")
	case errors.Is(err, submission.ErrBusy):
		p.renderer.Error("a submission is already in progress")
	case err == nil:
		p.url = ""
	}
}

func (p *REPL) status() {
	v := p.session.Validation
	url := p.url
	if url == "" {
		url = "(none)"
	}

	p.renderer.Println("url:    " + url)

	if v.Enabled() {
		p.renderer.Println("slug:   " + v.Candidate() + " [" + validation.Status(v.State()) + "]")
	} else {
		p.renderer.Println("slug:   (generated)")
	}

	if snap := p.session.Submission.Snapshot(); snap.Result != "" {
		p.renderer.Println("last:   " + snap.Result)
	}
}
