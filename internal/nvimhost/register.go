// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package nvimhost

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"github.com/neovim/go-client/nvim/plugin"

	"github.com/pdiddy/pandoc-region/internal/session"
	"github.com/pdiddy/pandoc-region/internal/workflow"
)

// CommandName maps an action name onto a Neovim user command,
// e.g. "markdown-to-jira" becomes "PandocMarkdownToJira".
func CommandName(action string) string {
	parts := strings.FieldsFunc(action, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	b.WriteString("Pandoc")
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}

// commands runs workflow actions for Neovim command invocations.
type commands struct {
	host   *Host
	s      *session.Session
	w      *workflow.Workflow
	log    *slog.Logger
	verify sync.Once
}

func newCommands(host *Host, s *session.Session, log *slog.Logger) *commands {
	return &commands{
		host: host,
		s:    s,
		w:    s.Workflow(host.For([2]int{})),
		log:  log,
	}
}

// run executes the named action over lines. The engine is verified on the
// first call, and a missing engine is reported then.
func (c *commands) run(ctx context.Context, name string, lines [2]int) {
	inv := c.host.For(lines)
	c.verify.Do(func() { c.s.Start(ctx, inv) })

	if action, ok := c.w.On(inv).Action(name); ok {
		action.Run(ctx)
	}
}

// Register defines one command per workflow action. Handlers are
// asynchronous so Neovim stays responsive while pandoc runs; failures are
// reported through the host.
func Register(p *plugin.Plugin, s *session.Session, log *slog.Logger) {
	c := newCommands(New(p.Nvim, log), s, log)

	for _, a := range c.w.Actions() {
		name := a.Name
		opts := &plugin.CommandOptions{Name: CommandName(name), Range: "%"}
		p.HandleCommand(opts, func(lines [2]int) {
			go c.run(context.Background(), name, lines)
		})
		log.Debug("registered command", "command", opts.Name, "action", name)
	}
}
