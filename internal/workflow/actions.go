// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"

	"github.com/samber/lo"

	"github.com/pdiddy/pandoc-region/pkg/types"
)

const (
	// ActionPrompt prompts for both formats.
	ActionPrompt = "prompt"
	// ActionPromptTarget prompts for the target format only.
	ActionPromptTarget = "prompt-target"
)

// Action is a named entry point a host can bind to a command.
type Action struct {
	Name        string
	Description string
	Run         func(ctx context.Context)
}

// Actions returns every action the workflow exposes: one per fixed format
// pair, followed by the two prompting actions.
func (w *Workflow) Actions() []Action {
	actions := lo.Map(w.pairs, func(p types.FormatPair, _ int) Action {
		return Action{
			Name:        p.Name(),
			Description: "Convert the selection from " + p.From + " to " + p.To,
			Run: func(ctx context.Context) {
				w.ConvertSelection(ctx, p.From, p.To)
			},
		}
	})
	return append(actions,
		Action{
			Name:        ActionPrompt,
			Description: "Pick source and target formats, then convert the selection",
			Run:         w.PromptAndConvert,
		},
		Action{
			Name:        ActionPromptTarget,
			Description: "Convert the selection from " + types.BaselineFormat + " to a picked format",
			Run:         w.PromptTargetAndConvert,
		},
	)
}

// Action looks up an action by name.
func (w *Workflow) Action(name string) (Action, bool) {
	return lo.Find(w.Actions(), func(a Action) bool { return a.Name == name })
}
