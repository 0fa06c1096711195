package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/desertthunder/plx/internal/tasks"
)

var _ tasks.Prompter = (*Prompter)(nil)

// Prompter asks questions with [huh] forms.
type Prompter struct {
	accessible bool
	height     int
}

// NewPrompter creates a [Prompter]. Accessible mode replaces the TUI widgets with plain line prompts.
func NewPrompter(accessible bool) *Prompter {
	return &Prompter{accessible: accessible, height: 12}
}

func (p *Prompter) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(huh.ThemeCharm()).
		WithAccessible(p.accessible)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return shared.ErrUserAbort
		}
		return err
	}
	return nil
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(ctx context.Context, title string) (bool, error) {
	answer := true
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)

	if err := p.run(ctx, field); err != nil {
		return false, err
	}
	return answer, nil
}

// Select asks the user to pick one of options and returns it.
func (p *Prompter) Select(ctx context.Context, title string, options []string) (string, error) {
	var choice string
	field := huh.NewSelect[string]().
		Height(min(p.height, len(options)+2)).
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&choice)

	if err := p.run(ctx, field); err != nil {
		return "", err
	}
	return choice, nil
}
