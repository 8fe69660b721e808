package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/brogergvhs/dmzjdl/internal/validation"

	"github.com/manifoldco/promptui"
)

// Prompter asks for the inputs the command line did not provide.
type Prompter struct {
	Msg    Messages
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

func NewPrompter(lang string) *Prompter {
	return &Prompter{Msg: MessagesFor(lang)}
}

// SeriesURL re-prompts until the answer is a valid series URL and
// returns it normalized.
func (p *Prompter) SeriesURL(def string) (string, error) {
	check := func(s string) error {
		if strings.TrimSpace(s) == "" {
			s = def
		}
		if _, err := validation.SeriesURL(s); err != nil {
			return errors.New(p.Msg.URLInvalid)
		}
		return nil
	}

	prompt := promptui.Prompt{
		Label:    p.Msg.URLPrompt,
		Default:  def,
		Validate: check,
		Stdin:    p.Stdin,
		Stdout:   p.Stdout,
	}

	v, err := prompt.Run()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(v) == "" {
		v = def
	}

	return validation.SeriesURL(v)
}

// Dir re-prompts until the answer names an existing directory.
func (p *Prompter) Dir(def string) (string, error) {
	pick := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return def
		}
		return strings.TrimSpace(s)
	}

	prompt := promptui.Prompt{
		Label:   p.Msg.DirPrompt,
		Default: def,
		Validate: func(s string) error {
			if validation.ExistingDir(pick(s)) != nil {
				return errors.New(p.Msg.DirInvalid)
			}
			return nil
		},
		Stdin:  p.Stdin,
		Stdout: p.Stdout,
	}

	v, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return pick(v), nil
}

// IncludeExtra asks whether an extra group of n entries should be
// downloaded. The first item, yes, is preselected.
func (p *Prompter) IncludeExtra(_ context.Context, n int) (bool, error) {
	sel := promptui.Select{
		Label:  fmt.Sprintf(p.Msg.ExtraPrompt, n),
		Items:  []string{p.Msg.Yes, p.Msg.No},
		Stdin:  p.Stdin,
		Stdout: p.Stdout,
	}

	idx, _, err := sel.Run()
	if err != nil {
		return false, err
	}

	return idx == 0, nil
}

// FixedExtra answers the extra question without asking.
func FixedExtra(include bool) func(context.Context, int) (bool, error) {
	return func(context.Context, int) (bool, error) {
		return include, nil
	}
}
