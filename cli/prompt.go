// Package cli holds the interactive prompts used by the command line tools.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/manifoldco/promptui"
)

var (
	// ErrEmptyInput is returned by the prompt validator for blank answers.
	ErrEmptyInput = errors.New("you must enter something")

	// ErrNoChoices is returned by Select when there is nothing to choose from.
	ErrNoChoices = errors.New("no choices to select from")
)

// Prompter runs prompts against a pair of streams. The zero value is not
// usable; call NewPrompter.
type Prompter struct {
	In  io.ReadCloser
	Out io.WriteCloser
}

// NewPrompter prompts on the terminal. Prompts are drawn on stderr so that
// stdout stays reserved for program output.
func NewPrompter() *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stderr}
}

func nonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmptyInput
	}

	return nil
}

// PromptString asks for a non-blank value. A non-empty dflt is offered as
// the pre-filled answer.
func (p *Prompter) PromptString(label, dflt string) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   dflt,
		AllowEdit: dflt != "",
		Validate:  nonEmpty,
		Stdin:     p.In,
		Stdout:    p.Out,
	}

	val, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(val), nil
}

// PromptConfirm asks a yes/no question. Answering no is not an error.
func (p *Prompter) PromptConfirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     p.In,
		Stdout:    p.Out,
	}

	_, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// Select asks the user to pick one of choices, starting on current when it
// is one of them.
func (p *Prompter) Select(label string, current string, choices ...string) (string, error) {
	if len(choices) == 0 {
		return "", ErrNoChoices
	}

	sel := promptui.Select{
		Label:     label,
		Items:     choices,
		CursorPos: startIndex(current, choices),
		Searcher:  prefixSearcher(choices),
		Stdin:     p.In,
		Stdout:    p.Out,
	}

	_, value, err := sel.Run()
	if err != nil {
		return "", fmt.Errorf("selecting %s: %w", label, err)
	}

	return value, nil
}

func startIndex(current string, choices []string) int {
	return max(slices.Index(choices, current), 0)
}

func prefixSearcher(choices []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return false
		}

		return strings.HasPrefix(strings.ToLower(choices[index]), strings.ToLower(input))
	}
}
