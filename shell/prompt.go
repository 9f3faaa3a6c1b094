package shell

import (
	"errors"
	"io"

	"github.com/manifoldco/promptui"
)

// ErrPromptCancelled is returned when the user aborts a prompt or input ends.
var ErrPromptCancelled = errors.New("input cancelled")

// Prompter asks the user for a secret value.
type Prompter interface {
	Secret(label string) (string, error)
}

// TerminalPrompter reads masked input from a terminal.
type TerminalPrompter struct {
	// Stdin and Stdout default to the process terminal when nil.
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// Secret shows label and reads a masked value.
func (p *TerminalPrompter) Secret(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:  label,
		Mask:   '*',
		Stdin:  p.Stdin,
		Stdout: p.Stdout,
	}

	value, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
			return "", ErrPromptCancelled
		}
		return "", err
	}
	return value, nil
}
