// Package cli provides the interactive prompts used by the deckly command.
package cli

import (
	"errors"

	"github.com/manifoldco/promptui"
)

// Confirm asks a yes/no question and returns the answer. Aborting the prompt
// counts as "no", not as an error.
func Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
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

// PromptString asks for a non-empty string value.
func PromptString(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if len(s) == 0 {
				return errors.New("you must enter something")
			}

			return nil
		},
	}

	return prompt.Run()
}

// PromptSecret asks for a value without echoing it, for API keys.
func PromptSecret(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(s string) error {
			if len(s) == 0 {
				return errors.New("you must enter something")
			}

			return nil
		},
	}

	return prompt.Run()
}
