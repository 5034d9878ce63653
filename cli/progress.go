package cli

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
)

type progressSpinner interface {
	Success(...any)
	Fail(...any)
}

type progressSpinnerFactory func(string) (progressSpinner, error)

var defaultSpinnerFactory progressSpinnerFactory = func(text string) (progressSpinner, error) {
	spinner, err := pterm.DefaultSpinner.
		WithRemoveWhenDone(false).
		WithText(text).
		Start()
	if err != nil {
		return nil, err
	}
	return spinner, nil
}

type confirmPrompt func(text string) (bool, error)

// defaultConfirmPrompt asks on the terminal; an empty answer means yes.
var defaultConfirmPrompt confirmPrompt = func(text string) (bool, error) {
	return pterm.DefaultInteractiveConfirm.
		WithDefaultValue(true).
		Show(text)
}

// startSpinner shows a spinner on stdout, or nothing when the app writes somewhere else.
func startSpinner(c *cli.Context, text string) (progressSpinner, error) {
	if c.App.Writer != os.Stdout {
		return noopSpinner{}, nil
	}
	return defaultSpinnerFactory(text)
}

type noopSpinner struct{}

func (noopSpinner) Success(...any) {}
func (noopSpinner) Fail(...any)    {}
