package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/secmon-lab/logiclog/pkg/domain/model"
	"github.com/secmon-lab/logiclog/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func passphraseFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "passphrase",
		Usage:       "Dashboard passphrase (prompted when omitted)",
		Sources:     cli.EnvVars("LOGICLOG_PASSPHRASE"),
		Destination: dst,
	}
}

// unlock passes the dashboard gate with the flag value, or prompts until
// the passphrase matches or the input ends
func (a *app) unlock(ctx context.Context, uc *usecase.UseCases, passphrase string) error {
	state := model.NewViewState()

	if passphrase != "" {
		return uc.Gate.Unlock(ctx, state, passphrase)
	}

	for {
		input, err := a.readSecret("Passphrase: ")
		if err != nil {
			return err
		}
		err = uc.Gate.Unlock(ctx, state, input)
		if !errors.Is(err, usecase.ErrPassphraseMismatch) {
			return err
		}
		fmt.Fprintln(a.out, "Passphrase does not match, try again")
	}
}
