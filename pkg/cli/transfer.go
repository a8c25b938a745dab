package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/usecase"
	"github.com/secmon-lab/logiclog/pkg/utils/logging"
	"github.com/secmon-lab/logiclog/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdExport(a *app) *cli.Command {
	var output string

	return &cli.Command{
		Name:  "export",
		Usage: "Write the stored log collection as a JSON array",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Output file (default: stdout)",
				Destination: &output,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			w := a.out
			if output != "" && output != "-" {
				// #nosec G304 - path is expected to be provided by CLI argument
				f, err := os.OpenFile(output, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
				if err != nil {
					return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
				}
				defer safe.Close(ctx, f)
				w = f
			}

			n, err := s.uc.Transfer.Export(ctx, w)
			if err != nil {
				return err
			}
			logging.From(ctx).Info("Logs exported", "count", n, "output", output)
			return nil
		},
	}
}

func cmdImport(a *app) *cli.Command {
	var input string
	var merge bool

	return &cli.Command{
		Name:  "import",
		Usage: "Load a JSON array of logs into the store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "Input file (default: stdin)",
				Destination: &input,
			},
			&cli.BoolFlag{
				Name:        "merge",
				Usage:       "Keep stored logs and add only unknown ids (default: replace everything)",
				Destination: &merge,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			var r io.Reader = a.reader
			if input != "" && input != "-" {
				// #nosec G304 - path is expected to be provided by CLI argument
				f, err := os.Open(input)
				if err != nil {
					return goerr.Wrap(err, "failed to open input file", goerr.V("path", input))
				}
				defer safe.Close(ctx, f)
				r = f
			}

			mode := usecase.ImportReplace
			if merge {
				mode = usecase.ImportMerge
			}

			result, err := s.uc.Transfer.Import(ctx, r, mode)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Imported %d logs (skipped %d, total %d)\n",
				result.Imported, result.Skipped, result.Total)
			return nil
		},
	}
}
