package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate(a *app) *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate configuration and check stored logs against the input rules",
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			s, err := a.open(ctx)
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}
			defer s.Close(ctx)

			logger.Info("Configuration validation passed",
				"storage_key", s.resolved.StorageKey,
				"backend", a.storageCfg.Backend(),
			)

			result := s.uc.ValidateStore(ctx)
			for _, issue := range result.Issues {
				line := fmt.Sprintf("%s %s: %s", issue.LogID, issue.Student, issue.Message)
				if len(issue.Fields) > 0 {
					line += " (" + strings.Join(issue.Fields, ", ") + ")"
				}
				fmt.Fprintln(a.out, line)
			}

			if result.HasIssues() {
				return goerr.New("stored logs have issues",
					goerr.V("checked", result.Checked),
					goerr.V("issues", len(result.Issues)))
			}

			fmt.Fprintf(a.out, "%d logs checked, no issues\n", result.Checked)
			return nil
		},
	}
}
