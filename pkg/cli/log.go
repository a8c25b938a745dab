package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/domain/model"
	"github.com/secmon-lab/logiclog/pkg/domain/types"
	"github.com/secmon-lab/logiclog/pkg/service/logstore"
	"github.com/secmon-lab/logiclog/pkg/usecase"
	"github.com/urfave/cli/v3"
)

const notSavedWarning = "warning: the log was recorded but could not be saved to storage"

func stepUsage() string {
	steps := types.AllSteps()
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.String()
	}
	return "Writing step [" + strings.Join(names, "|") + "]"
}

func cmdAdd(a *app) *cli.Command {
	var (
		name       string
		studentID  string
		title      string
		step       string
		tool       string
		prompt     string
		reflection string
		date       string
	)

	return &cli.Command{
		Name:  "add",
		Usage: "Record one AI assisted writing step",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Student name", Destination: &name},
			&cli.StringFlag{Name: "id", Usage: "Student ID", Destination: &studentID},
			&cli.StringFlag{Name: "title", Usage: "Assignment title", Destination: &title},
			&cli.StringFlag{Name: "step", Usage: stepUsage(), Value: types.StepIdea.String(), Destination: &step},
			&cli.StringFlag{Name: "tool", Usage: "AI tool used, e.g. ChatGPT", Destination: &tool},
			&cli.StringFlag{Name: "prompt", Usage: "Prompt given to the AI", Destination: &prompt},
			&cli.StringFlag{Name: "reflection", Usage: "Critical reflection on the answer", Destination: &reflection},
			&cli.StringFlag{Name: "date", Usage: "Log date YYYY-MM-DD (default: today)", Destination: &date},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			draft := s.uc.Log.NewDraft()
			draft.StudentName = name
			draft.StudentID = studentID
			draft.AssignmentTitle = title
			draft.Step = types.Step(step)
			draft.AITool = tool
			draft.Prompt = prompt
			draft.CriticalReflection = reflection
			if date != "" {
				draft.LogDate = model.LogDate(date)
			}

			record, err := s.uc.Log.Submit(ctx, draft)
			switch {
			case errors.Is(err, usecase.ErrCannotSubmit):
				return goerr.Wrap(err, "missing or invalid: "+strings.Join(draft.MissingFields(), ", "))
			case errors.Is(err, logstore.ErrNotSaved) && record != nil:
				fmt.Fprintln(a.out, notSavedWarning)
				fmt.Fprintf(a.out, "Log recorded: %s\n", record.ID)
				return nil
			case err != nil:
				return err
			}

			fmt.Fprintf(a.out, "Log saved: %s\n", record.ID)
			fmt.Fprintf(a.out, "See the timeline with: logiclog timeline --name %q --id %q\n", record.StudentName, record.StudentID)
			return nil
		},
	}
}

func cmdDelete(a *app) *cli.Command {
	var (
		yes        bool
		passphrase string
	)

	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete one log (instructor only)",
		ArgsUsage: "<log id>",
		Flags: []cli.Flag{
			passphraseFlag(&passphrase),
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "Skip the confirmation prompt",
				Destination: &yes,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("exactly one log id is required")
			}
			id := model.LogRecordID(c.Args().First())

			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			if err := a.unlock(ctx, s.uc, passphrase); err != nil {
				return err
			}

			confirmed := yes
			if !confirmed {
				confirmed, err = a.confirm("Delete this log?")
				if err != nil {
					return err
				}
			}
			if !confirmed {
				fmt.Fprintln(a.out, "Canceled")
				return nil
			}

			removed, err := s.uc.Log.Delete(ctx, id, true)
			if errors.Is(err, logstore.ErrNotSaved) {
				fmt.Fprintln(a.out, notSavedWarning)
			} else if err != nil {
				return err
			}

			if !removed {
				fmt.Fprintf(a.out, "No log with id %s\n", id)
				return nil
			}
			fmt.Fprintf(a.out, "Deleted %s\n", id)
			return nil
		},
	}
}
