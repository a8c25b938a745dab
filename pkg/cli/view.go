package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

var (
	headerColor = color.New(color.Bold)
	dayColor    = color.New(color.FgHiWhite, color.BgBlue, color.Bold)
	stepColor   = color.New(color.FgCyan)
)

func printRecord(w io.Writer, l *model.LogRecord, withStudent bool) {
	fmt.Fprintf(w, "%s  %s  %s\n", l.LogDate, stepColor.Sprintf("[%s]", l.Step.Label()), l.AssignmentTitle)
	if withStudent {
		fmt.Fprintf(w, "  Student:    %s\n", l.Identity().Label())
	}
	if l.AITool != "" {
		fmt.Fprintf(w, "  Tool:       %s\n", l.AITool)
	}
	fmt.Fprintf(w, "  Prompt:     %s\n", l.Prompt)
	fmt.Fprintf(w, "  Reflection: %s\n", l.CriticalReflection)
	fmt.Fprintf(w, "  ID:         %s\n", l.ID)
}

func cmdTimeline(a *app) *cli.Command {
	var name, studentID string

	return &cli.Command{
		Name:  "timeline",
		Usage: "Show one student's logs in date order",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Student name (exact match)", Destination: &name},
			&cli.StringFlag{Name: "id", Usage: "Student ID (exact match)", Destination: &studentID},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			who := model.Identity{Name: name, ID: studentID}
			tl := s.uc.View.Timeline(ctx, who)

			switch {
			case tl.State == model.TimelineUnsearched:
				fmt.Fprintln(a.out, "Enter both --name and --id to see a growth timeline")
			case tl.IsEmpty():
				fmt.Fprintf(a.out, "No logs for %s\n", who.Label())
			default:
				headerColor.Fprintf(a.out, "Growth timeline of %s (%d logs)\n", who.Label(), len(tl.Records))
				for _, l := range tl.Records {
					printRecord(a.out, l, false)
				}
			}
			return nil
		},
	}
}

// writeCalendarGrid prints a Sunday-first month grid. Days holding logs are
// highlighted and marked with '*'.
func writeCalendarGrid(w io.Writer, cal *model.Calendar) {
	first := time.Date(cal.Month.Year, cal.Month.Month, 1, 0, 0, 0, 0, time.UTC)
	headerColor.Fprintf(w, "%s\n", first.Format("January 2006"))
	fmt.Fprintln(w, " Su  Mo  Tu  We  Th  Fr  Sa")

	col := int(cal.Month.FirstWeekday())
	fmt.Fprint(w, strings.Repeat("    ", col))
	for _, d := range cal.Days {
		cell := fmt.Sprintf("%3d", d.Day)
		if d.Count() > 0 {
			fmt.Fprint(w, dayColor.Sprint(cell)+"*")
		} else {
			fmt.Fprint(w, cell+" ")
		}
		col++
		if col == 7 {
			fmt.Fprintln(w)
			col = 0
		}
	}
	if col != 0 {
		fmt.Fprintln(w)
	}
}

func cmdCalendar(a *app) *cli.Command {
	var month string
	var day string

	return &cli.Command{
		Name:  "calendar",
		Usage: "Show a month of logs as a calendar",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "month", Aliases: []string{"m"}, Usage: "Month YYYY-MM (default: current month)", Destination: &month},
			&cli.StringFlag{Name: "day", Aliases: []string{"d"}, Usage: "Day of the month to list logs for", Destination: &day},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			m := s.uc.View.CurrentMonth()
			if month != "" {
				m, err = model.ParseMonth(month)
				if err != nil {
					return err
				}
			}

			cal := s.uc.View.Calendar(ctx, m)
			writeCalendarGrid(a.out, cal)
			fmt.Fprintf(a.out, "%d logs in %s\n", cal.Total(), m)

			if day == "" {
				return nil
			}
			var d int
			if _, err := fmt.Sscanf(day, "%d", &d); err != nil {
				return goerr.Wrap(err, "day must be a number", goerr.V("day", day))
			}
			selected, err := cal.Day(d)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out)
			headerColor.Fprintf(a.out, "%s: %d logs\n", selected.Date, selected.Count())
			for _, l := range selected.Records {
				printRecord(a.out, l, true)
			}
			return nil
		},
	}
}

func cmdDashboard(a *app) *cli.Command {
	var passphrase string

	return &cli.Command{
		Name:  "dashboard",
		Usage: "Show all logs grouped by student (instructor only)",
		Flags: []cli.Flag{passphraseFlag(&passphrase)},
		Action: func(ctx context.Context, c *cli.Command) error {
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			if err := a.unlock(ctx, s.uc, passphrase); err != nil {
				return err
			}

			d := s.uc.View.Dashboard(ctx)
			headerColor.Fprintf(a.out, "Total logs: %d\n", d.Total)
			for _, g := range d.Groups {
				fmt.Fprintln(a.out)
				headerColor.Fprintf(a.out, "%s: %d logs\n", g.Label(), len(g.Records))
				for _, l := range g.Records {
					printRecord(a.out, l, false)
				}
			}
			return nil
		},
	}
}
