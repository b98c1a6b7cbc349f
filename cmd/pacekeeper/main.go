package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"pacekeeper/internal/bootstrap"
	deadlinedto "pacekeeper/internal/modules/deadline/dto"
	pacedto "pacekeeper/internal/modules/pace/dto"
	"pacekeeper/internal/platform/config"
	"pacekeeper/internal/ui/theme"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var vaultPath string

	root := &cobra.Command{
		Use:           "pacekeeper",
		Short:         "Reading deadline pace tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&vaultPath, "vault", ".", "vault path")

	root.AddCommand(newDeadlineCmd(&vaultPath))
	root.AddCommand(newProgressCmd(&vaultPath))
	root.AddCommand(newStatusCmd(&vaultPath))
	root.AddCommand(newReviewCmd(&vaultPath))
	root.AddCommand(newPaceCmd(&vaultPath))
	root.AddCommand(newRankCmd(&vaultPath))
	root.AddCommand(newReindexCmd(&vaultPath))
	root.AddCommand(newWatchCmd(&vaultPath))
	return root
}

func loadApp(vaultPath string) (*bootstrap.App, error) {
	cfg, err := config.Load(vaultPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

// withApp builds the app, runs fn and flushes the logger.
func withApp(vaultPath string, fn func(app *bootstrap.App) error) error {
	app, err := loadApp(vaultPath)
	if err != nil {
		return err
	}
	defer func() { _ = app.Logger.Sync() }()
	return fn(app)
}

func newDeadlineCmd(vaultPath *string) *cobra.Command {
	deadline := &cobra.Command{Use: "deadline", Short: "Manage reading deadlines"}

	var input deadlinedto.CreateInput
	add := &cobra.Command{
		Use:   "add --title <title> --due <YYYY-MM-DD>",
		Short: "Track a new deadline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(input.Title) == "" {
				return fmt.Errorf("--title is required")
			}
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.DeadlineCLI.Add(cmd.Context(), input)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) status=%s total=%s note=%s\n", out.Title, out.ID, out.Status, quantity(out.Format, out.TotalQuantity), out.NotePath)
				return nil
			})
		},
	}
	add.Flags().StringVar(&input.Title, "title", "", "book title")
	add.Flags().StringVar(&input.Author, "author", "", "author")
	add.Flags().StringVar(&input.Format, "format", "physical", "format: physical|ebook|audio")
	add.Flags().IntVar(&input.TotalQuantity, "total", 0, "pages, or minutes for audio")
	add.Flags().StringVar(&input.DeadlineDate, "due", "", "deadline date (YYYY-MM-DD)")
	add.Flags().StringVar(&input.InitialStatus, "status", "pending", "initial status: pending|reading")
	add.Flags().StringVar(&input.PDFPath, "pdf", "", "read the page count from this pdf when --total is 0")
	add.Flags().StringVar(&input.Source, "source", "", "where the book came from")

	list := &cobra.Command{
		Use:   "list",
		Short: "List deadlines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				deadlines, err := app.DeadlineCLI.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(deadlines) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no deadlines")
					return nil
				}
				for _, d := range deadlines {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s/%s\n", d.ID, d.Status, d.DeadlineDate, d.Title, quantity(d.Format, d.CurrentProgress), quantity(d.Format, d.TotalQuantity))
				}
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a deadline with its full history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				l, err := app.DeadlineCLI.Show(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				d := l.Deadline
				_, _ = fmt.Fprintf(w, "%s\nid: %s\nauthor: %s\nformat: %s\ndue: %s\nstatus: %s\nprogress: %s/%s\nnote: %s\n",
					theme.Title.Render(d.Title), d.ID, d.Author, d.Format, d.DeadlineDate, d.Status,
					quantity(d.Format, d.CurrentProgress), quantity(d.Format, d.TotalQuantity), d.NotePath)
				_, _ = fmt.Fprintln(w, theme.Muted.Render("statuses"))
				for _, s := range l.Statuses {
					_, _ = fmt.Fprintf(w, "  %s  %s\n", s.CreatedAt.Format("2006-01-02 15:04"), s.Status)
				}
				_, _ = fmt.Fprintln(w, theme.Muted.Render("progress"))
				for _, p := range l.Progress {
					flag := ""
					if p.IgnoreInCalcs {
						flag = " (ignored)"
					}
					_, _ = fmt.Fprintf(w, "  %s  %s%s\n", p.CreatedAt.Format("2006-01-02 15:04"), quantity(d.Format, p.CurrentProgress), flag)
				}
				if l.Review != nil {
					_, _ = fmt.Fprintf(w, "review: due=%s notes=%t satisfied=%t\n", l.Review.ReviewDueDate, l.Review.NotesDone, l.Review.Satisfied)
					for _, p := range l.Review.Platforms {
						_, _ = fmt.Fprintf(w, "  %s posted=%t\n", p.Name, p.Posted)
					}
				}
				return nil
			})
		},
	}

	deadline.AddCommand(add, list, show)
	return deadline
}

func newProgressCmd(vaultPath *string) *cobra.Command {
	progress := &cobra.Command{Use: "progress", Short: "Record reading progress"}

	var ignore bool
	logCmd := &cobra.Command{
		Use:   "log <id> <value>",
		Short: "Append the cumulative page (or minute) reached",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("value must be a whole number: %w", err)
			}
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.DeadlineCLI.LogProgress(cmd.Context(), args[0], value, ignore)
				if err != nil {
					return err
				}
				if out.Activated {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "deadline moved to reading")
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged %d at %s\n", value, out.Entry.CreatedAt.Format("2006-01-02 15:04"))
				return nil
			})
		},
	}
	logCmd.Flags().BoolVar(&ignore, "ignore", false, "correction: keep the entry out of pace statistics")
	progress.AddCommand(logCmd)
	return progress
}

func newStatusCmd(vaultPath *string) *cobra.Command {
	status := &cobra.Command{Use: "status", Short: "Lifecycle status"}

	var reviewDue string
	var platforms []string
	set := &cobra.Command{
		Use:   "set <id> <status>",
		Short: "Append a status change",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.DeadlineCLI.SetStatus(cmd.Context(), args[0], args[1], reviewDue, platforms)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", out.DeadlineID, out.From, out.To)
				return nil
			})
		},
	}
	set.Flags().StringVar(&reviewDue, "review-due", "", "review due date when entering to_review")
	set.Flags().StringSliceVar(&platforms, "platforms", nil, "review platforms when entering to_review")
	status.AddCommand(set)
	return status
}

func newReviewCmd(vaultPath *string) *cobra.Command {
	review := &cobra.Command{Use: "review", Short: "Review obligations"}

	var platform string
	var posted, notesDone bool
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update review flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := deadlinedto.UpdateReviewInput{DeadlineID: args[0], Platform: platform, Posted: posted}
			if cmd.Flags().Changed("notes-done") {
				input.NotesDone = &notesDone
			}
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.DeadlineCLI.UpdateReview(cmd.Context(), input)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "review satisfied=%t\n", out.Review.Satisfied)
				if out.Completed {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "deadline complete")
				}
				return nil
			})
		},
	}
	update.Flags().StringVar(&platform, "platform", "", "platform name")
	update.Flags().BoolVar(&posted, "posted", true, "mark the platform as posted")
	update.Flags().BoolVar(&notesDone, "notes-done", false, "mark review notes as written")
	review.AddCommand(update)
	return review
}

func newPaceCmd(vaultPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "pace [id]",
		Short: "Show pace and urgency for one deadline, or the whole dashboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				w := cmd.OutOrStdout()
				if len(args) == 1 {
					r, err := app.PaceCLI.Calculate(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					printResultDetail(w, r)
					return nil
				}
				dash, err := app.PaceCLI.Dashboard(cmd.Context())
				if err != nil {
					return err
				}
				for _, p := range []pacedto.UserPaceOutput{dash.Pages, dash.Minutes} {
					_, _ = fmt.Fprintf(w, "your %s pace: %s (%s, %d active days)\n", p.Unit, p.Display, p.Reliability, p.ActiveDays)
				}
				for _, r := range dash.Results {
					printResultRow(w, r)
				}
				return nil
			})
		},
	}
}

func newRankCmd(vaultPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Deadlines that need attention, most pressing first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				ranked, err := app.PaceCLI.Rank(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(ranked) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing pending")
					return nil
				}
				for _, r := range ranked {
					printResultRow(cmd.OutOrStdout(), r)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "max deadlines to show (0 for all)")
	return cmd
}

func newReindexCmd(vaultPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the deadline_results projection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.PaceCLI.Reindex(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "projected %d deadlines\n", out.Projected)
				return nil
			})
		},
	}
}

func newWatchCmd(vaultPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the projection fresh on the configured schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "watching; press ctrl-c to stop")
				return app.Refresher.Run(ctx)
			})
		},
	}
}

func printResultRow(w io.Writer, r pacedto.ResultOutput) {
	days := "?"
	if r.DateKnown {
		days = strconv.Itoa(r.DaysLeft) + "d"
	}
	_, _ = fmt.Fprintf(w, "%s %-5s %3d%%  need %-14s %s  %s\n", theme.UrgencyLabel(r.Urgency, 12), days, r.ProgressPercentage, r.RequiredPaceDisplay, r.Title, theme.Muted.Render(r.DeadlineID))
}

func printResultDetail(w io.Writer, r pacedto.ResultOutput) {
	days := "date unknown"
	if r.DateKnown {
		days = strconv.Itoa(r.DaysLeft)
	}
	_, _ = fmt.Fprintf(w, "%s\nstatus: %s\nurgency: %s\nprogress: %d%% (%d left)\ndays left: %s\nrequired: %s\nyour pace: %s (%s)\n",
		theme.Title.Render(r.Title), r.Status, theme.UrgencyLabel(r.Urgency, 0), r.ProgressPercentage, r.Remaining, days, r.RequiredPaceDisplay, r.UserPaceDisplay, r.PaceReliability)
	if r.Started {
		_, _ = fmt.Fprintf(w, "started %d days ago\n", r.StartedDaysAgo)
	}
}

// quantity renders a stored quantity; audio is kept in milliseconds.
func quantity(format string, value int) string {
	if format == "audio" {
		return fmt.Sprintf("%dmin", value/60_000)
	}
	return strconv.Itoa(value)
}
