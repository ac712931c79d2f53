package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/eonjeswim/eonjeswim/internal/app"
	"github.com/eonjeswim/eonjeswim/internal/client"
	"github.com/eonjeswim/eonjeswim/internal/logging"
	"github.com/eonjeswim/eonjeswim/internal/model"
	"github.com/eonjeswim/eonjeswim/internal/roster"
	"github.com/eonjeswim/eonjeswim/internal/schedule"
)

const appVersion = "0.3.0"

type cli struct {
	server     string
	timeout    time.Duration
	timezone   string
	logLevel   string
	httpClient *http.Client
}

func newRootCmd(httpClient *http.Client) *cobra.Command {
	c := &cli{httpClient: httpClient}

	root := &cobra.Command{
		Use:           "eonjectl",
		Short:         "Manage shared attendance calendars from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = appVersion
	root.SetVersionTemplate("eonjectl v{{.Version}}\n")

	envServer := os.Getenv("EONJE_SERVER")
	if envServer == "" {
		envServer = "http://localhost:8080"
	}
	root.PersistentFlags().StringVar(&c.server, "server", envServer, "Server base URL (env EONJE_SERVER)")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 15*time.Second, "Request timeout")
	root.PersistentFlags().StringVar(&c.timezone, "timezone", "Local", "Timezone for default periods")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	root.AddCommand(
		c.createCmd(),
		c.showCmd(),
		c.setCmd(),
		c.membersCmd(),
		c.periodCmd(),
		c.titleCmd(),
		c.linkCmd(),
		c.exportCmd(),
	)
	return root
}

func (c *cli) client() *client.Client {
	return client.New(c.server, c.httpClient)
}

func (c *cli) shell(cmd *cobra.Command) (*app.Shell, error) {
	loc, err := time.LoadLocation(c.timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.timezone, err)
	}
	logger := logging.New(cmd.ErrOrStderr(), c.logLevel)
	return app.NewShell(c.client(), logger, app.Options{Location: loc}), nil
}

// open loads the calendar named by a share link or bare ID.
func (c *cli) open(ctx context.Context, cmd *cobra.Command, link string) (*app.Shell, error) {
	sh, err := c.shell(cmd)
	if err != nil {
		return nil, err
	}
	if err := sh.EnterLink(ctx, link); err != nil {
		if errors.Is(err, app.ErrNotFound) || errors.Is(err, app.ErrInvalidLink) {
			return nil, fmt.Errorf("%s: %w", link, err)
		}
		return nil, err
	}
	return sh, nil
}

func (c *cli) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), c.timeout)
}

func (c *cli) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create [title]",
		Short: "Create a calendar and print its share link",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			sh, err := c.shell(cmd)
			if err != nil {
				return err
			}
			title := ""
			if len(args) == 1 {
				title = args[0]
			}
			token, err := sh.CreateCalendar(ctx, title)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintln(cmd.OutOrStdout(), sh.ShareLink(c.server, "/"))
			return nil
		},
	}
}

func (c *cli) showCmd() *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "show <link>",
		Short: "Print the resolved attendance grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			token := app.TokenFromAddress(args[0])
			if token == "" {
				return fmt.Errorf("%s: %w", args[0], app.ErrInvalidLink)
			}
			cl := c.client()
			cal, err := cl.GetCalendar(ctx, token)
			if err != nil {
				return err
			}
			if cal == nil {
				return fmt.Errorf("%s: %w", args[0], app.ErrNotFound)
			}
			resp, err := cl.Grid(ctx, token, start, end)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s..%s)\n\n", cal.Name, resp.StartDate, resp.EndDate)
			return printGrid(cmd.OutOrStdout(), resp.Grid)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "First date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last date (YYYY-MM-DD)")
	return cmd
}

var cellCodes = map[model.WorkType]string{
	model.WorkOffice:    "O",
	model.WorkRemote:    "R",
	model.WorkAMHalf:    "AM",
	model.WorkPMHalf:    "PM",
	model.WorkFullLeave: "L",
	model.WorkHoliday:   "-",
}

// printGrid writes one row per member, then the daily leave and working
// counts.
func printGrid(w io.Writer, g schedule.Grid) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprint(tw, "MEMBER")
	for _, l := range g.Labels {
		fmt.Fprint(tw, "\t", l)
	}
	fmt.Fprintln(tw)

	for _, row := range g.Rows {
		fmt.Fprint(tw, row.Name)
		for _, d := range row.Days {
			fmt.Fprint(tw, "\t", cellCodes[d.WorkType])
		}
		fmt.Fprintln(tw)
	}

	fmt.Fprint(tw, "leave")
	for _, s := range g.Stats {
		fmt.Fprint(tw, "\t", s.LeaveCount)
	}
	fmt.Fprintln(tw)
	fmt.Fprint(tw, "working")
	for _, s := range g.Stats {
		fmt.Fprint(tw, "\t", s.WorkingCount)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

// findMember matches ref against member IDs first, then exact names.
func findMember(members []app.Member, ref string) (app.Member, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, m := range members {
			if m.ID == id {
				return m, nil
			}
		}
	}
	var found []app.Member
	for _, m := range members {
		if m.Name == ref {
			found = append(found, m)
		}
	}
	switch len(found) {
	case 0:
		return app.Member{}, fmt.Errorf("%q: %w", ref, app.ErrUnknownMember)
	case 1:
		return found[0], nil
	default:
		return app.Member{}, fmt.Errorf("%q matches %d members, use the ID", ref, len(found))
	}
}

func (c *cli) setCmd() *cobra.Command {
	kinds := make([]string, len(model.WorkTypes))
	for i, k := range model.WorkTypes {
		kinds[i] = string(k)
	}
	return &cobra.Command{
		Use:   "set <link> <member> <date> <kind>",
		Short: "Record a member's status for a date",
		Long:  "Record a member's status for a date. kind is one of " + strings.Join(kinds, ", ") + ".",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			kind, err := model.ParseWorkType(strings.ToUpper(args[3]))
			if err != nil {
				return err
			}
			if _, ok := schedule.ParseDate(args[2], time.UTC); !ok {
				return fmt.Errorf("date %q: want YYYY-MM-DD", args[2])
			}
			sh, err := c.open(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			m, err := findMember(sh.Snapshot().Members, args[1])
			if err != nil {
				return err
			}
			if res := sh.UpdateStatus(ctx, m.ID, args[2], kind); !res.OK() {
				return res.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", m.Name, args[2], kind)
			return nil
		},
	}
}

func (c *cli) membersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "List and edit the roster",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <link>",
			Short: "List members in display order",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := c.context(cmd)
				defer cancel()
				sh, err := c.open(ctx, cmd, args[0])
				if err != nil {
					return err
				}
				for _, m := range sh.Snapshot().Members {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", m.ID, m.Name)
				}
				return nil
			},
		},
		c.rosterCmd("add <link> <name>...", "Add members", cobra.MinimumNArgs(2),
			func(r *roster.Roster, _ []app.Member, args []string) error {
				for _, name := range args {
					if _, err := r.Add(name); err != nil {
						return fmt.Errorf("%q: %w", name, err)
					}
				}
				return nil
			}),
		c.rosterCmd("rename <link> <member> <name>", "Rename a member", cobra.ExactArgs(3),
			func(r *roster.Roster, members []app.Member, args []string) error {
				m, err := findMember(members, args[0])
				if err != nil {
					return err
				}
				return r.Rename(roster.KeyFor(m.ID), args[1])
			}),
		c.rosterCmd("remove <link> <member>", "Remove a member and their entries", cobra.ExactArgs(2),
			func(r *roster.Roster, members []app.Member, args []string) error {
				m, err := findMember(members, args[0])
				if err != nil {
					return err
				}
				return r.Remove(roster.KeyFor(m.ID))
			}),
		c.rosterCmd("move <link> <member> up|down", "Move a member one place", cobra.ExactArgs(3),
			func(r *roster.Roster, members []app.Member, args []string) error {
				m, err := findMember(members, args[0])
				if err != nil {
					return err
				}
				switch args[1] {
				case "up":
					r.MoveUp(roster.KeyFor(m.ID))
				case "down":
					r.MoveDown(roster.KeyFor(m.ID))
				default:
					return fmt.Errorf("direction %q: want up or down", args[1])
				}
				return nil
			}),
	)
	return cmd
}

// rosterCmd builds a subcommand that edits a working copy of the roster and
// saves the resulting diff. edit receives the arguments after the link.
func (c *cli) rosterCmd(use, short string, nargs cobra.PositionalArgs, edit func(*roster.Roster, []app.Member, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  nargs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			sh, err := c.open(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			r := sh.Roster()
			if err := edit(r, sh.Snapshot().Members, args[1:]); err != nil {
				return err
			}
			if !r.Dirty() {
				fmt.Fprintln(cmd.OutOrStdout(), "no changes")
				return nil
			}
			if err := sh.SaveRoster(ctx, r); err != nil {
				return err
			}
			for _, m := range sh.Snapshot().Members {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", m.ID, m.Name)
			}
			return nil
		},
	}
}

func (c *cli) periodCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "period <link> <start> <end>",
		Short: "Set the calendar's date range",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			sh, err := c.open(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			if err := sh.SetPeriod(ctx, args[1], args[2]); err != nil {
				return err
			}
			cfg := sh.Snapshot().Calendar
			fmt.Fprintf(cmd.OutOrStdout(), "%s..%s\n", cfg.StartDate, cfg.EndDate)
			return nil
		},
	}
}

func (c *cli) titleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "title <link> <title>",
		Short: "Rename the calendar",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			sh, err := c.open(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			if err := sh.UpdateTitle(ctx, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sh.Snapshot().Calendar.Title)
			return nil
		},
	}
}

// writerClipboard copies links to a writer.
type writerClipboard struct {
	w io.Writer
}

func (c writerClipboard) WriteText(text string) error {
	_, err := fmt.Fprintln(c.w, text)
	return err
}

func (c *cli) linkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <link>",
		Short: "Print the canonical share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			sh, err := c.open(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			return sh.CopyLink(writerClipboard{cmd.OutOrStdout()}, c.server, "/")
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var format, out, start, end string
	cmd := &cobra.Command{
		Use:   "export <link>",
		Short: "Download the grid as ICS or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			format = strings.ToLower(format)
			if format != "ics" && format != "xlsx" {
				return fmt.Errorf("format %q: want ics or xlsx", format)
			}
			token := app.TokenFromAddress(args[0])
			if token == "" {
				return fmt.Errorf("%s: %w", args[0], app.ErrInvalidLink)
			}

			if out == "" || out == "-" {
				return c.download(ctx, args[0], token, format, start, end, cmd.OutOrStdout())
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := c.download(ctx, args[0], token, format, start, end, f); err != nil {
				f.Close()
				os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "wrote", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "ics", "Export format: ics or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&start, "start", "", "First date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last date (YYYY-MM-DD)")
	return cmd
}

func (c *cli) download(ctx context.Context, link, token, format, start, end string, w io.Writer) error {
	err := c.client().Download(ctx, token, "export."+format, start, end, w)
	if client.IsNotFound(err) {
		return fmt.Errorf("%s: %w", link, app.ErrNotFound)
	}
	return err
}
