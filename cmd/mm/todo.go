package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/minmind/minmind/internal/action"
	"github.com/minmind/minmind/internal/config"
	"github.com/minmind/minmind/internal/models"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newTodoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Todo and plan-file sync commands",
	}

	cmd.AddCommand(newTodoListCmd())
	cmd.AddCommand(newTodoAddCmd())
	cmd.AddCommand(newTodoSyncCmd())
	cmd.AddCommand(newTodoStartCmd())
	cmd.AddCommand(newTodoCompleteCmd())
	cmd.AddCommand(newTodoSkipCmd())
	return cmd
}

func newTodoListCmd() *cobra.Command {
	var (
		configPath string
		database   string
		status     string
		source     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			filters := action.ListFilters{SourceFile: source}
			if status != "" {
				filters.Status, err = models.ParseActionStatus(status)
				if err != nil {
					return err
				}
			}

			actions, err := action.List(s.db, filters)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(actions) == 0 {
				fmt.Fprintln(out, "No todos.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tTITLE\tSOURCE")
			for _, a := range actions {
				src := "-"
				if a.SourceFile != nil {
					src = *a.SourceFile
					if a.LineNumber != nil {
						src = fmt.Sprintf("%s:%d", src, *a.LineNumber)
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					shortID(a.ID), a.Status, truncate(a.Title, 50), src)
			}
			w.Flush()
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, in_progress, completed, skipped)")
	cmd.Flags().StringVar(&source, "source", "", "filter by source plan file")
	return cmd
}

func newTodoAddCmd() *cobra.Command {
	var (
		configPath  string
		database    string
		description string
		plan        string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a todo",
		Long: `Adds a todo directly to the database. With --plan, the todo is tagged
with a plan file for filtering; it carries no line anchor, so sync never
touches it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			a, err := action.Create(s.db, action.CreateOpts{
				Title:       args[0],
				Description: description,
				SourceFile:  plan,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added todo %s\n", shortID(a.ID))
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	cmd.Flags().StringVar(&description, "description", "", "longer description")
	cmd.Flags().StringVar(&plan, "plan", "", "associate with a plan file")
	return cmd
}

func newTodoSyncCmd() *cobra.Command {
	var (
		configPath string
		database   string
		dir        string
		pattern    string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync plan files into the todo database",
		Long: `Scans the plans directory for [USER] markers and reconciles them with
the database. New markers become todos; changed markers update their
todo's title and status. Completed and skipped todos are never demoted,
and todos whose markers disappear are kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			if dir == "" {
				dir = config.ExpandPath(s.cfg.PlansDir)
			}
			if pattern == "" {
				pattern = s.cfg.PlanPattern
			}

			res, err := action.Sync(s.db, dir, pattern)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sync complete: %d found, %d new, %d updated\n",
				res.Found, res.New, res.Updated)
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	cmd.Flags().StringVar(&dir, "dir", "", "plans directory (default from config)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "plan file glob (default from config)")
	return cmd
}

func newTodoStartCmd() *cobra.Command {
	return newTodoStatusCmd("start", "Mark a todo in progress", action.Start, "Started")
}

func newTodoCompleteCmd() *cobra.Command {
	return newTodoStatusCmd("complete", "Mark a todo completed", action.Complete, "Completed")
}

func newTodoSkipCmd() *cobra.Command {
	return newTodoStatusCmd("skip", "Mark a todo skipped", action.Skip, "Skipped")
}

// newTodoStatusCmd builds the shared shape of start/complete/skip: apply
// the transition, report, and surface write-back failures.
func newTodoStatusCmd(use, short string, apply func(db *gorm.DB, idOrPrefix string) (*models.UserAction, error), verb string) *cobra.Command {
	var (
		configPath string
		database   string
	)

	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			a, err := apply(s.db, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s todo %s: %s\n", verb, shortID(a.ID), a.Title)
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	return cmd
}
