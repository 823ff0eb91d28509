package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/minmind/minmind/internal/genius"
	"github.com/minmind/minmind/internal/room"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Summary prompt configuration commands",
	}

	cmd.AddCommand(newConfigListCmd())
	cmd.AddCommand(newConfigCreateCmd())
	cmd.AddCommand(newConfigDeleteCmd())
	cmd.AddCommand(newConfigDefaultCmd())
	return cmd
}

func newConfigListCmd() *cobra.Command {
	var (
		configPath string
		database   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List summary configs",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			configs, err := genius.ListConfigs(s.db)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(configs) == 0 {
				fmt.Fprintln(out, "No summary configs; the built-in prompt is used.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSCOPE\tACTIVE")
			for _, c := range configs {
				scope := "global"
				if c.RoomID != nil {
					scope = shortID(*c.RoomID)
					if r, err := room.Get(s.db, *c.RoomID); err == nil {
						scope = r.Name
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", shortID(c.ID), c.Name, scope, c.Active)
			}
			w.Flush()
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	return cmd
}

func newConfigCreateCmd() *cobra.Command {
	var (
		configPath string
		database   string
		prompt     string
		roomRef    string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a summary config",
		Long: `Creates an active summary config. With --room, the prompt applies only
to articles captured into that room; otherwise it applies globally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			opts := genius.ConfigOpts{Name: args[0], Prompt: prompt}
			if roomRef != "" {
				r, err := room.Resolve(s.db, roomRef)
				if err != nil {
					return err
				}
				opts.RoomID = r.ID
			}

			c, err := genius.CreateConfig(s.db, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created summary config %s (%s)\n", c.Name, shortID(c.ID))
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	cmd.Flags().StringVar(&prompt, "prompt", "", "system prompt text (defaults to the built-in prompt)")
	cmd.Flags().StringVar(&roomRef, "room", "", "scope the prompt to one room")
	return cmd
}

func newConfigDeleteCmd() *cobra.Command {
	var (
		configPath string
		database   string
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a summary config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			if err := genius.DeleteConfig(s.db, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted summary config %s\n", args[0])
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	return cmd
}

func newConfigDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default",
		Short: "Print the built-in summary prompt",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), genius.DefaultSummaryPrompt)
		},
	}
}
