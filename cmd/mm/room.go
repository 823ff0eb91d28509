package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/minmind/minmind/internal/note"
	"github.com/minmind/minmind/internal/room"
	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomListCmd())
	cmd.AddCommand(newRoomShowCmd())
	cmd.AddCommand(newRoomDeleteCmd())
	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var (
		configPath  string
		database    string
		description string
		parent      string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new room",
		Long:  "Creates a room in the palace. With --parent, the room nests under an existing one.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			opts := room.CreateOpts{Name: args[0], Description: description}
			if parent != "" {
				p, err := room.Resolve(s.db, parent)
				if err != nil {
					return err
				}
				opts.ParentID = p.ID
			}

			r, err := room.Create(s.db, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created room %s (%s)\n", r.Name, shortID(r.ID))
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	cmd.Flags().StringVar(&description, "description", "", "room description")
	cmd.Flags().StringVar(&parent, "parent", "", "parent room (name or id)")
	return cmd
}

func newRoomListCmd() *cobra.Command {
	var (
		configPath string
		database   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			rooms, err := room.List(s.db)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rooms) == 0 {
				fmt.Fprintln(out, "No rooms yet. Create one with: mm room create <name>")
				return nil
			}

			names := make(map[string]string, len(rooms))
			for _, r := range rooms {
				names[r.ID] = r.Name
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPARENT\tDESCRIPTION")
			for _, r := range rooms {
				parent := "-"
				if r.ParentID != nil {
					parent = names[*r.ParentID]
				}
				desc := "-"
				if r.Description != nil {
					desc = truncate(*r.Description, 50)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortID(r.ID), r.Name, parent, desc)
			}
			w.Flush()
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	return cmd
}

func newRoomShowCmd() *cobra.Command {
	var (
		configPath string
		database   string
	)

	cmd := &cobra.Command{
		Use:   "show <room>",
		Short: "Show a room and its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			r, err := room.Resolve(s.db, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:      %s\n", r.ID)
			fmt.Fprintf(out, "Name:    %s\n", r.Name)
			if r.Description != nil {
				fmt.Fprintf(out, "About:   %s\n", *r.Description)
			}
			if r.ParentID != nil {
				if p, err := room.Get(s.db, *r.ParentID); err == nil {
					fmt.Fprintf(out, "Parent:  %s\n", p.Name)
				}
			}
			fmt.Fprintf(out, "Created: %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))

			children, err := room.Children(s.db, r.ID)
			if err != nil {
				return err
			}
			if len(children) > 0 {
				fmt.Fprintln(out, "\nRooms inside:")
				for _, c := range children {
					fmt.Fprintf(out, "  %s  %s\n", shortID(c.ID), c.Name)
				}
			}

			notes, err := note.ListByRoom(s.db, r.ID)
			if err != nil {
				return err
			}
			if len(notes) == 0 {
				fmt.Fprintln(out, "\nNo notes in this room.")
				return nil
			}

			fmt.Fprintln(out)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tTITLE")
			for _, n := range notes {
				status := "-"
				if n.Status != nil {
					status = n.Status.String()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortID(n.ID), n.NoteType, status, truncate(n.Title, 60))
			}
			w.Flush()
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	return cmd
}

func newRoomDeleteCmd() *cobra.Command {
	var (
		configPath string
		database   string
	)

	cmd := &cobra.Command{
		Use:   "delete <room>",
		Short: "Delete a room",
		Long:  "Deletes a room and its notes. Nested rooms are re-attached to the deleted room's parent.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			r, err := room.Resolve(s.db, args[0])
			if err != nil {
				return err
			}
			if err := room.Delete(s.db, r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted room %s\n", r.Name)
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	return cmd
}
