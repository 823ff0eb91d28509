package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/minmind/minmind/internal/models"
	"github.com/minmind/minmind/internal/note"
	"github.com/minmind/minmind/internal/room"
	"github.com/spf13/cobra"
)

func newNoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Note management commands",
	}

	cmd.AddCommand(newNoteAddCmd())
	cmd.AddCommand(newNoteListCmd())
	cmd.AddCommand(newNoteShowCmd())
	cmd.AddCommand(newNoteSearchCmd())
	cmd.AddCommand(newNoteLinkCmd())
	cmd.AddCommand(newNoteDeleteCmd())
	return cmd
}

func newNoteAddCmd() *cobra.Command {
	var (
		configPath string
		database   string
		roomRef    string
		content    string
		noteType   string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a note to a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			r, err := room.Resolve(s.db, roomRef)
			if err != nil {
				return err
			}
			nt, err := models.ParseNoteType(noteType)
			if err != nil {
				return err
			}

			n, err := note.Create(s.db, note.CreateOpts{
				RoomID:   r.ID,
				Title:    args[0],
				Content:  content,
				NoteType: nt,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s note %s to %s\n", n.NoteType, shortID(n.ID), r.Name)
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	cmd.Flags().StringVar(&roomRef, "room", "", "room to file the note in (required)")
	cmd.Flags().StringVar(&content, "content", "", "note body (markdown)")
	cmd.Flags().StringVar(&noteType, "type", "idea", "note type (idea, task, reference, log)")
	cmd.MarkFlagRequired("room")
	return cmd
}

func newNoteListCmd() *cobra.Command {
	var (
		configPath string
		database   string
		roomRef    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes in a room",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			r, err := room.Resolve(s.db, roomRef)
			if err != nil {
				return err
			}
			notes, err := note.ListByRoom(s.db, r.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(notes) == 0 {
				fmt.Fprintf(out, "No notes in %s.\n", r.Name)
				return nil
			}
			printNoteTable(out, notes)
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	cmd.Flags().StringVar(&roomRef, "room", "", "room to list (required)")
	cmd.MarkFlagRequired("room")
	return cmd
}

func newNoteShowCmd() *cobra.Command {
	var (
		configPath string
		database   string
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			n, err := note.Resolve(s.db, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:      %s\n", n.ID)
			fmt.Fprintf(out, "Title:   %s\n", n.Title)
			fmt.Fprintf(out, "Type:    %s\n", n.NoteType)
			if n.Status != nil {
				fmt.Fprintf(out, "Status:  %s\n", *n.Status)
			}
			fmt.Fprintf(out, "Created: %s\n", n.CreatedAt.Format("2006-01-02 15:04:05"))
			if n.Content != "" {
				fmt.Fprintf(out, "\n%s\n", renderMarkdown(n.Content))
			}

			links, err := note.Links(s.db, n.ID)
			if err != nil {
				return err
			}
			if len(links) > 0 {
				fmt.Fprintln(out, "\nLinks:")
				for _, l := range links {
					lt := "related"
					if l.LinkType != nil {
						lt = *l.LinkType
					}
					fmt.Fprintf(out, "  %s -> %s (%s)\n", shortID(l.SourceID), shortID(l.TargetID), lt)
				}
			}
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	return cmd
}

func newNoteSearchCmd() *cobra.Command {
	var (
		configPath string
		database   string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search notes by title and content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			notes, err := note.Search(s.db, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(notes) == 0 {
				fmt.Fprintln(out, "No matching notes.")
				return nil
			}
			printNoteTable(out, notes)
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	return cmd
}

func newNoteLinkCmd() *cobra.Command {
	var (
		configPath string
		database   string
		linkType   string
	)

	cmd := &cobra.Command{
		Use:   "link <source-id> <target-id>",
		Short: "Link two notes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			src, err := note.Resolve(s.db, args[0])
			if err != nil {
				return err
			}
			dst, err := note.Resolve(s.db, args[1])
			if err != nil {
				return err
			}

			if _, err := note.LinkNotes(s.db, src.ID, dst.ID, linkType); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s -> %s\n", shortID(src.ID), shortID(dst.ID))
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	cmd.Flags().StringVar(&linkType, "type", "", "link type (related, blocks, supports, references, derived_from)")
	return cmd
}

func newNoteDeleteCmd() *cobra.Command {
	var (
		configPath string
		database   string
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			n, err := note.Resolve(s.db, args[0])
			if err != nil {
				return err
			}
			if err := note.Delete(s.db, n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s\n", shortID(n.ID))
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	return cmd
}

func printNoteTable(out io.Writer, notes []models.Note) {
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
}
