package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/minmind/minmind/internal/article"
	"github.com/minmind/minmind/internal/config"
	"github.com/minmind/minmind/internal/genius"
	"github.com/minmind/minmind/internal/models"
	"github.com/minmind/minmind/internal/room"
	"github.com/spf13/cobra"
)

func newArticleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "article",
		Short: "Article capture and review commands",
	}

	cmd.AddCommand(newArticleAddCmd())
	cmd.AddCommand(newArticleListCmd())
	cmd.AddCommand(newArticleShowCmd())
	cmd.AddCommand(newArticleSummarizeCmd())
	cmd.AddCommand(newArticleApproveCmd())
	cmd.AddCommand(newArticleArchiveCmd())
	cmd.AddCommand(newArticleDeleteCmd())
	return cmd
}

// newGeniusClient builds the subprocess client from config and the
// resolved database path.
func newGeniusClient(s *store) *genius.Client {
	return &genius.Client{
		PythonDir: config.ExpandPath(s.cfg.PythonDir),
		DBPath:    s.path,
		Provider:  s.cfg.Provider,
	}
}

func newArticleAddCmd() *cobra.Command {
	var (
		configPath string
		database   string
		roomRef    string
		title      string
		content    string
	)

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Capture an article",
		Long: `Captures an article by URL. Content is fetched and extracted via the
Python extraction service; with --content, extraction is skipped and the
given text is stored directly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			opts := article.CreateOpts{URL: args[0], Title: title, Content: content}
			if roomRef != "" {
				r, err := room.Resolve(s.db, roomRef)
				if err != nil {
					return err
				}
				opts.RoomID = r.ID
			}

			if content == "" {
				ex, err := newGeniusClient(s).Extract(args[0])
				if err != nil {
					return err
				}
				opts.Content = ex.Content
				if opts.Title == "" {
					opts.Title = ex.Title
				}
				if ex.Metadata != nil {
					opts.Metadata = models.SourceMetadata{
						Author:      ex.Metadata.Author,
						SiteName:    ex.Metadata.SiteName,
						Description: ex.Metadata.Description,
						ImageURL:    ex.Metadata.ImageURL,
					}
				}
			}

			a, err := article.Create(s.db, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Captured article %s: %s\n", shortID(a.ID), a.Title)
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	cmd.Flags().StringVar(&roomRef, "room", "", "room to file the approved note in")
	cmd.Flags().StringVar(&title, "title", "", "override the extracted title")
	cmd.Flags().StringVar(&content, "content", "", "article text (skips extraction)")
	return cmd
}

func newArticleListCmd() *cobra.Command {
	var (
		configPath string
		database   string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			var filter models.ArticleStatus
			if status != "" {
				filter, err = models.ParseArticleStatus(status)
				if err != nil {
					return err
				}
			}

			articles, err := article.List(s.db, filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(articles) == 0 {
				fmt.Fprintln(out, "No articles.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tTITLE\tURL")
			for _, a := range articles {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					shortID(a.ID), a.Status, truncate(a.Title, 40), truncate(a.URL, 50))
			}
			w.Flush()
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, summarized, reviewed, archived)")
	return cmd
}

func newArticleShowCmd() *cobra.Command {
	var (
		configPath string
		database   string
		full       bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			a, err := article.Resolve(s.db, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:      %s\n", a.ID)
			fmt.Fprintf(out, "Title:   %s\n", a.Title)
			fmt.Fprintf(out, "URL:     %s\n", a.URL)
			fmt.Fprintf(out, "Status:  %s\n", a.Status)
			if a.Metadata.Author != "" {
				fmt.Fprintf(out, "Author:  %s\n", a.Metadata.Author)
			}
			if a.Metadata.SiteName != "" {
				fmt.Fprintf(out, "Site:    %s\n", a.Metadata.SiteName)
			}
			fmt.Fprintf(out, "Added:   %s\n", a.CreatedAt.Format("2006-01-02 15:04:05"))

			if a.Summary != nil {
				fmt.Fprintf(out, "\n%s\n", renderMarkdown(*a.Summary))
			}
			if full && a.RawContent != "" {
				fmt.Fprintf(out, "\n%s\n", renderMarkdown(a.RawContent))
			}
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	cmd.Flags().BoolVar(&full, "full", false, "also print the full extracted content")
	return cmd
}

func newArticleSummarizeCmd() *cobra.Command {
	var (
		configPath string
		database   string
		prompt     string
	)

	cmd := &cobra.Command{
		Use:   "summarize <id>",
		Short: "Generate an AI summary for an article",
		Long: `Generates a summary via the configured AI provider. The system prompt
comes from --prompt, an active summary config (room-scoped configs win
over global ones), or the built-in default.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			a, err := article.Resolve(s.db, args[0])
			if err != nil {
				return err
			}

			if prompt == "" {
				prompt, err = genius.ActivePrompt(s.db, a.RoomID)
				if err != nil {
					return err
				}
			}

			if err := article.Summarize(s.db, newGeniusClient(s), a, prompt); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Summarized article %s\n\n%s\n",
				shortID(a.ID), renderMarkdown(*a.Summary))
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	cmd.Flags().StringVar(&prompt, "prompt", "", "override the system prompt")
	return cmd
}

func newArticleApproveCmd() *cobra.Command {
	var (
		configPath string
		database   string
		roomRef    string
	)

	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve an article into a reference note",
		Long: `Converts the article into a reference note and marks it reviewed. The
note lands in the room given by --room, or the room the article was
captured into.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			a, err := article.Resolve(s.db, args[0])
			if err != nil {
				return err
			}

			roomID := ""
			if roomRef != "" {
				r, err := room.Resolve(s.db, roomRef)
				if err != nil {
					return err
				}
				roomID = r.ID
			} else if a.RoomID != nil {
				roomID = *a.RoomID
			}

			n, err := article.Approve(s.db, a, roomID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Approved article %s into note %s\n", shortID(a.ID), shortID(n.ID))
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	cmd.Flags().StringVar(&roomRef, "room", "", "room for the reference note")
	return cmd
}

func newArticleArchiveCmd() *cobra.Command {
	var (
		configPath string
		database   string
	)

	cmd := &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			a, err := article.Resolve(s.db, args[0])
			if err != nil {
				return err
			}
			if err := article.Archive(s.db, a); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived article %s\n", shortID(a.ID))
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	return cmd
}

func newArticleDeleteCmd() *cobra.Command {
	var (
		configPath string
		database   string
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			a, err := article.Resolve(s.db, args[0])
			if err != nil {
				return err
			}
			if err := article.Delete(s.db, a); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted article %s\n", shortID(a.ID))
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	return cmd
}
