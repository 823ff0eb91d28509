package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/minmind/minmind/internal/article"
	"github.com/minmind/minmind/internal/models"
	"github.com/minmind/minmind/internal/room"
	"github.com/spf13/cobra"
)

func newReviewCmd() *cobra.Command {
	var (
		configPath string
		database   string
		roomRef    string
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review summarized articles interactively",
		Long: `Walks through summarized articles one at a time. Each article's summary
is shown, then a decision is read from stdin:

  a  approve into a reference note
  x  archive
  s  skip to the next article
  q  quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}

			fallbackRoom := ""
			if roomRef != "" {
				r, err := room.Resolve(s.db, roomRef)
				if err != nil {
					return err
				}
				fallbackRoom = r.ID
			}

			articles, err := article.List(s.db, models.ArticleSummarized)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(articles) == 0 {
				fmt.Fprintln(out, "Nothing to review.")
				return nil
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			approved, archived, skipped := 0, 0, 0

		review:
			for i := range articles {
				a := &articles[i]
				fmt.Fprintf(out, "\n[%d/%d] %s\n%s\n\n", i+1, len(articles), a.Title, a.URL)
				if a.Summary != nil {
					fmt.Fprintln(out, renderMarkdown(*a.Summary))
				}

				for {
					fmt.Fprint(out, "(a)pprove / (x)archive / (s)kip / (q)uit: ")
					if !scanner.Scan() {
						break review
					}
					switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
					case "a":
						roomID := fallbackRoom
						if a.RoomID != nil {
							roomID = *a.RoomID
						}
						n, err := article.Approve(s.db, a, roomID)
						if err != nil {
							fmt.Fprintf(out, "approve failed: %v\n", err)
							continue
						}
						fmt.Fprintf(out, "Approved into note %s\n", shortID(n.ID))
						approved++
					case "x":
						if err := article.Archive(s.db, a); err != nil {
							fmt.Fprintf(out, "archive failed: %v\n", err)
							continue
						}
						fmt.Fprintln(out, "Archived.")
						archived++
					case "s":
						skipped++
					case "q":
						break review
					default:
						continue
					}
					continue review
				}
			}

			fmt.Fprintf(out, "\nReview done: %d approved, %d archived, %d skipped\n",
				approved, archived, skipped)
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	cmd.Flags().StringVar(&roomRef, "room", "", "room for approved notes when the article has none")
	return cmd
}
