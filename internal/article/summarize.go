package article

import (
	"fmt"

	"github.com/minmind/minmind/internal/models"
	"gorm.io/gorm"
)

// Summarizer produces a summary for an article. The production
// implementation shells out to the external summarization service; tests
// substitute their own.
type Summarizer interface {
	Summarize(a *models.Article, prompt string) (string, error)
}

// Summarize runs the summarizer and, on success, applies the summary to
// the article. A summarizer failure leaves the article unchanged.
func Summarize(db *gorm.DB, s Summarizer, a *models.Article, prompt string) error {
	if a.Status.Terminal() {
		return fmt.Errorf("article: cannot summarize %s article %s", a.Status, a.ID)
	}
	summary, err := s.Summarize(a, prompt)
	if err != nil {
		return err
	}
	return SetSummary(db, a, summary)
}
