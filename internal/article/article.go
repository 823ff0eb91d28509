// Package article manages the capture → summarize → review pipeline.
//
// Articles move along a monotone lattice: pending → summarized → reviewed,
// with archived reachable from any non-terminal state. Reviewed and
// archived are terminal.
package article

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minmind/minmind/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for capturing a new article.
type CreateOpts struct {
	URL      string
	Title    string
	Content  string
	RoomID   string // optional
	Metadata models.SourceMetadata
}

// Create stores a newly captured article in the pending state. URLs are
// unique; capturing a URL twice is an error.
func Create(db *gorm.DB, opts CreateOpts) (*models.Article, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("article: url is required")
	}
	if opts.Title == "" {
		opts.Title = "Untitled"
	}

	if existing, err := GetByURL(db, opts.URL); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("article: already exists: %s", opts.URL)
	}

	now := time.Now()
	a := models.Article{
		ID:         uuid.NewString(),
		URL:        opts.URL,
		Title:      opts.Title,
		RawContent: opts.Content,
		Status:     models.ArticlePending,
		Metadata:   opts.Metadata,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if opts.RoomID != "" {
		a.RoomID = &opts.RoomID
	}
	if err := db.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("article: create: %w", err)
	}
	return &a, nil
}

// Get retrieves an article by its full id.
func Get(db *gorm.DB, id string) (*models.Article, error) {
	var a models.Article
	if err := db.Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("article: not found: %s", id)
		}
		return nil, fmt.Errorf("article: get %s: %w", id, err)
	}
	return &a, nil
}

// GetByURL retrieves an article by URL, or nil if none exists.
func GetByURL(db *gorm.DB, url string) (*models.Article, error) {
	var a models.Article
	err := db.Where("url = ?", url).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("article: get by url %s: %w", url, err)
	}
	return &a, nil
}

// List returns articles, optionally filtered by status, newest first.
func List(db *gorm.DB, status models.ArticleStatus) ([]models.Article, error) {
	q := db.Model(&models.Article{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var articles []models.Article
	if err := q.Order("created_at DESC").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("article: list: %w", err)
	}
	return articles, nil
}

// Resolve finds an article by full id or unique id prefix.
func Resolve(db *gorm.DB, idOrPrefix string) (*models.Article, error) {
	if idOrPrefix == "" {
		return nil, fmt.Errorf("article: empty id")
	}

	var exact models.Article
	err := db.Where("id = ?", idOrPrefix).First(&exact).Error
	if err == nil {
		return &exact, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("article: resolve %s: %w", idOrPrefix, err)
	}

	var matches []models.Article
	if err := db.Where("id LIKE ?", idOrPrefix+"%").Limit(2).Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("article: resolve %s: %w", idOrPrefix, err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("article: not found: %s", idOrPrefix)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("article: ambiguous id prefix: %s", idOrPrefix)
	}
}

// SetSummary stores a summary and moves the article to summarized.
// Terminal articles refuse the transition.
func SetSummary(db *gorm.DB, a *models.Article, summary string) error {
	if a.Status.Terminal() {
		return fmt.Errorf("article: cannot summarize %s article %s", a.Status, a.ID)
	}
	now := time.Now()
	if err := db.Model(&models.Article{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"summary":    summary,
		"status":     models.ArticleSummarized,
		"updated_at": now,
	}).Error; err != nil {
		return fmt.Errorf("article: set summary %s: %w", a.ID, err)
	}
	a.Summary = &summary
	a.Status = models.ArticleSummarized
	a.UpdatedAt = now
	return nil
}

// MarkReviewed moves a non-terminal article to reviewed.
func MarkReviewed(db *gorm.DB, a *models.Article) error {
	if a.Status.Terminal() {
		return fmt.Errorf("article: cannot review %s article %s", a.Status, a.ID)
	}
	return setStatus(db, a, models.ArticleReviewed)
}

// Archive moves an article to archived. Allowed from any state.
func Archive(db *gorm.DB, a *models.Article) error {
	return setStatus(db, a, models.ArticleArchived)
}

func setStatus(db *gorm.DB, a *models.Article, to models.ArticleStatus) error {
	now := time.Now()
	if err := db.Model(&models.Article{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"status":     to,
		"updated_at": now,
	}).Error; err != nil {
		return fmt.Errorf("article: update %s: %w", a.ID, err)
	}
	a.Status = to
	a.UpdatedAt = now
	return nil
}

// Approve converts an article into a reference note in the given room and
// marks it reviewed. The note write comes first; if it fails, the article
// is left unchanged.
func Approve(db *gorm.DB, a *models.Article, roomID string) (*models.Note, error) {
	if a.Status.Terminal() {
		return nil, fmt.Errorf("article: cannot approve %s article %s", a.Status, a.ID)
	}
	if roomID == "" {
		return nil, fmt.Errorf("article: no room for approval; use --room or assign the article to a room")
	}

	now := time.Now()
	note := models.Note{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		Title:     a.Title,
		Content:   NoteBody(a),
		NoteType:  models.NoteReference,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&note).Error; err != nil {
		return nil, fmt.Errorf("article: create note for %s: %w", a.ID, err)
	}

	if err := MarkReviewed(db, a); err != nil {
		return &note, err
	}
	return &note, nil
}

// NoteBody renders the fixed note template for an approved article.
func NoteBody(a *models.Article) string {
	if a.Summary != nil {
		return fmt.Sprintf("## Summary\n\n%s\n\n## Source\n\n%s\n\n## Full Content\n\n%s",
			*a.Summary, a.URL, a.RawContent)
	}
	return fmt.Sprintf("## Source\n\n%s\n\n## Content\n\n%s", a.URL, a.RawContent)
}

// Delete removes an article outright.
func Delete(db *gorm.DB, a *models.Article) error {
	if err := db.Delete(&models.Article{}, "id = ?", a.ID).Error; err != nil {
		return fmt.Errorf("article: delete %s: %w", a.ID, err)
	}
	return nil
}
