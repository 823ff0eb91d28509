package models

import (
	"fmt"
	"strings"
	"time"
)

// ArticleStatus is the position of an Article in the review pipeline.
type ArticleStatus string

const (
	// ArticlePending means fetched, awaiting summarization.
	ArticlePending ArticleStatus = "pending"
	// ArticleSummarized means a summary exists, awaiting review.
	ArticleSummarized ArticleStatus = "summarized"
	// ArticleReviewed means approved and converted to a Note.
	ArticleReviewed ArticleStatus = "reviewed"
	// ArticleArchived means dismissed or saved for later.
	ArticleArchived ArticleStatus = "archived"
)

// Terminal reports whether the pipeline is finished with this article.
func (s ArticleStatus) Terminal() bool {
	return s == ArticleReviewed || s == ArticleArchived
}

func (s ArticleStatus) String() string { return string(s) }

// ParseArticleStatus parses a status name.
func ParseArticleStatus(s string) (ArticleStatus, error) {
	switch strings.ToLower(s) {
	case "pending":
		return ArticlePending, nil
	case "summarized":
		return ArticleSummarized, nil
	case "reviewed":
		return ArticleReviewed, nil
	case "archived":
		return ArticleArchived, nil
	}
	return "", fmt.Errorf("models: unknown article status: %q", s)
}

// SourceMetadata describes where an article came from.
type SourceMetadata struct {
	Author      string `gorm:"size:256"`
	SiteName    string `gorm:"size:256"`
	Description string `gorm:"type:text"`
	ImageURL    string `gorm:"size:1024"`
}

// Article is content captured from an external source for summarization
// and review. URLs are unique across articles.
type Article struct {
	ID         string         `gorm:"primaryKey;size:36"`
	URL        string         `gorm:"size:1024;not null;uniqueIndex"`
	Title      string         `gorm:"not null"`
	RawContent string         `gorm:"type:text"`
	Summary    *string        `gorm:"type:text"`
	RoomID     *string        `gorm:"size:36;index"`
	Status     ArticleStatus  `gorm:"size:16;default:pending;index"`
	Metadata   SourceMetadata `gorm:"embedded;embeddedPrefix:meta_"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
