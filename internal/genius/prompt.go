package genius

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minmind/minmind/internal/models"
	"gorm.io/gorm"
)

// DefaultSummaryPrompt is used when no summary config is active.
const DefaultSummaryPrompt = `Summarize this article for someone who learns by understanding the "why" first, then concrete examples.

Structure your summary as:
1. **Core Insight** - The fundamental idea or thesis (1-2 sentences)
2. **Why It Matters** - Context and significance
3. **Key Points** - Bullet points of main arguments/findings
4. **Concrete Examples** - Specific examples or case studies mentioned
5. **Actionable Takeaways** - What can be applied immediately

Keep the tone conversational but precise. Focus on signal over noise.`

// ConfigOpts holds parameters for creating a summary config.
type ConfigOpts struct {
	Name   string
	Prompt string
	RoomID string // empty for a global config
}

// CreateConfig stores a new active summary config.
func CreateConfig(db *gorm.DB, opts ConfigOpts) (*models.SummaryConfig, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("genius: config name is required")
	}
	if opts.Prompt == "" {
		opts.Prompt = DefaultSummaryPrompt
	}

	cfg := models.SummaryConfig{
		ID:           uuid.NewString(),
		Name:         opts.Name,
		SystemPrompt: opts.Prompt,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if opts.RoomID != "" {
		cfg.RoomID = &opts.RoomID
	}
	if err := db.Create(&cfg).Error; err != nil {
		return nil, fmt.Errorf("genius: create config: %w", err)
	}
	return &cfg, nil
}

// ListConfigs returns all summary configs, oldest first.
func ListConfigs(db *gorm.DB) ([]models.SummaryConfig, error) {
	var configs []models.SummaryConfig
	if err := db.Order("created_at ASC").Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("genius: list configs: %w", err)
	}
	return configs, nil
}

// DeleteConfig removes a summary config by full id or unique id prefix.
func DeleteConfig(db *gorm.DB, idOrPrefix string) error {
	var matches []models.SummaryConfig
	if err := db.Where("id = ? OR id LIKE ?", idOrPrefix, idOrPrefix+"%").
		Limit(2).Find(&matches).Error; err != nil {
		return fmt.Errorf("genius: resolve config %s: %w", idOrPrefix, err)
	}
	switch len(matches) {
	case 0:
		return fmt.Errorf("genius: config not found: %s", idOrPrefix)
	case 1:
	default:
		return fmt.Errorf("genius: ambiguous config id prefix: %s", idOrPrefix)
	}
	if err := db.Delete(&models.SummaryConfig{}, "id = ?", matches[0].ID).Error; err != nil {
		return fmt.Errorf("genius: delete config %s: %w", matches[0].ID, err)
	}
	return nil
}

// ActivePrompt selects the system prompt for an article: an active
// room-scoped config wins, then an active global config, then the
// built-in default.
func ActivePrompt(db *gorm.DB, roomID *string) (string, error) {
	if roomID != nil {
		var cfg models.SummaryConfig
		err := db.Where("room_id = ? AND active = ?", *roomID, true).
			Order("created_at ASC").First(&cfg).Error
		if err == nil {
			return cfg.SystemPrompt, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("genius: active prompt: %w", err)
		}
	}

	var cfg models.SummaryConfig
	err := db.Where("room_id IS NULL AND active = ?", true).
		Order("created_at ASC").First(&cfg).Error
	if err == nil {
		return cfg.SystemPrompt, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("genius: active prompt: %w", err)
	}
	return DefaultSummaryPrompt, nil
}
