package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/neuralhub/neuralhub-go/internal/crypto"
	"github.com/neuralhub/neuralhub-go/internal/model"
	"github.com/neuralhub/neuralhub-go/internal/repository"
)

// Sample account created by SeedSampleData.
const (
	SampleEmail    = "test@example.com"
	SamplePassword = "test123"
)

// SeedSampleData creates a verified demo account with a few saved items. It does
// nothing when the demo account already exists.
func SeedSampleData(ctx context.Context, users repository.UserStore, content repository.ContentStore, hashCost int, logger *slog.Logger) error {
	if _, err := users.FindByEmail(ctx, SampleEmail); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("lookup sample user: %w", err)
	}

	hash, err := crypto.HashPassword(SamplePassword, hashCost)
	if err != nil {
		return err
	}

	user, err := users.Create(ctx, model.NewUser{
		Email:        SampleEmail,
		Name:         "Test User",
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil
		}
		return fmt.Errorf("create sample user: %w", err)
	}

	if _, err := users.MarkEmailVerified(ctx, SampleEmail); err != nil {
		return fmt.Errorf("verify sample user: %w", err)
	}

	bio := "AI enthusiast and content creator"
	location := "San Francisco, CA"
	website := "https://example.com"
	company := "Tech Corp"
	jobTitle := "Product Manager"
	_, err = users.Update(ctx, user.ID, model.UserUpdate{Profile: &model.ProfileUpdate{
		Bio:      &bio,
		Location: &location,
		Website:  &website,
		Company:  &company,
		JobTitle: &jobTitle,
	}})
	if err != nil {
		return fmt.Errorf("update sample profile: %w", err)
	}

	for _, f := range sampleContent() {
		if _, err := content.Create(ctx, user.ID, f); err != nil {
			return fmt.Errorf("create sample content: %w", err)
		}
	}

	logger.InfoContext(ctx, "sample data seeded", slog.String("email", SampleEmail))
	return nil
}

func sampleContent() []model.ContentFields {
	return []model.ContentFields{
		{
			Title:  "ChatGPT: Marketing Strategy for SaaS Startup",
			Type:   model.ContentChat,
			Source: "ChatGPT",
			Tags:   []string{"marketing", "strategy", "saas", "startup"},
			Conversation: []model.Message{
				{Role: "user", Message: "I need help creating a marketing strategy for my SaaS startup.", Timestamp: "10:30 AM"},
				{Role: "assistant", Message: "Great! Let's create a comprehensive marketing strategy...", Timestamp: "10:31 AM"},
			},
			IsPublic: true,
		},
		{
			Title:    "Midjourney: Product Mockup for Mobile App",
			Type:     model.ContentImage,
			Source:   "Midjourney",
			Tags:     []string{"design", "mobile", "app", "mockup"},
			ImageURL: "https://images.unsplash.com/photo-1512941937669-90a1b58e7e9c?w=400&h=300&fit=crop",
			Content:  "Generated mobile app interface mockup with modern design, showing dashboard layout with charts and navigation elements.",
		},
		{
			Title:        "Python Data Analysis Script",
			Type:         model.ContentCode,
			Source:       "Claude",
			Tags:         []string{"python", "data", "analysis"},
			Content:      "import pandas as pd\nimport matplotlib.pyplot as plt\n\n# Load data\ndf = pd.read_csv(\"data.csv\")",
			CodeLanguage: "python",
		},
	}
}
