package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"meow-site/pkg/config"
	"meow-site/pkg/database"
	"meow-site/pkg/jwt"
	"meow-site/pkg/logger"
	"meow-site/pkg/markdown"
	"meow-site/pkg/models"
	"meow-site/pkg/s3"
	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/repo/persistent"
	"meow-site/services/blog/internal/usecase"

	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.Open(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	var media usecase.MediaStore
	if s3Client, err := s3.NewClient(cfg); err != nil {
		log.Warn("Failed to create S3 client: %v (posts will have no images)", err)
	} else {
		media = s3Client
	}

	if err := seedDatabase(context.Background(), cfg, db, media, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

type seedAccount struct {
	username string
	email    string
	phone    string
}

var testAccounts = []seedAccount{
	{"alice_cat", "alice@test.com", "13800000001"},
	{"bob_cat", "bob@test.com", "13800000002"},
	{"charlie_cat", "charlie@test.com", "13800000003"},
	{"diana_cat", "diana@test.com", "13800000004"},
	{"eve_cat", "eve@test.com", "13800000005"},
}

var visibilities = []entity.Visibility{
	entity.VisibilityPublic,
	entity.VisibilityMutual,
	entity.VisibilityPrivate,
}

func seedDatabase(ctx context.Context, cfg *config.Config, db *gorm.DB, media usecase.MediaStore, log *logger.Logger) error {
	accountRepo := persistent.NewAccountRepository(db)
	moderationRepo := persistent.NewModerationRepository(db)
	followRepo := persistent.NewFollowRepository(db)
	postRepo := persistent.NewPostRepository(db)
	categoryRepo := persistent.NewCategoryRepository(db)
	commentRepo := persistent.NewCommentRepository(db)

	auth := usecase.NewAuthUseCase(accountRepo, moderationRepo, jwt.NewService(cfg.JWTSecret), nil, cfg.SessionTTL, cfg.RememberMeTTL, log, nil)
	follows := usecase.NewFollowUseCase(accountRepo, followRepo, moderationRepo, nil, log, nil)
	categories := usecase.NewCategoryUseCase(categoryRepo)
	posts := usecase.NewPostUseCase(
		postRepo,
		categoryRepo,
		commentRepo,
		accountRepo,
		followRepo,
		usecase.NewVisibilityUseCase(followRepo),
		markdown.New(),
		media,
		nil,
		log,
		nil,
	)

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	accountIDs := make([]string, 0, len(testAccounts))
	for _, data := range testAccounts {
		existing, err := accountRepo.GetByUsername(ctx, data.username)
		if err == nil {
			log.Info("Account %s already exists, skipping", data.username)
			accountIDs = append(accountIDs, existing.ID)
			continue
		}
		if !errors.Is(err, entity.ErrNotFound) {
			return err
		}

		account, _, err := auth.Register(ctx, usecase.RegisterInput{
			Username: data.username,
			Email:    data.email,
			Phone:    data.phone,
			Password: "password123",
		})
		if err != nil {
			log.Error("Failed to create account %s: %v", data.username, err)
			continue
		}
		log.Info("Created account: %s (%s)", account.Username, account.Email)
		accountIDs = append(accountIDs, account.ID)

		viewer := entity.Viewer{ID: account.ID}
		category, err := categories.Create(ctx, viewer, "Cats")
		if err != nil {
			return fmt.Errorf("failed to create category for %s: %w", account.Username, err)
		}

		postsCount := 3 + (len(accountIDs) % 3)
		log.Info("Creating %d posts for %s", postsCount, account.Username)
		for i := 0; i < postsCount; i++ {
			content := fmt.Sprintf("A cute cat, post #%d by %s.\n\nMeow **meow** meow.", i+1, account.Username)
			if media != nil {
				if snippet, err := catImage(ctx, httpClient, posts, viewer, account.Username, i, log); err != nil {
					log.Warn("No image for post %d of %s: %v", i+1, account.Username, err)
				} else {
					content += "\n\n" + snippet
				}
			}

			input := usecase.PostInput{
				Title:      fmt.Sprintf("Cat Post #%d by %s", i+1, account.Username),
				Content:    content,
				Visibility: visibilities[i%len(visibilities)],
			}
			if i%2 == 0 {
				input.CategoryID = category.ID
			}
			if _, err := posts.Create(ctx, viewer, input); err != nil {
				log.Error("Failed to create post %d for %s: %v", i+1, account.Username, err)
			}
		}
	}

	// Neighbours follow each other, so every account has mutual followers
	// and mutual-only posts have an audience.
	for i := range accountIDs {
		for _, j := range []int{i - 1, i + 1} {
			if j < 0 || j >= len(accountIDs) {
				continue
			}
			if _, err := follows.Follow(ctx, accountIDs[i], accountIDs[j]); err != nil && !errors.Is(err, entity.ErrAlreadyFollowing) {
				log.Error("Failed to create follow: %v", err)
			}
		}
	}

	var followCount int64
	db.Model(&models.Follow{}).Count(&followCount)
	log.Info("Seeded %d follows", followCount)
	return nil
}

// catImage fetches a picture from CATAAS and uploads it through the post use
// case, returning the Markdown snippet that embeds it.
func catImage(ctx context.Context, httpClient *http.Client, posts usecase.PostUseCase, viewer entity.Viewer, username string, index int, log *logger.Logger) (string, error) {
	cataasURL := "https://cataas.com/cat"
	if index%2 == 0 {
		cataasURL += fmt.Sprintf("/says/Hello from %s", username)
	}

	log.Info("Fetching cat image from %s", cataasURL)
	resp, err := httpClient.Get(cataasURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch cat image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cataas API returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}
	if len(imageData) == 0 {
		return "", fmt.Errorf("received empty image data")
	}

	_, snippet, err := posts.UploadImage(
		ctx,
		viewer,
		fmt.Sprintf("seed_%d.jpg", index),
		"image/jpeg",
		int64(len(imageData)),
		bytes.NewReader(imageData),
	)
	return snippet, err
}
