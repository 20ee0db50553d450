package service

import (
	"context"
	"errors"
	"sync"

	sellerserrors "scheduleflow/internal/sellers/errors"
	"scheduleflow/internal/sellers/repository"
	"scheduleflow/pkg/config"
	apperrors "scheduleflow/pkg/errors"
	"scheduleflow/pkg/model"
	"scheduleflow/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
)

// Placeholder profile stored when a user picks the seller role. Onboarding
// replaces these values.
const (
	skeletonName        = "New Seller"
	skeletonTitle       = "Professional"
	skeletonDescription = "This seller has not completed onboarding yet."
	skeletonImage       = "https://placehold.co/256x256"
)

type SellerService interface {
	GetByID(ctx context.Context, id string) (*model.Seller, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Seller, int64, error)
	Update(ctx context.Context, id string, updates *model.SellerUpdate) (*model.Seller, error)
	CreateSkeleton(ctx context.Context, id string) error
	FindByNames(ctx context.Context, names []string) ([]*model.Seller, error)
}

type sellerService struct {
	repo     repository.SellerRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewSellerService(repo repository.SellerRepository, cfg *config.Config) SellerService {
	return &sellerService{
		repo:     repo,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *sellerService) GetByID(ctx context.Context, id string) (*model.Seller, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Seller ID cannot be empty")
	}

	seller, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sellerserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Seller", id)
		}
		return nil, apperrors.Internal("Failed to retrieve seller", err)
	}

	return seller, nil
}

func (s *sellerService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Seller, int64, error) {
	var count int64
	var sellers []*model.Seller
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count sellers", "error", errCount)
			errCount = apperrors.Internal("Failed to count sellers", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		sellers, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list sellers", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve sellers", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return sellers, count, nil
}

// Update applies a partial profile edit. Text fields are sanitized before
// validation so whitespace padding cannot defeat the length limits.
func (s *sellerService) Update(ctx context.Context, id string, updates *model.SellerUpdate) (*model.Seller, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Seller ID cannot be empty")
	}
	if updates == nil {
		return nil, apperrors.InvalidInput("Update body is required")
	}

	updates.Name = sanitizer.SanitizeName(updates.Name)
	updates.Title = sanitizer.SanitizeName(updates.Title)
	updates.Description = sanitizer.SanitizeDescription(updates.Description)
	if updates.Image != "" {
		updates.Image = sanitizer.SanitizeURL(updates.Image)
		if updates.Image == "" {
			return nil, apperrors.InvalidInput("Image must be an absolute http(s) URL")
		}
	}

	if err := s.validate.Struct(updates); err != nil {
		return nil, apperrors.Validation("Seller update failed validation", map[string]any{
			"error": err.Error(),
		})
	}

	set := bson.M{}
	if updates.Name != "" {
		set["name"] = updates.Name
	}
	if updates.Title != "" {
		set["title"] = updates.Title
	}
	if updates.Description != "" {
		set["description"] = updates.Description
	}
	if updates.Image != "" {
		set["image"] = updates.Image
	}
	if len(set) == 0 {
		return nil, apperrors.InvalidInput("Update contains no fields")
	}

	if err := s.repo.Update(ctx, id, set); err != nil {
		if errors.Is(err, sellerserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Seller", id)
		}
		s.cfg.Log.Error("Failed to update seller", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update seller", err)
	}

	s.cfg.Log.Info("Seller profile updated", "id", id)
	return s.GetByID(ctx, id)
}

// CreateSkeleton stores the placeholder profile for a user who just chose
// the seller role. Safe to call inside a transaction context.
func (s *sellerService) CreateSkeleton(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Seller ID cannot be empty")
	}

	seller := &model.Seller{
		ID:          id,
		Name:        skeletonName,
		Title:       skeletonTitle,
		Description: skeletonDescription,
		Image:       skeletonImage,
	}

	if err := s.repo.Create(ctx, seller); err != nil {
		if errors.Is(err, sellerserrors.ErrAlreadyExists) {
			return apperrors.Conflict("Seller profile already exists")
		}
		return apperrors.Internal("Failed to create seller profile", err)
	}

	s.cfg.Log.Info("Seller skeleton created", "id", id)
	return nil
}

func (s *sellerService) FindByNames(ctx context.Context, names []string) ([]*model.Seller, error) {
	sellers, err := s.repo.FindByNames(ctx, names)
	if err != nil {
		return nil, apperrors.Internal("Failed to match sellers by name", err)
	}
	return sellers, nil
}
