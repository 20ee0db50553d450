package service

import (
	"context"
	"io"
	"testing"

	sellerserrors "scheduleflow/internal/sellers/errors"
	"scheduleflow/pkg/config"
	apperrors "scheduleflow/pkg/errors"
	"scheduleflow/pkg/logger"
	"scheduleflow/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	mongotx "scheduleflow/pkg/db/mongo"
)

type mockSellerRepo struct {
	createFn func(seller *model.Seller) error
	findFn   func(id string) (*model.Seller, error)
	updateFn func(id string, updates bson.M) error
}

func (m *mockSellerRepo) Create(_ context.Context, seller *model.Seller) error {
	if m.createFn != nil {
		return m.createFn(seller)
	}
	return nil
}

func (m *mockSellerRepo) FindByID(_ context.Context, id string) (*model.Seller, error) {
	if m.findFn != nil {
		return m.findFn(id)
	}
	return nil, sellerserrors.ErrNotFound
}

func (m *mockSellerRepo) FindAll(context.Context, int, int64) ([]*model.Seller, error) {
	return nil, nil
}

func (m *mockSellerRepo) FindByNames(context.Context, []string) ([]*model.Seller, error) {
	return nil, nil
}

func (m *mockSellerRepo) Update(_ context.Context, id string, updates bson.M) error {
	if m.updateFn != nil {
		return m.updateFn(id, updates)
	}
	return nil
}

func (m *mockSellerRepo) Count(context.Context) (int64, error) { return 0, nil }

func (m *mockSellerRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	var sessCtx mongo.SessionContext
	return fn(sessCtx)
}

func newTestSellerService(repo *mockSellerRepo) SellerService {
	return NewSellerService(repo, &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
	})
}

func TestCreateSkeleton_ValidPlaceholderProfile(t *testing.T) {
	var created *model.Seller
	repo := &mockSellerRepo{
		createFn: func(seller *model.Seller) error {
			created = seller
			return nil
		},
	}
	svc := newTestSellerService(repo)

	if err := svc.CreateSkeleton(context.Background(), "user-1"); err != nil {
		t.Fatalf("CreateSkeleton: %v", err)
	}
	if created == nil {
		t.Fatal("expected skeleton to be stored")
	}
	if created.ID != "user-1" {
		t.Errorf("expected ID user-1, got %s", created.ID)
	}
	if created.Name == "" || created.Title == "" || created.Description == "" || created.Image == "" {
		t.Errorf("skeleton must fill every required field, got %+v", created)
	}
}

func TestCreateSkeleton_DuplicateIsConflict(t *testing.T) {
	repo := &mockSellerRepo{
		createFn: func(*model.Seller) error { return sellerserrors.ErrAlreadyExists },
	}
	svc := newTestSellerService(repo)

	err := svc.CreateSkeleton(context.Background(), "user-1")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected %s, got %v", apperrors.CodeConflict, err)
	}
}

func TestUpdate_SanitizesAndStores(t *testing.T) {
	var gotSet bson.M
	repo := &mockSellerRepo{
		updateFn: func(_ string, updates bson.M) error {
			gotSet = updates
			return nil
		},
		findFn: func(id string) (*model.Seller, error) {
			return &model.Seller{ID: id, Name: "Jane Doe"}, nil
		},
	}
	svc := newTestSellerService(repo)

	_, err := svc.Update(context.Background(), "user-1", &model.SellerUpdate{
		Name:  "  Jane   Doe  ",
		Title: "Career\nCoach",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if gotSet["name"] != "Jane Doe" {
		t.Errorf("expected sanitized name, got %q", gotSet["name"])
	}
	if gotSet["title"] != "Career Coach" {
		t.Errorf("expected sanitized title, got %q", gotSet["title"])
	}
	if _, ok := gotSet["description"]; ok {
		t.Error("unset fields must not be written")
	}
}

func TestUpdate_RejectsBadInput(t *testing.T) {
	svc := newTestSellerService(&mockSellerRepo{})

	tests := []struct {
		name    string
		updates *model.SellerUpdate
	}{
		{"nil body", nil},
		{"only whitespace", &model.SellerUpdate{Name: "   "}},
		{"name too short", &model.SellerUpdate{Name: "J"}},
		{"bad image url", &model.SellerUpdate{Image: "not-a-url"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), "user-1", tt.updates)
			if err == nil {
				t.Fatal("expected error")
			}
			appErr := apperrors.AsAppError(err)
			if appErr == nil {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != apperrors.CodeInvalidInput && appErr.Code != apperrors.CodeValidation {
				t.Errorf("expected input error, got %s", appErr.Code)
			}
		})
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo := &mockSellerRepo{
		updateFn: func(string, bson.M) error { return sellerserrors.ErrNotFound },
	}
	svc := newTestSellerService(repo)

	_, err := svc.Update(context.Background(), "ghost", &model.SellerUpdate{Name: "Jane Doe"})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected %s, got %v", apperrors.CodeNotFound, err)
	}
}
