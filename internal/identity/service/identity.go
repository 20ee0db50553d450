package service

import (
	"context"
	"errors"

	identityerrors "scheduleflow/internal/identity/errors"
	"scheduleflow/internal/identity/repository"
	sellersvc "scheduleflow/internal/sellers/service"
	"scheduleflow/pkg/config"
	apperrors "scheduleflow/pkg/errors"
	"scheduleflow/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// Routes the frontend switches on after resolving a session.
const (
	RouteSelectRole       = "select_role"
	RouteBuyerDashboard   = "buyer_dashboard"
	RouteSellerOnboarding = "seller_onboarding"
	RouteSellerDashboard  = "seller_dashboard"
)

// Session is the resolved state of an authenticated user: who they are,
// which role they play, and where the client should send them next.
type Session struct {
	UserID         string     `json:"user_id"`
	Email          string     `json:"email"`
	Role           model.Role `json:"role"`
	Route          string     `json:"route"`
	CalendarLinked bool       `json:"calendar_linked"`
}

type IdentityService interface {
	Resolve(ctx context.Context, subject string, email string) (*Session, error)
	SetRole(ctx context.Context, subject string, role model.Role) (*Session, error)
	StoreCredential(ctx context.Context, subject string, accessToken string) error
	AccessToken(ctx context.Context, sellerID string) (string, error)
}

type identityService struct {
	repo    repository.UserRepository
	sellers sellersvc.SellerService
	cfg     *config.Config
}

func NewIdentityService(repo repository.UserRepository, sellers sellersvc.SellerService, cfg *config.Config) IdentityService {
	return &identityService{
		repo:    repo,
		sellers: sellers,
		cfg:     cfg,
	}
}

// Resolve loads the user behind a verified identity, creating the record on
// first sight. The returned route tells the client where this user belongs.
func (s *identityService) Resolve(ctx context.Context, subject string, email string) (*Session, error) {
	if subject == "" {
		return nil, apperrors.Unauthorized("Session requires a verified identity")
	}

	user, err := s.repo.FindByID(ctx, subject)
	if err != nil {
		if !errors.Is(err, identityerrors.ErrNotFound) {
			return nil, apperrors.Internal("Failed to resolve session", err)
		}

		user = &model.User{ID: subject, Email: email, Role: model.RoleUnset}
		if createErr := s.repo.Create(ctx, user); createErr != nil {
			// Lost a first-sign-in race; the other request created the doc.
			user, err = s.repo.FindByID(ctx, subject)
			if err != nil {
				return nil, apperrors.Internal("Failed to create user", createErr)
			}
		} else {
			s.cfg.Log.Info("User created on first sign-in", "user_id", subject)
		}
	}

	return s.sessionFor(user), nil
}

// SetRole records the user's one-time role choice. Choosing the seller role
// also creates the skeleton profile, in the same transaction, so a seller
// never exists without a browsable profile.
func (s *identityService) SetRole(ctx context.Context, subject string, role model.Role) (*Session, error) {
	if subject == "" {
		return nil, apperrors.Unauthorized("Session requires a verified identity")
	}
	if !role.Valid() {
		return nil, apperrors.InvalidInput("Role must be buyer or seller")
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.SetRole(sessCtx, subject, role); err != nil {
			return err
		}
		if role == model.RoleSeller {
			if err := s.sellers.CreateSkeleton(sessCtx, subject); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, identityerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", subject)
		}
		if errors.Is(err, identityerrors.ErrRoleAlreadySet) {
			return nil, apperrors.Conflict("Role has already been chosen")
		}
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Failed to set role", "user_id", subject, "role", role, "error", err)
		return nil, apperrors.Internal("Failed to set role", err)
	}

	s.cfg.Log.Info("Role chosen", "user_id", subject, "role", role)

	user, err := s.repo.FindByID(ctx, subject)
	if err != nil {
		return nil, apperrors.Internal("Failed to reload user", err)
	}
	return s.sessionFor(user), nil
}

// StoreCredential saves the calendar access token a seller granted during
// onboarding. Buyers have no calendar to link.
func (s *identityService) StoreCredential(ctx context.Context, subject string, accessToken string) error {
	if subject == "" {
		return apperrors.Unauthorized("Session requires a verified identity")
	}
	if accessToken == "" {
		return apperrors.InvalidInput("Access token cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, identityerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("User", subject)
		}
		return apperrors.Internal("Failed to load user", err)
	}
	if user.Role != model.RoleSeller {
		return apperrors.Forbidden("Only sellers link a calendar")
	}

	if err := s.repo.SetAccessToken(ctx, subject, accessToken); err != nil {
		s.cfg.Log.Error("Failed to store credential", "user_id", subject, "error", err)
		return apperrors.Internal("Failed to store credential", err)
	}

	s.cfg.Log.Info("Calendar credential stored", "user_id", subject)
	return nil
}

// AccessToken resolves the stored calendar token for a seller. Returns a
// credential-missing error when the seller never linked a calendar.
func (s *identityService) AccessToken(ctx context.Context, sellerID string) (string, error) {
	if sellerID == "" {
		return "", apperrors.InvalidInput("Seller ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, identityerrors.ErrNotFound) {
			return "", apperrors.CredentialMissing(sellerID)
		}
		return "", apperrors.Internal("Failed to load seller credential", err)
	}
	if user.AccessToken == "" {
		return "", apperrors.CredentialMissing(sellerID)
	}

	return user.AccessToken, nil
}

func (s *identityService) sessionFor(user *model.User) *Session {
	session := &Session{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}

	switch user.Role {
	case model.RoleBuyer:
		session.Route = RouteBuyerDashboard
	case model.RoleSeller:
		session.CalendarLinked = user.AccessToken != ""
		if session.CalendarLinked {
			session.Route = RouteSellerDashboard
		} else {
			session.Route = RouteSellerOnboarding
		}
	default:
		session.Route = RouteSelectRole
	}

	return session
}
