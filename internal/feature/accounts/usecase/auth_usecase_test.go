package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"greetings_backend/internal/feature/accounts/domain"
	"greetings_backend/internal/feature/accounts/domain/entity"
	"greetings_backend/internal/platform/oauth"
)

// mockJWTGenerator is a mock implementation of the JWTGenerator interface.
type mockJWTGenerator struct {
	GenerateTokenFunc func(userID uint, email, role string) (string, error)
}

func (m *mockJWTGenerator) GenerateToken(userID uint, email, role string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID, email, role)
	}
	return "mock-jwt-token", nil
}

// mockGoogleExchanger is a mock implementation of the GoogleExchanger interface.
type mockGoogleExchanger struct {
	GetConsentURLFunc func(state string) string
	ExchangeCodeFunc  func(ctx context.Context, code string) (*oauth.UserInfo, error)
}

func (m *mockGoogleExchanger) GetConsentURL(state string) string {
	if m.GetConsentURLFunc != nil {
		return m.GetConsentURLFunc(state)
	}
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (m *mockGoogleExchanger) ExchangeCode(ctx context.Context, code string) (*oauth.UserInfo, error) {
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code)
	}
	return nil, errors.New("exchange not configured")
}

func newAuthForTest(repo *mockUserRepository, jwtGen *mockJWTGenerator, google *mockGoogleExchanger) *authUsecase {
	accounts := NewAccountUsecase(repo, &mockMailer{}, 15*time.Minute)
	return NewAuthUsecase(accounts, jwtGen, google)
}

func TestAuthUsecase_Login(t *testing.T) {
	ctx := context.Background()

	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	confirmedUser := func() *entity.User {
		return &entity.User{
			ID:             1,
			Email:          "test@example.com",
			Password:       string(hashedPassword),
			Role:           entity.RoleUser,
			EmailConfirmed: true,
		}
	}

	t.Run("successful login returns a token pair and stores the refresh token", func(t *testing.T) {
		user := confirmedUser()
		var saved *entity.User
		mockRepo := &mockUserRepository{
			FindByIdentifierFunc: func(ctx context.Context, identifier string) (*entity.User, error) {
				if identifier == user.Email {
					return user, nil
				}
				return nil, domain.ErrUserNotFound
			},
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.User, error) {
				return user, nil
			},
			SaveFunc: func(ctx context.Context, u *entity.User) error {
				saved = u
				return nil
			},
		}
		mockJWT := &mockJWTGenerator{
			GenerateTokenFunc: func(userID uint, email, role string) (string, error) {
				if userID != user.ID || email != user.Email || role != entity.RoleUser {
					t.Errorf("unexpected claims: userID=%d email=%s role=%s", userID, email, role)
				}
				return "mock-jwt-token", nil
			},
		}

		uc := newAuthForTest(mockRepo, mockJWT, &mockGoogleExchanger{})
		pair, err := uc.Login(ctx, "test@example.com", password)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pair.AccessToken != "mock-jwt-token" {
			t.Errorf("unexpected access token: %s", pair.AccessToken)
		}
		if pair.RefreshToken == "" {
			t.Error("refresh token is empty")
		}
		if saved == nil || saved.RefreshToken == nil || *saved.RefreshToken != pair.RefreshToken {
			t.Error("refresh token was not persisted")
		}
	})

	t.Run("user not found", func(t *testing.T) {
		uc := newAuthForTest(&mockUserRepository{}, &mockJWTGenerator{}, &mockGoogleExchanger{})
		_, err := uc.Login(ctx, "wrong@example.com", password)
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got: %v", err)
		}
	})

	t.Run("incorrect password", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByIdentifierFunc: func(ctx context.Context, identifier string) (*entity.User, error) {
				return confirmedUser(), nil
			},
		}

		uc := newAuthForTest(mockRepo, &mockJWTGenerator{}, &mockGoogleExchanger{})
		_, err := uc.Login(ctx, "test@example.com", "wrong-password")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got: %v", err)
		}
	})

	t.Run("federated account cannot log in with a password", func(t *testing.T) {
		googleID := "g-123"
		mockRepo := &mockUserRepository{
			FindByIdentifierFunc: func(ctx context.Context, identifier string) (*entity.User, error) {
				return &entity.User{ID: 2, Email: "fed@example.com", GoogleID: &googleID, EmailConfirmed: true}, nil
			},
		}

		uc := newAuthForTest(mockRepo, &mockJWTGenerator{}, &mockGoogleExchanger{})
		_, err := uc.Login(ctx, "fed@example.com", password)
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got: %v", err)
		}
	})

	t.Run("unconfirmed account is rejected with a distinct error", func(t *testing.T) {
		user := confirmedUser()
		user.EmailConfirmed = false
		mockRepo := &mockUserRepository{
			FindByIdentifierFunc: func(ctx context.Context, identifier string) (*entity.User, error) {
				return user, nil
			},
		}

		uc := newAuthForTest(mockRepo, &mockJWTGenerator{}, &mockGoogleExchanger{})
		_, err := uc.Login(ctx, "test@example.com", password)
		if !errors.Is(err, domain.ErrEmailNotConfirmed) {
			t.Errorf("expected ErrEmailNotConfirmed, got: %v", err)
		}
	})

	t.Run("JWT generation failure", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByIdentifierFunc: func(ctx context.Context, identifier string) (*entity.User, error) {
				return confirmedUser(), nil
			},
		}
		mockJWT := &mockJWTGenerator{
			GenerateTokenFunc: func(userID uint, email, role string) (string, error) {
				return "", errors.New("failed to sign token")
			},
		}

		uc := newAuthForTest(mockRepo, mockJWT, &mockGoogleExchanger{})
		if _, err := uc.Login(ctx, "test@example.com", password); err == nil {
			t.Fatal("expected error but got nil")
		}
	})
}

func TestAuthUsecase_LoginGoogle(t *testing.T) {
	ctx := context.Background()
	info := &oauth.UserInfo{ID: "g-123", Email: "fed@example.com", FirstName: "Taro"}

	t.Run("first login creates a confirmed account", func(t *testing.T) {
		googleID := "g-123"
		var created *entity.User
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				user.ID = 7
				created = user
				return nil
			},
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.User, error) {
				if created != nil && id == created.ID {
					return created, nil
				}
				return nil, domain.ErrUserNotFound
			},
		}
		google := &mockGoogleExchanger{
			ExchangeCodeFunc: func(ctx context.Context, code string) (*oauth.UserInfo, error) {
				return info, nil
			},
		}

		uc := newAuthForTest(mockRepo, &mockJWTGenerator{}, google)
		pair, err := uc.LoginGoogle(ctx, "auth-code")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created == nil {
			t.Fatal("account was not created")
		}
		if !created.EmailConfirmed {
			t.Error("google account must be created confirmed")
		}
		if created.GoogleID == nil || *created.GoogleID != googleID {
			t.Errorf("google id not stored: %v", created.GoogleID)
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" {
			t.Error("token pair is incomplete")
		}
	})

	t.Run("returning user logs in without creating", func(t *testing.T) {
		googleID := "g-123"
		existing := &entity.User{ID: 7, Email: "fed@example.com", GoogleID: &googleID, EmailConfirmed: true}
		createCalled := false
		mockRepo := &mockUserRepository{
			FindByGoogleIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
				return existing, nil
			},
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.User, error) {
				return existing, nil
			},
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				createCalled = true
				return nil
			},
		}
		google := &mockGoogleExchanger{
			ExchangeCodeFunc: func(ctx context.Context, code string) (*oauth.UserInfo, error) {
				return info, nil
			},
		}

		uc := newAuthForTest(mockRepo, &mockJWTGenerator{}, google)
		if _, err := uc.LoginGoogle(ctx, "auth-code"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if createCalled {
			t.Error("existing account must not be recreated")
		}
	})

	t.Run("exchange failure", func(t *testing.T) {
		uc := newAuthForTest(&mockUserRepository{}, &mockJWTGenerator{}, &mockGoogleExchanger{})
		if _, err := uc.LoginGoogle(ctx, "bad-code"); err == nil {
			t.Fatal("expected error but got nil")
		}
	})
}

func TestAuthUsecase_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token rotates the pair", func(t *testing.T) {
		token := "old-refresh"
		user := &entity.User{ID: 1, Email: "test@example.com", RefreshToken: &token, EmailConfirmed: true}
		var saved *entity.User
		mockRepo := &mockUserRepository{
			FindByRefreshTokenFunc: func(ctx context.Context, tok string) (*entity.User, error) {
				if tok == token {
					return user, nil
				}
				return nil, domain.ErrUserNotFound
			},
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.User, error) {
				return user, nil
			},
			SaveFunc: func(ctx context.Context, u *entity.User) error {
				saved = u
				return nil
			},
		}

		uc := newAuthForTest(mockRepo, &mockJWTGenerator{}, &mockGoogleExchanger{})
		pair, err := uc.Refresh(ctx, "old-refresh")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pair.RefreshToken == "old-refresh" {
			t.Error("refresh token was not rotated")
		}
		if saved == nil || saved.RefreshToken == nil || *saved.RefreshToken != pair.RefreshToken {
			t.Error("rotated token was not persisted")
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		uc := newAuthForTest(&mockUserRepository{}, &mockJWTGenerator{}, &mockGoogleExchanger{})
		if _, err := uc.Refresh(ctx, "stale"); !errors.Is(err, domain.ErrInvalidRefreshToken) {
			t.Errorf("expected ErrInvalidRefreshToken, got: %v", err)
		}
	})

	t.Run("empty token", func(t *testing.T) {
		uc := newAuthForTest(&mockUserRepository{}, &mockJWTGenerator{}, &mockGoogleExchanger{})
		if _, err := uc.Refresh(ctx, ""); !errors.Is(err, domain.ErrInvalidRefreshToken) {
			t.Errorf("expected ErrInvalidRefreshToken, got: %v", err)
		}
	})
}

func TestAuthUsecase_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("logout clears the stored token", func(t *testing.T) {
		var clearedID uint
		mockRepo := &mockUserRepository{
			ClearRefreshTokenFunc: func(ctx context.Context, id uint) error {
				clearedID = id
				return nil
			},
		}

		uc := newAuthForTest(mockRepo, &mockJWTGenerator{}, &mockGoogleExchanger{})
		if err := uc.Logout(ctx, 42); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if clearedID != 42 {
			t.Errorf("expected clear for user 42, got %d", clearedID)
		}
	})
}
