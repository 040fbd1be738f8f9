package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"greetings_backend/internal/feature/accounts/domain"
	"greetings_backend/internal/feature/accounts/domain/entity"
	"greetings_backend/internal/platform/oauth"
)

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID uint, email, role string) (string, error)
}

// GoogleExchanger はOAuth2認可コードをGoogleプロフィールとTokenに交換します。
type GoogleExchanger interface {
	// GetConsentURL は同意画面のURLを返します。
	GetConsentURL(state string) string
	// ExchangeCode は認可コードをユーザープロフィールに交換します。
	ExchangeCode(ctx context.Context, code string) (*oauth.UserInfo, error)
}

// TokenPair はログイン成功時に発行されるトークンの組です。
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// authUsecase は認証フロー（ログイン・トークン更新・ログアウト）を実装します。
// データベースアクセスはすべてaccountUsecaseを経由します。
type authUsecase struct {
	accounts *accountUsecase
	jwtGen   JWTGenerator
	google   GoogleExchanger
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(accounts *accountUsecase, jwtGen JWTGenerator, google GoogleExchanger) *authUsecase {
	return &authUsecase{accounts: accounts, jwtGen: jwtGen, google: google}
}

// Signup は新規ローカルアカウントを登録します。確認コードはCreateが発行します。
func (a *authUsecase) Signup(ctx context.Context, in NewAccount) (*entity.User, error) {
	return a.accounts.Create(ctx, in)
}

// Login はユーザーを認証し、成功時にトークンの組を返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (a *authUsecase) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	user, err := a.accounts.FindForAuth(ctx, identifier)

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if err == nil && user.Password != "" {
		passwordHash = user.Password
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// ユーザー未検出・外部IDアカウント・パスワード不一致はすべて同一の汎用エラー
	if err != nil || user.Password == "" || compareErr != nil {
		return nil, domain.ErrInvalidCredentials
	}

	// ローカルアカウントはメールアドレスの確認完了までログイン不可
	if !user.EmailConfirmed {
		return nil, domain.ErrEmailNotConfirmed
	}

	return a.issueTokens(ctx, user)
}

// GoogleConsentURL はGoogleの同意画面URLを返します。
func (a *authUsecase) GoogleConsentURL(state string) string {
	return a.google.GetConsentURL(state)
}

// LoginGoogle は認可コードを交換し、対応するアカウントでログインします。
// 初回ログイン時はアカウントを確認済み状態で作成します。
func (a *authUsecase) LoginGoogle(ctx context.Context, code string) (*TokenPair, error) {
	info, err := a.google.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange failed: %w", err)
	}

	user, err := a.accounts.GetByGoogleID(ctx, info.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = a.accounts.CreateGoogle(ctx, NewGoogleAccount{
			GoogleID:  info.ID,
			Email:     info.Email,
			FirstName: info.FirstName,
			LastName:  info.LastName,
		})
	}
	if err != nil {
		return nil, err
	}

	return a.issueTokens(ctx, user)
}

// Refresh はリフレッシュトークンを検証し、トークンの組をローテーションして返します。
func (a *authUsecase) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.ErrInvalidRefreshToken
	}
	user, err := a.accounts.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, err
	}
	return a.issueTokens(ctx, user)
}

// Logout は保存されたリフレッシュトークンを無効化します。
func (a *authUsecase) Logout(ctx context.Context, userID uint) error {
	return a.accounts.RevokeRefreshToken(ctx, userID)
}

// issueTokens はアクセストークンを生成し、新しいリフレッシュトークンを保存します。
func (a *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*TokenPair, error) {
	access, err := a.jwtGen.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	refresh := uuid.NewString()
	if err := a.accounts.StoreRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
