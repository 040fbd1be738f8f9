// Package handler はaccountsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"greetings_backend/internal/feature/accounts/domain"
	"greetings_backend/internal/feature/accounts/domain/entity"
	"greetings_backend/internal/feature/accounts/transport/http/dto"
	"greetings_backend/internal/feature/accounts/usecase"
	jwtmw "greetings_backend/internal/platform/jwt"
)

// oauthStateCookie holds the CSRF state between consent redirect and callback.
const oauthStateCookie = "oauth_state"

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は新規ローカルアカウントを登録します。
	Signup(ctx context.Context, in usecase.NewAccount) (*entity.User, error)
	// Login はユーザーを認証し、成功時にトークンの組を返します。
	Login(ctx context.Context, identifier, password string) (*usecase.TokenPair, error)
	// GoogleConsentURL はGoogleの同意画面URLを返します。
	GoogleConsentURL(state string) string
	// LoginGoogle は認可コードを交換し、対応するアカウントでログインします。
	LoginGoogle(ctx context.Context, code string) (*usecase.TokenPair, error)
	// Refresh はリフレッシュトークンを検証し、トークンの組をローテーションします。
	Refresh(ctx context.Context, refreshToken string) (*usecase.TokenPair, error)
	// Logout は保存されたリフレッシュトークンを無効化します。
	Logout(ctx context.Context, userID uint) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - ユーザー作成失敗時（メール重複等）は409を返却
// - 成功時は作成されたアカウントとともに201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}
	user, err := h.auth.Signup(c.Request.Context(), usecase.NewAccount{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
		slog.Warn("signup failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, dto.ErrorRes{Error: "signup failed"})
		return
	}
	slog.Info("user signup successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, user.Public())
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - 認証失敗時は401を返却
// - メール未確認のローカルアカウントは403を返却
// - 認証成功時はトークンの組とともに200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}
	tokens, err := h.auth.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailNotConfirmed) {
			c.JSON(http.StatusForbidden, dto.ErrorRes{Error: "email not confirmed"})
			return
		}
		// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
		slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "invalid credentials"})
		return
	}
	slog.Info("user login successful", "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, tokens)
}

// GoogleLogin はGoogleの同意画面へリダイレクトします。
// CSRF対策のstateはクッキーに保存し、コールバックで照合します。
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.auth.GoogleConsentURL(state))
}

// GoogleCallback は認可コードを受け取り、ログインを完了します。
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || c.Query("state") != state {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid oauth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "missing authorization code"})
		return
	}

	tokens, err := h.auth.LoginGoogle(c.Request.Context(), code)
	if err != nil {
		slog.Warn("google login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "google login failed"})
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// Refresh はリフレッシュトークンAPIエンドポイントを処理します。
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}
	tokens, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		slog.Warn("token refresh failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// Logout は認証済みユーザーのリフレッシュトークンを無効化します。
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)
	if err := h.auth.Logout(c.Request.Context(), userID); err != nil {
		slog.Error("logout failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "logout failed"})
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: "ok"})
}
