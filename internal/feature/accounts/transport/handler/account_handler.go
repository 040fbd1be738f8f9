package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"greetings_backend/internal/feature/accounts/domain"
	"greetings_backend/internal/feature/accounts/domain/entity"
	"greetings_backend/internal/feature/accounts/transport/http/dto"
	"greetings_backend/internal/feature/accounts/usecase"
	jwtmw "greetings_backend/internal/platform/jwt"
)

// AccountUsecase はアカウント管理操作のユースケースを定義します。
type AccountUsecase interface {
	// GetByID はIDでユーザーを取得します。
	GetByID(ctx context.Context, id uint) (*entity.User, error)
	// ResendConfirmation は確認コードを再生成・再送信します。
	ResendConfirmation(ctx context.Context, id uint) error
	// VerifyEmail は確認コードを検証し、成功時に確認済み状態のユーザーを返します。
	VerifyEmail(ctx context.Context, id uint, code string) (*entity.User, error)
	// Update は指定フィールドのみを更新します。
	Update(ctx context.Context, id uint, in usecase.AccountUpdate) (*entity.User, error)
	// Delete は指定IDのユーザーを物理削除します。
	Delete(ctx context.Context, id uint) error
	// List はページング付きユーザー一覧を返します。
	List(ctx context.Context, query usecase.ListQuery) (*usecase.AccountPage, error)
}

// AccountHandler はアカウント管理操作のHTTPリクエストを処理します。
type AccountHandler struct {
	accounts AccountUsecase
}

// NewAccountHandler はAccountHandlerの新しいインスタンスを生成します。
func NewAccountHandler(accounts AccountUsecase) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// pathID は:idパスパラメータを解析します。
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// canManage は対象アカウントへの操作が本人または管理者によるものかを検査します。
func canManage(c *gin.Context, id uint) bool {
	return c.GetUint(jwtmw.ContextUserID) == id ||
		c.GetString(jwtmw.ContextUserRole) == jwtmw.RoleAdmin
}

// Get はIDでアカウントを取得します。本人または管理者のみ参照できます。
func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canManage(c, id) {
		c.JSON(http.StatusForbidden, dto.ErrorRes{Error: "forbidden"})
		return
	}
	user, err := h.accounts.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "user not found"})
			return
		}
		slog.Error("account lookup failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal error"})
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// ResendConfirmation は確認コードの再送信エンドポイントを処理します。
func (h *AccountHandler) ResendConfirmation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.accounts.ResendConfirmation(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "user not found"})
		case errors.Is(err, domain.ErrAlreadyConfirmed):
			c.JSON(http.StatusConflict, dto.ErrorRes{Error: "email already confirmed"})
		default:
			slog.Error("confirmation resend failed", "error", err, "id", id)
			c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: "confirmation code sent"})
}

// VerifyEmail は確認コードの検証エンドポイントを処理します。
// コード不一致と期限切れは区別せず、いずれも422を返します。
func (h *AccountHandler) VerifyEmail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.VerifyEmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}
	user, err := h.accounts.VerifyEmail(c.Request.Context(), id, req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOrExpiredCode) {
			c.JSON(http.StatusUnprocessableEntity, dto.ErrorRes{Error: "invalid or expired code"})
			return
		}
		slog.Error("email verification failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal error"})
		return
	}
	slog.Info("email confirmed", "id", id)
	c.JSON(http.StatusOK, user.Public())
}

// Update はアカウントの部分更新エンドポイントを処理します。
// 本人または管理者のみ更新でき、ロール変更は管理者に限定されます。
func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canManage(c, id) {
		c.JSON(http.StatusForbidden, dto.ErrorRes{Error: "forbidden"})
		return
	}
	var req dto.UpdateAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}
	if req.Role != nil && c.GetString(jwtmw.ContextUserRole) != jwtmw.RoleAdmin {
		c.JSON(http.StatusForbidden, dto.ErrorRes{Error: "forbidden"})
		return
	}
	user, err := h.accounts.Update(c.Request.Context(), id, usecase.AccountUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "user not found"})
		case errors.Is(err, domain.ErrUnknownRole):
			c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "unknown role"})
		default:
			slog.Error("account update failed", "error", err, "id", id)
			c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// Delete はアカウントの削除エンドポイントを処理します。本人または管理者のみ削除できます。
func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canManage(c, id) {
		c.JSON(http.StatusForbidden, dto.ErrorRes{Error: "forbidden"})
		return
	}
	if err := h.accounts.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "user not found"})
			return
		}
		slog.Error("account delete failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: "ok"})
}

// List は管理画面向けの一覧取得エンドポイントを処理します。
// limit/offset/search/roleをクエリパラメータで受け取ります。
func (h *AccountHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.accounts.List(c.Request.Context(), usecase.ListQuery{
		Limit:  limit,
		Offset: offset,
		Search: c.Query("search"),
		Role:   c.Query("role"),
	})
	if err != nil {
		slog.Error("account listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal error"})
		return
	}
	c.JSON(http.StatusOK, page)
}
