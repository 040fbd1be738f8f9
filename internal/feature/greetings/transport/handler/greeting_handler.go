// Package handler provides HTTP handlers for the greetings feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"greetings_backend/internal/feature/greetings/domain/entity"
	"greetings_backend/internal/feature/greetings/transport/http/dto"
	"greetings_backend/internal/feature/greetings/usecase"
	jwtmw "greetings_backend/internal/platform/jwt"
)

// GreetingUsecase defines the greeting operations used by this handler.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type GreetingUsecase interface {
	Create(ctx context.Context, authorID uint, in usecase.NewGreeting) (*entity.Greeting, error)
	GetByID(ctx context.Context, id uint) (*entity.Greeting, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) (*usecase.GreetingPage, error)
	Update(ctx context.Context, requesterID, id uint, in usecase.GreetingUpdate) (*entity.Greeting, error)
	Delete(ctx context.Context, requesterID uint, requesterRole string, id uint) error
	Suggest(ctx context.Context, recipientName, tone string) (string, error)
}

// GreetingHandler handles HTTP requests for greeting posts.
type GreetingHandler struct {
	greetings GreetingUsecase
}

// NewGreetingHandler creates a new instance of GreetingHandler.
func NewGreetingHandler(greetings GreetingUsecase) *GreetingHandler {
	return &GreetingHandler{greetings: greetings}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// Create handles POST /greetings.
func (h *GreetingHandler) Create(c *gin.Context) {
	var req dto.CreateGreetingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	authorID := c.GetUint(jwtmw.ContextUserID)
	g, err := h.greetings.Create(c.Request.Context(), authorID, usecase.NewGreeting{
		RecipientName: req.RecipientName,
		Message:       req.Message,
		MediaKeys:     req.MediaKeys,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrMediaRejected) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "attached media was rejected"})
			return
		}
		slog.Warn("greeting create failed", "error", err, "author_id", authorID)
		c.JSON(http.StatusBadRequest, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, g)
}

// Get handles GET /greetings/:id.
func (h *GreetingHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	g, err := h.greetings.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrGreetingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "greeting not found"})
			return
		}
		slog.Error("greeting lookup failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, g)
}

// List handles GET /greetings: the authenticated user's own feed, newest first.
func (h *GreetingHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	authorID := c.GetUint(jwtmw.ContextUserID)
	page, err := h.greetings.ListByAuthor(c.Request.Context(), authorID, limit, offset)
	if err != nil {
		slog.Error("greeting listing failed", "error", err, "author_id", authorID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// Update handles PATCH /greetings/:id.
func (h *GreetingHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateGreetingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	requesterID := c.GetUint(jwtmw.ContextUserID)
	g, err := h.greetings.Update(c.Request.Context(), requesterID, id, usecase.GreetingUpdate{
		RecipientName: req.RecipientName,
		Message:       req.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrGreetingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "greeting not found"})
		case errors.Is(err, usecase.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "not the author"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "update failed"})
		}
		return
	}
	c.JSON(http.StatusOK, g)
}

// Delete handles DELETE /greetings/:id.
func (h *GreetingHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	requesterID := c.GetUint(jwtmw.ContextUserID)
	requesterRole := c.GetString(jwtmw.ContextUserRole)
	if err := h.greetings.Delete(c.Request.Context(), requesterID, requesterRole, id); err != nil {
		switch {
		case errors.Is(err, usecase.ErrGreetingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "greeting not found"})
		case errors.Is(err, usecase.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "not the author"})
		default:
			slog.Error("greeting delete failed", "error", err, "id", id)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// Suggest handles POST /greetings/suggest.
func (h *GreetingHandler) Suggest(c *gin.Context) {
	var req dto.SuggestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	text, err := h.greetings.Suggest(c.Request.Context(), req.RecipientName, req.Tone)
	if err != nil {
		slog.Warn("greeting suggestion failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "suggestion failed"})
		return
	}
	c.JSON(http.StatusOK, dto.SuggestRes{Message: text})
}
