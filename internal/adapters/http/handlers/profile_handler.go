// Package handlers - Profile HTTP handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/jobportal/internal/adapters/http/common"
	"github.com/Haleralex/jobportal/internal/application/action"
	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/domain/entities"
)

// ProfileService - операции над профилями.
type ProfileService interface {
	Create(ctx context.Context, data ports.Document, path string) action.Result[*entities.Profile]
	Fetch(ctx context.Context, userID string) action.Result[*entities.Profile]
	Update(ctx context.Context, data ports.Document, path string) action.Result[*entities.Profile]
	CandidateDetails(ctx context.Context, userID string) action.Result[*entities.Profile]
}

// ProfileHandler обрабатывает HTTP запросы для профилей.
type ProfileHandler struct {
	profiles ProfileService
}

// NewProfileHandler создаёт новый ProfileHandler.
func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// CreateProfile создаёт профиль при онбординге.
//
// @Router /api/v1/profiles [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req MutationRequest
	if !BindJSON(c, &req) {
		return
	}
	common.Render(c, http.StatusCreated, h.profiles.Create(c.Request.Context(), req.Data, req.RevalidatePath))
}

// GetProfile возвращает профиль пользователя; data: null если профиля нет.
//
// @Router /api/v1/profiles/{userId} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := PathParam(c, "userId")
	if !ok {
		return
	}
	common.Render(c, http.StatusOK, h.profiles.Fetch(c.Request.Context(), userID))
}

// UpdateProfile обновляет профиль по data._id.
//
// @Router /api/v1/profiles [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req MutationRequest
	if !BindJSON(c, &req) {
		return
	}
	common.Render(c, http.StatusOK, h.profiles.Update(c.Request.Context(), req.Data, req.RevalidatePath))
}

// GetCandidateDetails возвращает профиль кандидата для рекрутера.
//
// @Router /api/v1/candidates/{userId} [get]
func (h *ProfileHandler) GetCandidateDetails(c *gin.Context) {
	userID, ok := PathParam(c, "userId")
	if !ok {
		return
	}
	common.Render(c, http.StatusOK, h.profiles.CandidateDetails(c.Request.Context(), userID))
}
