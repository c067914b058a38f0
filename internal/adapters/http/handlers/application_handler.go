// Package handlers - Job application HTTP handlers.
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

// ApplicationService - операции над откликами на вакансии.
type ApplicationService interface {
	Create(ctx context.Context, data ports.Document, path string) action.Result[*entities.Application]
	ForCandidate(ctx context.Context, candidateID string) action.Result[[]entities.Application]
	ForRecruiter(ctx context.Context, recruiterID string) action.Result[[]entities.Application]
	Update(ctx context.Context, data ports.Document, path string) action.Result[*entities.Application]
}

// ApplicationHandler обрабатывает HTTP запросы для откликов.
type ApplicationHandler struct {
	applications ApplicationService
}

// NewApplicationHandler создаёт новый ApplicationHandler.
func NewApplicationHandler(applications ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// CreateApplication сохраняет отклик кандидата.
//
// @Router /api/v1/applications [post]
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	var req MutationRequest
	if !BindJSON(c, &req) {
		return
	}
	common.Render(c, http.StatusCreated, h.applications.Create(c.Request.Context(), req.Data, req.RevalidatePath))
}

// ListCandidateApplications возвращает отклики кандидата.
//
// @Router /api/v1/candidates/{userId}/applications [get]
func (h *ApplicationHandler) ListCandidateApplications(c *gin.Context) {
	userID, ok := PathParam(c, "userId")
	if !ok {
		return
	}
	common.Render(c, http.StatusOK, h.applications.ForCandidate(c.Request.Context(), userID))
}

// ListRecruiterApplications возвращает отклики на вакансии рекрутера.
//
// @Router /api/v1/recruiters/{id}/applications [get]
func (h *ApplicationHandler) ListRecruiterApplications(c *gin.Context) {
	recruiterID, ok := PathParam(c, "id")
	if !ok {
		return
	}
	common.Render(c, http.StatusOK, h.applications.ForRecruiter(c.Request.Context(), recruiterID))
}

// UpdateApplication меняет отклик (обычно статус) по data._id.
//
// @Router /api/v1/applications [put]
func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	var req MutationRequest
	if !BindJSON(c, &req) {
		return
	}
	common.Render(c, http.StatusOK, h.applications.Update(c.Request.Context(), req.Data, req.RevalidatePath))
}
