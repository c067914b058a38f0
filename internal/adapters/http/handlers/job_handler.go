// Package handlers - Job HTTP handlers.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/jobportal/internal/adapters/http/common"
	"github.com/Haleralex/jobportal/internal/application/action"
	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/domain/entities"
)

// JobService - операции над вакансиями.
type JobService interface {
	Post(ctx context.Context, data ports.Document, path string) action.Result[*entities.Job]
	ForRecruiter(ctx context.Context, recruiterID string) action.Result[[]entities.Job]
	ForCandidate(ctx context.Context, params map[string]string) action.Result[[]entities.Job]
	FilterCategories(ctx context.Context) action.Result[[]entities.Job]
}

// JobHandler обрабатывает HTTP запросы для вакансий.
type JobHandler struct {
	jobs JobService
}

// NewJobHandler создаёт новый JobHandler.
func NewJobHandler(jobs JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// PostJob публикует вакансию.
//
// @Router /api/v1/jobs [post]
func (h *JobHandler) PostJob(c *gin.Context) {
	var req MutationRequest
	if !BindJSON(c, &req) {
		return
	}
	common.Render(c, http.StatusCreated, h.jobs.Post(c.Request.Context(), req.Data, req.RevalidatePath))
}

// ListRecruiterJobs возвращает вакансии рекрутера.
//
// @Router /api/v1/recruiters/{id}/jobs [get]
func (h *JobHandler) ListRecruiterJobs(c *gin.Context) {
	recruiterID, ok := PathParam(c, "id")
	if !ok {
		return
	}
	common.Render(c, http.StatusOK, h.jobs.ForRecruiter(c.Request.Context(), recruiterID))
}

// ListJobs возвращает вакансии для кандидата.
//
// Каждый query параметр - поле и список значений через запятую:
// ?type=Full%20Time,Internship&location=Pune. Повторённый параметр
// склеивается в один список.
//
// @Router /api/v1/jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	query := c.Request.URL.Query()
	params := make(map[string]string, len(query))
	for key, values := range query {
		params[key] = strings.Join(values, ",")
	}
	common.Render(c, http.StatusOK, h.jobs.ForCandidate(c.Request.Context(), params))
}

// FilterCategories возвращает данные для построения фильтров.
//
// @Router /api/v1/jobs/filters [get]
func (h *JobHandler) FilterCategories(c *gin.Context) {
	common.Render(c, http.StatusOK, h.jobs.FilterCategories(c.Request.Context()))
}
