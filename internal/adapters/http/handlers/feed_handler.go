// Package handlers - Feed HTTP handlers.
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

// FeedService - операции над постами ленты.
type FeedService interface {
	Create(ctx context.Context, data ports.Document, path string) action.Result[*entities.FeedPost]
	FetchAll(ctx context.Context) action.Result[[]entities.FeedPost]
	Update(ctx context.Context, data ports.Document, path string) action.Result[*entities.FeedPost]
}

// FeedHandler обрабатывает HTTP запросы для ленты.
type FeedHandler struct {
	feed FeedService
}

// NewFeedHandler создаёт новый FeedHandler.
func NewFeedHandler(feed FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// CreatePost публикует пост.
//
// @Router /api/v1/feed [post]
func (h *FeedHandler) CreatePost(c *gin.Context) {
	var req MutationRequest
	if !BindJSON(c, &req) {
		return
	}
	common.Render(c, http.StatusCreated, h.feed.Create(c.Request.Context(), req.Data, req.RevalidatePath))
}

// ListPosts возвращает все посты.
//
// @Router /api/v1/feed [get]
func (h *FeedHandler) ListPosts(c *gin.Context) {
	common.Render(c, http.StatusOK, h.feed.FetchAll(c.Request.Context()))
}

// UpdatePost обновляет пост (например, лайки) по data._id.
//
// @Router /api/v1/feed [put]
func (h *FeedHandler) UpdatePost(c *gin.Context) {
	var req MutationRequest
	if !BindJSON(c, &req) {
		return
	}
	common.Render(c, http.StatusOK, h.feed.Update(c.Request.Context(), req.Data, req.RevalidatePath))
}
