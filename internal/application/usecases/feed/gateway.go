// Package feed - лента постов сообщества.
package feed

import (
	"context"

	"github.com/Haleralex/jobportal/internal/application/action"
	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/domain/entities"
)

// Failure messages.
const (
	MsgCreateFailed = "Failed to create post."
	MsgFetchFailed  = "Failed to fetch posts."
	MsgUpdateFailed = "Failed to update post."
)

// Gateway - доступ к коллекции feeds.
type Gateway struct {
	exec *action.Executor
}

// NewGateway создаёт gateway.
func NewGateway(exec *action.Executor) *Gateway {
	return &Gateway{exec: exec}
}

// Create публикует пост.
func (g *Gateway) Create(ctx context.Context, data ports.Document, path string) action.Result[*entities.FeedPost] {
	return action.Create[entities.FeedPost](ctx, g.exec, action.Operation{
		Name:    "createFeedPost",
		Schema:  entities.FeedSchema,
		Payload: data,
		Path:    path,
		Message: MsgCreateFailed,
	})
}

// FetchAll возвращает все посты в порядке публикации.
func (g *Gateway) FetchAll(ctx context.Context) action.Result[[]entities.FeedPost] {
	return action.FindMany[entities.FeedPost](ctx, g.exec, action.Operation{
		Name:    "fetchAllFeedPosts",
		Schema:  entities.FeedSchema,
		Message: MsgFetchFailed,
	})
}

// Update обновляет пост data["_id"], например список лайков.
func (g *Gateway) Update(ctx context.Context, data ports.Document, path string) action.Result[*entities.FeedPost] {
	return action.FindOneAndUpdate[entities.FeedPost](ctx, g.exec, action.Operation{
		Name:    "updateFeedPost",
		Schema:  entities.FeedSchema,
		Filter:  action.ByID(data),
		Payload: data,
		Path:    path,
		Message: MsgUpdateFailed,
	})
}
