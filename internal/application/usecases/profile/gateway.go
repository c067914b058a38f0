// Package profile - операции над профилями кандидатов и рекрутеров.
package profile

import (
	"context"

	"github.com/Haleralex/jobportal/internal/application/action"
	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/domain/entities"
)

// Failure messages.
const (
	MsgCreateFailed           = "Failed to create profile. Please try again."
	MsgFetchFailed            = "Failed to fetch profile."
	MsgUpdateFailed           = "Failed to update profile. Please try again."
	MsgCandidateDetailsFailed = "Failed to fetch candidate details."
)

// Gateway - доступ к коллекции profiles.
type Gateway struct {
	exec *action.Executor
}

// NewGateway создаёт gateway.
func NewGateway(exec *action.Executor) *Gateway {
	return &Gateway{exec: exec}
}

// Create сохраняет профиль и инвалидирует path.
func (g *Gateway) Create(ctx context.Context, data ports.Document, path string) action.Result[*entities.Profile] {
	return action.Create[entities.Profile](ctx, g.exec, action.Operation{
		Name:    "createProfile",
		Schema:  entities.ProfileSchema,
		Payload: data,
		Path:    path,
		Message: MsgCreateFailed,
	})
}

// Fetch возвращает профиль пользователя userID или nil.
func (g *Gateway) Fetch(ctx context.Context, userID string) action.Result[*entities.Profile] {
	return action.FindOne[entities.Profile](ctx, g.exec, action.Operation{
		Name:    "fetchProfile",
		Schema:  entities.ProfileSchema,
		Filter:  ports.Filter{ports.Eq("userId", userID)},
		Message: MsgFetchFailed,
	})
}

// Update применяет data к профилю data["_id"]. Сам _id в патч не попадает.
func (g *Gateway) Update(ctx context.Context, data ports.Document, path string) action.Result[*entities.Profile] {
	return action.FindOneAndUpdate[entities.Profile](ctx, g.exec, action.Operation{
		Name:    "updateProfile",
		Schema:  entities.ProfileSchema,
		Filter:  action.ByID(data),
		Payload: data,
		Path:    path,
		Message: MsgUpdateFailed,
	})
}

// CandidateDetails возвращает профиль кандидата для страницы рекрутера.
func (g *Gateway) CandidateDetails(ctx context.Context, userID string) action.Result[*entities.Profile] {
	return action.FindOne[entities.Profile](ctx, g.exec, action.Operation{
		Name:    "getCandidateDetails",
		Schema:  entities.ProfileSchema,
		Filter:  ports.Filter{ports.Eq("userId", userID)},
		Message: MsgCandidateDetailsFailed,
	})
}
