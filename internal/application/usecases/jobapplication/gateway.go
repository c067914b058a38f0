// Package jobapplication - отклики кандидатов на вакансии.
package jobapplication

import (
	"context"

	"github.com/Haleralex/jobportal/internal/application/action"
	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/domain/entities"
)

// Failure messages.
const (
	MsgSubmitFailed = "Failed to submit application. Please try again."
	MsgFetchFailed  = "Failed to fetch applications."
	MsgUpdateFailed = "Failed to update application. Please try again."
)

// Gateway - доступ к коллекции applications.
type Gateway struct {
	exec *action.Executor
}

// NewGateway создаёт gateway.
func NewGateway(exec *action.Executor) *Gateway {
	return &Gateway{exec: exec}
}

// Create сохраняет отклик.
func (g *Gateway) Create(ctx context.Context, data ports.Document, path string) action.Result[*entities.Application] {
	return action.Create[entities.Application](ctx, g.exec, action.Operation{
		Name:    "createJobApplication",
		Schema:  entities.ApplicationSchema,
		Payload: data,
		Path:    path,
		Message: MsgSubmitFailed,
	})
}

// ForCandidate возвращает отклики кандидата.
func (g *Gateway) ForCandidate(ctx context.Context, candidateID string) action.Result[[]entities.Application] {
	return action.FindMany[entities.Application](ctx, g.exec, action.Operation{
		Name:    "fetchJobApplicationsForCandidate",
		Schema:  entities.ApplicationSchema,
		Filter:  ports.Filter{ports.Eq("candidateUserID", candidateID)},
		Message: MsgFetchFailed,
	})
}

// ForRecruiter возвращает отклики на вакансии рекрутера.
func (g *Gateway) ForRecruiter(ctx context.Context, recruiterID string) action.Result[[]entities.Application] {
	return action.FindMany[entities.Application](ctx, g.exec, action.Operation{
		Name:    "fetchJobApplicationsForRecruiter",
		Schema:  entities.ApplicationSchema,
		Filter:  ports.Filter{ports.Eq("recruiterUserID", recruiterID)},
		Message: MsgFetchFailed,
	})
}

// Update обновляет отклик data["_id"], обычно его статус.
func (g *Gateway) Update(ctx context.Context, data ports.Document, path string) action.Result[*entities.Application] {
	return action.FindOneAndUpdate[entities.Application](ctx, g.exec, action.Operation{
		Name:    "updateJobApplication",
		Schema:  entities.ApplicationSchema,
		Filter:  action.ByID(data),
		Payload: data,
		Path:    path,
		Message: MsgUpdateFailed,
	})
}
