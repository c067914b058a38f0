// Package job - публикация и поиск вакансий.
package job

import (
	"context"
	"sort"
	"strings"

	"github.com/Haleralex/jobportal/internal/application/action"
	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/domain/entities"
)

// Failure messages.
const (
	MsgPostFailed    = "Failed to post job. Please try again."
	MsgFetchFailed   = "Failed to fetch jobs."
	MsgFiltersFailed = "Failed to fetch filter data."
)

// Gateway - доступ к коллекции jobs.
type Gateway struct {
	exec *action.Executor
}

// NewGateway создаёт gateway.
func NewGateway(exec *action.Executor) *Gateway {
	return &Gateway{exec: exec}
}

// Post публикует вакансию.
func (g *Gateway) Post(ctx context.Context, data ports.Document, path string) action.Result[*entities.Job] {
	return action.Create[entities.Job](ctx, g.exec, action.Operation{
		Name:    "postNewJob",
		Schema:  entities.JobSchema,
		Payload: data,
		Path:    path,
		Message: MsgPostFailed,
	})
}

// ForRecruiter возвращает вакансии рекрутера.
func (g *Gateway) ForRecruiter(ctx context.Context, recruiterID string) action.Result[[]entities.Job] {
	return action.FindMany[entities.Job](ctx, g.exec, action.Operation{
		Name:    "fetchJobsForRecruiter",
		Schema:  entities.JobSchema,
		Filter:  ports.Filter{ports.Eq("recruiterId", recruiterID)},
		Message: MsgFetchFailed,
	})
}

// ForCandidate ищет вакансии по фильтрам кандидата: {"location": "Pune,Remote"}.
// Пустые значения не ограничивают выборку.
func (g *Gateway) ForCandidate(ctx context.Context, params map[string]string) action.Result[[]entities.Job] {
	return action.FindMany[entities.Job](ctx, g.exec, action.Operation{
		Name:    "fetchJobsForCandidate",
		Schema:  entities.JobSchema,
		Filter:  CandidateFilter(params),
		Message: MsgFetchFailed,
	})
}

// FilterCategories возвращает все вакансии; клиент строит из них варианты фильтров.
func (g *Gateway) FilterCategories(ctx context.Context) action.Result[[]entities.Job] {
	return action.FindMany[entities.Job](ctx, g.exec, action.Operation{
		Name:    "createFilterCategory",
		Schema:  entities.JobSchema,
		Message: MsgFiltersFailed,
	})
}

// CandidateFilter turns search params into set-membership conditions.
// Each value is split on ","; empty parts are dropped, and a key with no
// parts left is omitted. Keys are sorted so the filter is deterministic.
func CandidateFilter(params map[string]string) ports.Filter {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	filter := ports.Filter{}
	for _, key := range keys {
		var values []string
		for _, v := range strings.Split(params[key], ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		filter = append(filter, ports.In(key, values...))
	}
	return filter
}
