package handlers

import (
	"context"

	"github.com/Haleralex/jobportal/internal/application/action"
	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/domain/entities"
)

// ============================================
// Mock Services
// ============================================

type mockProfiles struct {
	CreateFunc           func(ctx context.Context, data ports.Document, path string) action.Result[*entities.Profile]
	FetchFunc            func(ctx context.Context, userID string) action.Result[*entities.Profile]
	UpdateFunc           func(ctx context.Context, data ports.Document, path string) action.Result[*entities.Profile]
	CandidateDetailsFunc func(ctx context.Context, userID string) action.Result[*entities.Profile]
}

func (m *mockProfiles) Create(ctx context.Context, data ports.Document, path string) action.Result[*entities.Profile] {
	return m.CreateFunc(ctx, data, path)
}

func (m *mockProfiles) Fetch(ctx context.Context, userID string) action.Result[*entities.Profile] {
	return m.FetchFunc(ctx, userID)
}

func (m *mockProfiles) Update(ctx context.Context, data ports.Document, path string) action.Result[*entities.Profile] {
	return m.UpdateFunc(ctx, data, path)
}

func (m *mockProfiles) CandidateDetails(ctx context.Context, userID string) action.Result[*entities.Profile] {
	return m.CandidateDetailsFunc(ctx, userID)
}

type mockJobs struct {
	PostFunc             func(ctx context.Context, data ports.Document, path string) action.Result[*entities.Job]
	ForRecruiterFunc     func(ctx context.Context, recruiterID string) action.Result[[]entities.Job]
	ForCandidateFunc     func(ctx context.Context, params map[string]string) action.Result[[]entities.Job]
	FilterCategoriesFunc func(ctx context.Context) action.Result[[]entities.Job]
}

func (m *mockJobs) Post(ctx context.Context, data ports.Document, path string) action.Result[*entities.Job] {
	return m.PostFunc(ctx, data, path)
}

func (m *mockJobs) ForRecruiter(ctx context.Context, recruiterID string) action.Result[[]entities.Job] {
	return m.ForRecruiterFunc(ctx, recruiterID)
}

func (m *mockJobs) ForCandidate(ctx context.Context, params map[string]string) action.Result[[]entities.Job] {
	return m.ForCandidateFunc(ctx, params)
}

func (m *mockJobs) FilterCategories(ctx context.Context) action.Result[[]entities.Job] {
	return m.FilterCategoriesFunc(ctx)
}

type mockApplications struct {
	CreateFunc       func(ctx context.Context, data ports.Document, path string) action.Result[*entities.Application]
	ForCandidateFunc func(ctx context.Context, candidateID string) action.Result[[]entities.Application]
	ForRecruiterFunc func(ctx context.Context, recruiterID string) action.Result[[]entities.Application]
	UpdateFunc       func(ctx context.Context, data ports.Document, path string) action.Result[*entities.Application]
}

func (m *mockApplications) Create(ctx context.Context, data ports.Document, path string) action.Result[*entities.Application] {
	return m.CreateFunc(ctx, data, path)
}

func (m *mockApplications) ForCandidate(ctx context.Context, candidateID string) action.Result[[]entities.Application] {
	return m.ForCandidateFunc(ctx, candidateID)
}

func (m *mockApplications) ForRecruiter(ctx context.Context, recruiterID string) action.Result[[]entities.Application] {
	return m.ForRecruiterFunc(ctx, recruiterID)
}

func (m *mockApplications) Update(ctx context.Context, data ports.Document, path string) action.Result[*entities.Application] {
	return m.UpdateFunc(ctx, data, path)
}

type mockFeed struct {
	CreateFunc   func(ctx context.Context, data ports.Document, path string) action.Result[*entities.FeedPost]
	FetchAllFunc func(ctx context.Context) action.Result[[]entities.FeedPost]
	UpdateFunc   func(ctx context.Context, data ports.Document, path string) action.Result[*entities.FeedPost]
}

func (m *mockFeed) Create(ctx context.Context, data ports.Document, path string) action.Result[*entities.FeedPost] {
	return m.CreateFunc(ctx, data, path)
}

func (m *mockFeed) FetchAll(ctx context.Context) action.Result[[]entities.FeedPost] {
	return m.FetchAllFunc(ctx)
}

func (m *mockFeed) Update(ctx context.Context, data ports.Document, path string) action.Result[*entities.FeedPost] {
	return m.UpdateFunc(ctx, data, path)
}

type mockPayments struct {
	CreatePriceFunc    func(ctx context.Context, amount int64) action.Result[string]
	CreateCheckoutFunc func(ctx context.Context, items []ports.LineItem) action.Result[string]
}

func (m *mockPayments) CreatePrice(ctx context.Context, amount int64) action.Result[string] {
	return m.CreatePriceFunc(ctx, amount)
}

func (m *mockPayments) CreateCheckout(ctx context.Context, items []ports.LineItem) action.Result[string] {
	return m.CreateCheckoutFunc(ctx, items)
}
