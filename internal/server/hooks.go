package server

import (
	"context"

	apperrors "dealer-dashboard/internal/common/errors"
	"dealer-dashboard/internal/listctrl"
	"dealer-dashboard/internal/models"
	"dealer-dashboard/internal/query"
	"dealer-dashboard/internal/services"
)

// dealerHooks bind the dealers view to the dealer resource. Reads go
// through the query cache; each mutation invalidates the dealers key
// only after the backend confirmed it. The overview aggregate is never
// invalidated by mutations; it simply refetches when its window expires.
func (s *Server) dealerHooks() listctrl.Hooks[models.Dealer] {
	return listctrl.Hooks[models.Dealer]{
		Load: func(ctx context.Context) ([]models.Dealer, *models.PageMeta, error) {
			res := query.Fetch(ctx, s.cache, query.KeyDealers, s.dealerSvc.List)
			if !res.Success {
				return nil, nil, res.Err
			}
			meta := res.Data.Meta
			return res.Data.Data, &meta, nil
		},
		Create: func(ctx context.Context, payload map[string]interface{}) error {
			res := s.dealerSvc.Create(ctx, dealerPayload(payload))
			return s.afterMutation(ctx, res.Err, query.KeyDealers)
		},
		Update: func(ctx context.Context, id string, payload map[string]interface{}) error {
			res := s.dealerSvc.Update(ctx, id, dealerPayload(payload))
			return s.afterMutation(ctx, res.Err, query.KeyDealers)
		},
		Delete: func(ctx context.Context, id string) error {
			res := s.dealerSvc.Delete(ctx, id)
			return s.afterMutation(ctx, res.Err, query.KeyDealers)
		},
	}
}

// submissionHooks bind the submissions view. The view is read and delete
// only, so the create and update hooks stay nil.
func (s *Server) submissionHooks() listctrl.Hooks[models.Submission] {
	return listctrl.Hooks[models.Submission]{
		Load: func(ctx context.Context) ([]models.Submission, *models.PageMeta, error) {
			res := query.Fetch(ctx, s.cache, query.KeySubmissions, s.submissionSvc.List)
			if !res.Success {
				return nil, nil, res.Err
			}
			meta := res.Data.Meta
			return res.Data.Data, &meta, nil
		},
		Delete: func(ctx context.Context, id string) error {
			res := s.submissionSvc.Delete(ctx, id)
			return s.afterMutation(ctx, res.Err, query.KeySubmissions)
		},
	}
}

// afterMutation invalidates the affected query keys on success and passes
// the mutation error through untouched on failure.
func (s *Server) afterMutation(ctx context.Context, se *apperrors.StandardError, keys ...string) error {
	if se != nil {
		return se
	}
	s.cache.Invalidate(ctx, keys...)
	return nil
}

// fetchOverview reads the aggregate totals through the cache.
func (s *Server) fetchOverview(ctx context.Context) services.Result[models.OverviewStats] {
	return query.Fetch(ctx, s.cache, query.KeyOverview, s.overviewSvc.Totals)
}

func dealerPayload(payload map[string]interface{}) models.CreateDealerPayload {
	return models.CreateDealerPayload{
		DealerID:   stringField(payload, "dealerId"),
		DealerName: stringField(payload, "dealerName"),
		Email:      stringField(payload, "email"),
		Contact:    stringField(payload, "contact"),
		VIN:        stringField(payload, "vin"),
		Address:    stringField(payload, "address"),
	}
}

func stringField(payload map[string]interface{}, name string) string {
	if v, ok := payload[name].(string); ok {
		return v
	}
	return ""
}
