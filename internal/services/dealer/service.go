// Package dealer wraps the /dealer resource of the backend API.
package dealer

import (
	"context"
	"fmt"

	apperrors "dealer-dashboard/internal/common/errors"
	"dealer-dashboard/internal/common/httpclient"
	"dealer-dashboard/internal/common/logger"
	"dealer-dashboard/internal/models"
	"dealer-dashboard/internal/services"
)

const basePath = "/dealer"

type Service struct {
	gateway *httpclient.Client
	logger  logger.Logger
}

func NewService(gateway *httpclient.Client, log logger.Logger) *Service {
	return &Service{
		gateway: gateway,
		logger:  log.WithFields(map[string]interface{}{"resource": "dealer"}),
	}
}

// List fetches all dealers with the server paging meta.
func (s *Service) List(ctx context.Context) services.Result[models.DealersResponse] {
	var resp models.DealersResponse
	if err := s.gateway.Get(ctx, basePath, &resp); err != nil {
		return services.Fail[models.DealersResponse](err)
	}
	if !resp.Success {
		return services.Fail[models.DealersResponse](apperrors.NewBackendRejectedError(resp.Message, 200))
	}
	return services.OK(resp)
}

// Create posts a new dealer.
func (s *Service) Create(ctx context.Context, payload models.CreateDealerPayload) services.Result[models.Dealer] {
	var resp models.CreateDealerResponse
	if err := s.gateway.Post(ctx, basePath+"/create", payload, &resp); err != nil {
		return services.Fail[models.Dealer](err)
	}
	if !resp.Success {
		return services.Fail[models.Dealer](apperrors.NewBackendRejectedError(resp.Message, 200))
	}
	s.logger.Info("dealer created", map[string]interface{}{"id": resp.Data.ID})
	return services.OK(resp.Data)
}

// Update patches an existing dealer by its stable identity.
func (s *Service) Update(ctx context.Context, id string, payload models.CreateDealerPayload) services.Result[models.Dealer] {
	var resp models.UpdateDealerResponse
	if err := s.gateway.Patch(ctx, fmt.Sprintf("%s/%s", basePath, id), payload, &resp); err != nil {
		return services.Fail[models.Dealer](err)
	}
	if !resp.Success {
		return services.Fail[models.Dealer](apperrors.NewBackendRejectedError(resp.Message, 200))
	}
	s.logger.Info("dealer updated", map[string]interface{}{"id": id})
	return services.OK(resp.Data)
}

// Delete removes a dealer by its stable identity.
func (s *Service) Delete(ctx context.Context, id string) services.Result[string] {
	var resp models.DeleteDealerResponse
	if err := s.gateway.Delete(ctx, fmt.Sprintf("%s/%s", basePath, id), &resp); err != nil {
		return services.Fail[string](err)
	}
	if !resp.Success {
		return services.Fail[string](apperrors.NewBackendRejectedError(resp.Message, 200))
	}
	s.logger.Info("dealer deleted", map[string]interface{}{"id": id})
	return services.OK(resp.Message)
}
