// Package submission wraps the /submissions resource of the backend API.
package submission

import (
	"context"
	"fmt"

	apperrors "dealer-dashboard/internal/common/errors"
	"dealer-dashboard/internal/common/httpclient"
	"dealer-dashboard/internal/common/logger"
	"dealer-dashboard/internal/models"
	"dealer-dashboard/internal/services"
)

const basePath = "/submissions"

type Service struct {
	gateway *httpclient.Client
	logger  logger.Logger
}

func NewService(gateway *httpclient.Client, log logger.Logger) *Service {
	return &Service{
		gateway: gateway,
		logger:  log.WithFields(map[string]interface{}{"resource": "submission"}),
	}
}

// List fetches all vehicle submissions with the server paging meta.
func (s *Service) List(ctx context.Context) services.Result[models.SubmissionsResponse] {
	var resp models.SubmissionsResponse
	if err := s.gateway.Get(ctx, basePath, &resp); err != nil {
		return services.Fail[models.SubmissionsResponse](err)
	}
	if !resp.Success {
		return services.Fail[models.SubmissionsResponse](apperrors.NewBackendRejectedError(resp.Message, 200))
	}
	return services.OK(resp)
}

// Delete removes a submission by its stable identity.
func (s *Service) Delete(ctx context.Context, id string) services.Result[string] {
	var resp models.DeleteSubmissionResponse
	if err := s.gateway.Delete(ctx, fmt.Sprintf("%s/%s", basePath, id), &resp); err != nil {
		return services.Fail[string](err)
	}
	if !resp.Success {
		return services.Fail[string](apperrors.NewBackendRejectedError(resp.Message, 200))
	}
	s.logger.Info("submission deleted", map[string]interface{}{"id": id})
	return services.OK(resp.Message)
}
