// Package overview wraps the aggregate totals endpoint. The stats are
// recomputed server-side and fetched fresh; nothing is derived locally.
package overview

import (
	"context"

	apperrors "dealer-dashboard/internal/common/errors"
	"dealer-dashboard/internal/common/httpclient"
	"dealer-dashboard/internal/common/logger"
	"dealer-dashboard/internal/models"
	"dealer-dashboard/internal/services"
)

const basePath = "/submissions/totals"

type Service struct {
	gateway *httpclient.Client
	logger  logger.Logger
}

func NewService(gateway *httpclient.Client, log logger.Logger) *Service {
	return &Service{
		gateway: gateway,
		logger:  log.WithFields(map[string]interface{}{"resource": "overview"}),
	}
}

// Totals fetches the dealer/announcement aggregate.
func (s *Service) Totals(ctx context.Context) services.Result[models.OverviewStats] {
	var resp models.OverviewResponse
	if err := s.gateway.Get(ctx, basePath, &resp); err != nil {
		return services.Fail[models.OverviewStats](err)
	}
	if !resp.Success {
		return services.Fail[models.OverviewStats](apperrors.NewBackendRejectedError(resp.Message, 200))
	}
	return services.OK(resp.Data)
}
