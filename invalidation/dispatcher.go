package invalidation

import (
	"context"

	"github.com/goliatone/go-tips-admin/pkg/apperrors"
	"github.com/goliatone/go-tips-admin/pkg/logging"
)

// Dispatch evicts every view the matrix lists for ev. An event the matrix
// cannot resolve is rejected before anything is evicted.
func (s *Service) Dispatch(ctx context.Context, ev Event) error {
	resources, err := s.matrix.Resources(ev)
	if err != nil {
		s.logger.Error("invalidation event rejected", logging.Fields{
			"event": ev.String(),
			"error": err,
		})
		return apperrors.CacheInvalidation(err, "resolve invalidation for "+ev.String())
	}

	if len(resources) == 0 {
		return nil
	}

	s.logger.Debug("dispatching invalidation", logging.Fields{
		"event": ev.String(),
		"keys":  len(resources),
	})
	return s.evict(ctx, resources...)
}
