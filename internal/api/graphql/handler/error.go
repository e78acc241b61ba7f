package handler

import (
	"github.com/dtroode/roleauth/internal/apierror"
)

// handleError lets APIErrors through and hides everything else.
func (r *Resolver) handleError(err error) error {
	if apiErr, ok := apierror.As(err); ok {
		return apiErr
	}

	r.logger.LogError("Auth handler: unexpected error", err)
	return apierror.NewErrInternal()
}
