package application

import (
	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/pkg/errors"
)

func init() {
	errors.RegisterSentinel(domain.ErrOrderNotFound, func(error) *errors.AppError {
		return errors.ErrNotFound("order")
	})
	errors.RegisterSentinel(domain.ErrInvalidStateTransition, func(err error) *errors.AppError {
		return errors.ErrInvalidStateTransition(err.Error())
	})
	errors.RegisterSentinel(domain.ErrUnknownWorkflowAction, func(err error) *errors.AppError {
		return errors.ErrValidation(err.Error())
	})
	errors.RegisterSentinel(domain.ErrActionAlreadyRunning, func(err error) *errors.AppError {
		return errors.ErrConflict(err.Error())
	})
	errors.RegisterSentinel(domain.ErrInvalidScoringConfig, func(err error) *errors.AppError {
		return errors.ErrValidation(err.Error())
	})
}
