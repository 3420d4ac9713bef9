package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/customer-care/ticket-api/internal/api/dto"
	"github.com/customer-care/ticket-api/internal/observability"
	apperrors "github.com/customer-care/ticket-api/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares. The request logger sits
// outside the error handler so it sees the final status.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestID())
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindForbidden:
		return fiber.StatusForbidden
	case apperrors.KindValidation:
		return fiber.StatusUnprocessableEntity
	case apperrors.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperrors.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.String("request_id", observability.RequestIDFrom(c)),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}

			status, code, envelope := renderError(err)
			metrics.RecordError(c.Route().Path, c.Method(), code)
			if status >= fiber.StatusInternalServerError {
				logger.Error("request failed",
					zap.String("request_id", observability.RequestIDFrom(c)),
					zap.String("path", c.Path()),
					zap.Error(err))
			}
			err = c.Status(status).JSON(envelope)
		}()
		return c.Next()
	}
}

// renderError converts err into a status, an error code and an envelope.
// Fiber's own errors, such as an unmatched route, keep their status.
func renderError(err error) (int, string, dto.Envelope) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := "HTTP_ERROR"
		if fiberErr.Code == fiber.StatusNotFound {
			code = "ROUTE_NOT_FOUND"
		}
		return fiberErr.Code, code, dto.Failure(fiberErr.Message, nil)
	}
	domainErr := apperrors.ToDomainError(err)
	return StatusFor(domainErr.Kind), domainErr.Code, dto.Failure(domainErr.Message, domainErr.Details)
}
