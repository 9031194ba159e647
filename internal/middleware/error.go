package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
	"github.com/LeeCh0129/greenie-backend/internal/logger"
)

// ErrorResponse is the JSON body written for every failed request
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
}

// ErrorHandler renders the last error attached by a handler with c.Error.
// Internal errors are logged and reported to Sentry; the client only sees a generic message.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		resp := errorToHTTP(err)

		if resp.StatusCode == http.StatusInternalServerError {
			logger.FromContext(c.Request.Context()).Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
			if hub := sentrygin.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			} else {
				sentry.CaptureException(err)
			}
		}

		c.AbortWithStatusJSON(resp.StatusCode, resp)
	}
}

// errorToHTTP translates domain errors to HTTP status codes
func errorToHTTP(err error) ErrorResponse {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		return ErrorResponse{StatusCode: http.StatusBadRequest, Message: validation.Message, Field: validation.Field}
	case domain.IsConflict(err):
		return ErrorResponse{StatusCode: http.StatusConflict, Message: err.Error()}
	case domain.IsNotFound(err):
		return ErrorResponse{StatusCode: http.StatusNotFound, Message: err.Error()}
	case domain.IsUnauthorized(err):
		return ErrorResponse{StatusCode: http.StatusUnauthorized, Message: err.Error()}
	case domain.IsForbidden(err):
		return ErrorResponse{StatusCode: http.StatusForbidden, Message: err.Error()}
	case domain.IsBadCredentials(err):
		return ErrorResponse{StatusCode: http.StatusUnauthorized, Message: err.Error()}
	case domain.IsInvalidOTP(err):
		return ErrorResponse{StatusCode: http.StatusBadRequest, Message: err.Error()}
	case domain.IsRateLimited(err):
		return ErrorResponse{StatusCode: http.StatusTooManyRequests, Message: err.Error()}
	default:
		return ErrorResponse{StatusCode: http.StatusInternalServerError, Message: "internal server error"}
	}
}

// ErrorInterceptor translates domain errors returned by gRPC handlers to status codes
func ErrorInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			if _, ok := status.FromError(err); ok {
				return nil, err
			}
			logger.FromContext(ctx).Error("grpc error", zap.String("method", info.FullMethod), zap.Error(err))
			return nil, errorToGRPCError(err)
		}
		return resp, nil
	}
}

func errorToGRPCError(err error) error {
	switch {
	case domain.IsValidation(err), domain.IsInvalidOTP(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case domain.IsConflict(err):
		return status.Error(codes.AlreadyExists, err.Error())
	case domain.IsNotFound(err):
		return status.Error(codes.NotFound, err.Error())
	case domain.IsUnauthorized(err), domain.IsBadCredentials(err):
		return status.Error(codes.Unauthenticated, err.Error())
	case domain.IsForbidden(err):
		return status.Error(codes.PermissionDenied, err.Error())
	case domain.IsRateLimited(err):
		return status.Error(codes.ResourceExhausted, err.Error())
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
