package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/LeeCh0129/greenie-backend/internal/logger"
)

// RecoveryInterceptor recovers from panics in gRPC handlers
func RecoveryInterceptor(base *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				base.Error("panic recovered", zap.String("method", info.FullMethod), zap.Any("panic", r))
				err = status.Error(codes.Internal, "internal server error")
			}
		}()

		return handler(ctx, req)
	}
}

// LoggingInterceptor attaches a method-scoped logger and logs each call
func LoggingInterceptor(base *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		lgr := base.With(zap.String("method", info.FullMethod))

		resp, err := handler(logger.WithContext(ctx, lgr), req)

		fields := []zap.Field{
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			lgr.Warn("grpc call failed", append(fields, zap.Error(err))...)
		} else {
			lgr.Debug("grpc call", fields...)
		}

		return resp, err
	}
}

// ChainUnaryInterceptors chains multiple unary interceptors; the first one runs outermost
func ChainUnaryInterceptors(interceptors ...grpc.UnaryServerInterceptor) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		// Build chain from right to left
		for i := len(interceptors) - 1; i >= 0; i-- {
			next := handler
			current := interceptors[i]
			handler = func(ctx context.Context, req any) (any, error) {
				return current(ctx, req, info, next)
			}
		}
		return handler(ctx, req)
	}
}
