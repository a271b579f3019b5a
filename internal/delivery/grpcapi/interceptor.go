package grpcapi

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnaryServerInterceptor логирует вызовы, переводит доменные ошибки в
// статусы и перехватывает панику обработчика.
func UnaryServerInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("grpc panic recovered", "method", info.FullMethod, "panic", r)
				err = status.Error(codes.Internal, "internal error")
			}
			code := status.Code(err)
			attrs := []any{"method", info.FullMethod, "code", code.String(), "latency", time.Since(start)}
			if code == codes.Internal || code == codes.Unknown {
				logger.Error("grpc request", append(attrs, "error", err)...)
				return
			}
			logger.Debug("grpc request", attrs...)
		}()

		resp, err = handler(ctx, req)
		return resp, ToStatus(err)
	}
}
