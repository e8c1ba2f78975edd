package grpc

import (
	"context"
	"errors"
	"runtime/debug"

	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func GRPCErrorResponse(err error) error {
	switch {
	case errors.Is(err, e.ErrOrderNotFound), errors.Is(err, e.ErrProductNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}

// recoverInterceptor превращает панику обработчика в codes.Internal.
func recoverInterceptor(logger logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf(e.ErrInternalServerError, "panic in %s: %v\n%s", info.FullMethod, r, debug.Stack())
				err = GRPCErrorResponse(e.ErrInternalServerError)
			}
		}()

		return handler(ctx, req)
	}
}
