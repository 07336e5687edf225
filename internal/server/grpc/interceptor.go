package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/tsn/internal/common"
	"github.com/dmitrijs2005/tsn/internal/server/session"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	start := time.Now()
	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "rpc",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}

type sessionStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *sessionStream) Context() context.Context { return w.ctx }

// streamLoggingInterceptor tags each stream with a session id, reported to the
// client in the response header.
func (s *GRPCServer) streamLoggingInterceptor(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {

	id := uuid.NewString()
	if err := ss.SendHeader(metadata.Pairs(common.SessionIDHeaderName, id)); err != nil {
		s.logger.Warn(ss.Context(), "set session header", "error", err)
	}

	ctx := session.ContextWithID(ss.Context(), id)
	start := time.Now()
	err := handler(srv, &sessionStream{ServerStream: ss, ctx: ctx})

	s.logger.Info(ctx, "stream",
		"method", info.FullMethod,
		"session_id", id,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return err
}
