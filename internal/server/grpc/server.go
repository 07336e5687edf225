// Package grpc exposes the directory operations and the Timeline stream over
// gRPC.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/tsn/internal/common"
	"github.com/dmitrijs2005/tsn/internal/logging"
	pb "github.com/dmitrijs2005/tsn/internal/proto"
	"github.com/dmitrijs2005/tsn/internal/server/services"
	"github.com/dmitrijs2005/tsn/internal/server/session"
	"google.golang.org/grpc"
)

type Directory interface {
	Register(ctx context.Context, username string) (services.RegisterOutcome, error)
	ListUsers(ctx context.Context, requester string) (all, followed []string, err error)
	Follow(ctx context.Context, requester, target string) error
	Unfollow(ctx context.Context, requester, target string) error
}

type Sessions interface {
	Serve(stream session.Stream) error
}

type GRPCServer struct {
	pb.UnimplementedTSNServiceServer
	address     string
	stopTimeout time.Duration
	directory   Directory
	sessions    Sessions
	logger      logging.Logger
}

func NewGRPCServer(a string, stopTimeout time.Duration, l logging.Logger, d Directory, s Sessions) *GRPCServer {
	return &GRPCServer{
		address:     a,
		stopTimeout: stopTimeout,
		directory:   d,
		sessions:    s,
		logger:      l.With("module", "grpc_server"),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.MaxRecvMsgSize(common.MaxFrameSize),
		grpc.ChainUnaryInterceptor(s.loggingInterceptor),
		grpc.ChainStreamInterceptor(s.streamLoggingInterceptor),
	)
	pb.RegisterTSNServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)
	return s.serve(ctx, listen)
}

// serve accepts connections on lis until ctx is done, then stops gracefully.
// Streams still open after stopTimeout are cut.
func (s *GRPCServer) serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		if s.stopTimeout <= 0 {
			<-stopped
			return
		}
		select {
		case <-stopped:
		case <-time.After(s.stopTimeout):
			s.logger.Warn(ctx, "graceful stop timed out, closing streams")
			srv.Stop()
		}
	}()

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
