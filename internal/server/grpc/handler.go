package grpc

import (
	"context"
	"strings"

	pb "github.com/dmitrijs2005/tsn/internal/proto"
	"github.com/dmitrijs2005/tsn/internal/server/services"
)

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterReply, error) {

	outcome, err := s.directory.Register(ctx, req.GetUsername())
	if err != nil {
		return nil, toStatus(err)
	}

	return &pb.RegisterReply{
		Username:    req.GetUsername(),
		Reactivated: outcome == services.Reactivated,
	}, nil
}

func (s *GRPCServer) List(ctx context.Context, req *pb.ListRequest) (*pb.ListReply, error) {

	all, followed, err := s.directory.ListUsers(ctx, req.GetUsername())
	if err != nil {
		return nil, toStatus(err)
	}

	return &pb.ListReply{
		AllUsers:       strings.Join(all, "\n"),
		FollowingUsers: strings.Join(followed, "\n"),
	}, nil
}

func (s *GRPCServer) Follow(ctx context.Context, req *pb.FollowRequest) (*pb.Empty, error) {
	if err := s.directory.Follow(ctx, req.GetUsername(), req.GetTarget()); err != nil {
		return nil, toStatus(err)
	}
	return &pb.Empty{}, nil
}

func (s *GRPCServer) Unfollow(ctx context.Context, req *pb.UnfollowRequest) (*pb.Empty, error) {
	if err := s.directory.Unfollow(ctx, req.GetUsername(), req.GetTarget()); err != nil {
		return nil, toStatus(err)
	}
	return &pb.Empty{}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingReply, error) {
	return &pb.PingReply{Status: "OK"}, nil
}

func (s *GRPCServer) Timeline(stream pb.TSNService_TimelineServer) error {
	return toStatus(s.sessions.Serve(&timelineStream{stream: stream}))
}
