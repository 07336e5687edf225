package client

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/tsn/internal/common"
	pb "github.com/dmitrijs2005/tsn/internal/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/timestamppb"
)

var stamp = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type stubServer struct {
	pb.UnimplementedTSNServiceServer
	owner chan string
}

func (s *stubServer) Register(_ context.Context, req *pb.RegisterRequest) (*pb.RegisterReply, error) {
	switch req.GetUsername() {
	case "taken":
		return nil, status.Error(codes.AlreadyExists, common.ErrAlreadyActive.Error())
	case "alice":
		return &pb.RegisterReply{Username: "alice", Reactivated: true}, nil
	}
	return &pb.RegisterReply{Username: req.GetUsername()}, nil
}

func (s *stubServer) List(_ context.Context, req *pb.ListRequest) (*pb.ListReply, error) {
	return &pb.ListReply{AllUsers: "alice\nbob", FollowingUsers: req.GetUsername()}, nil
}

func (s *stubServer) Follow(_ context.Context, req *pb.FollowRequest) (*pb.Empty, error) {
	if req.GetTarget() == "ghost" {
		return nil, status.Error(codes.NotFound, common.ErrTargetUnknown.Error())
	}
	return &pb.Empty{}, nil
}

func (s *stubServer) Unfollow(context.Context, *pb.UnfollowRequest) (*pb.Empty, error) {
	return nil, status.Error(codes.Unavailable, common.ErrPersistence.Error())
}

func (s *stubServer) Ping(context.Context, *pb.PingRequest) (*pb.PingReply, error) {
	return &pb.PingReply{Status: "OK"}, nil
}

// Timeline echoes every post back as if bob had written it.
func (s *stubServer) Timeline(stream pb.TSNService_TimelineServer) error {
	first, err := stream.Recv()
	if err != nil {
		return err
	}
	s.owner <- first.GetUsername()
	for {
		in, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if in.GetText() == "boom" {
			return status.Error(codes.InvalidArgument, common.ErrMalformedFrame.Error())
		}
		if err := stream.Send(&pb.Post{Username: "bob", Text: in.GetText(), Timestamp: timestamppb.New(stamp)}); err != nil {
			return err
		}
	}
}

func newBufClient(t *testing.T) (*GRPCClient, *stubServer) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	stub := &stubServer{owner: make(chan string, 1)}
	srv := grpc.NewServer()
	pb.RegisterTSNServiceServer(srv, stub)
	go func() { _ = srv.Serve(lis) }()

	c, err := NewTSNClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		srv.Stop()
	})
	return c, stub
}

func TestGRPCClient_Unary(t *testing.T) {
	c, _ := newBufClient(t)
	ctx := context.Background()

	reactivated, err := c.Register(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, reactivated)

	reactivated, err = c.Register(ctx, "carol")
	require.NoError(t, err)
	assert.False(t, reactivated)

	_, err = c.Register(ctx, "taken")
	assert.ErrorIs(t, err, common.ErrAlreadyActive)

	all, following, err := c.List(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, all)
	assert.Equal(t, []string{"alice"}, following)

	require.NoError(t, c.Follow(ctx, "alice", "bob"))
	assert.ErrorIs(t, c.Follow(ctx, "alice", "ghost"), common.ErrTargetUnknown)
	assert.ErrorIs(t, c.Unfollow(ctx, "alice", "bob"), common.ErrPersistence)

	require.NoError(t, c.Ping(ctx))
}

func TestGRPCClient_Timeline(t *testing.T) {
	c, stub := newBufClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tl, err := c.Timeline(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", <-stub.owner)

	require.NoError(t, tl.Send("hello"))
	p, err := tl.Recv()
	require.NoError(t, err)
	assert.Equal(t, Post{Sender: "bob", Text: "hello", Time: stamp}, p)

	require.NoError(t, tl.CloseSend())
	_, err = tl.Recv()
	assert.ErrorIs(t, err, io.EOF)
}

func TestGRPCClient_TimelineServerError(t *testing.T) {
	c, stub := newBufClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tl, err := c.Timeline(ctx, "alice")
	require.NoError(t, err)
	<-stub.owner

	require.NoError(t, tl.Send("boom"))
	_, err = tl.Recv()
	assert.ErrorIs(t, err, common.ErrMalformedFrame)
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))

	plain := errors.New("plain")
	assert.Same(t, plain, mapError(plain))

	assert.ErrorIs(t, mapError(status.Error(codes.NotFound, common.ErrNotRegistered.Error())), common.ErrNotRegistered)
	assert.ErrorIs(t, mapError(status.Error(codes.Unavailable, "connection refused")), ErrUnavailable)
	assert.ErrorIs(t, mapError(status.Error(codes.DeadlineExceeded, "slow")), ErrUnavailable)
	assert.ErrorIs(t, mapError(status.Error(codes.Canceled, "bye")), context.Canceled)
	assert.ErrorIs(t, mapError(status.Error(codes.Internal, "oops")), ErrUnexpected)
}
