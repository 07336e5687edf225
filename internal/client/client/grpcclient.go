// Package client is the tsn gRPC client used by the command-line front end.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/tsn/internal/common"
	pb "github.com/dmitrijs2005/tsn/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// Post is a timeline entry as the client sees it.
type Post struct {
	Sender string
	Text   string
	Time   time.Time
}

type GRPCClient struct {
	conn   *grpc.ClientConn
	client pb.TSNServiceClient
}

// NewTSNClient creates a client for the server at endpoint. The connection is
// established lazily on the first call.
func NewTSNClient(endpoint string, opts ...grpc.DialOption) (*GRPCClient, error) {
	conn, err := InitGRPCClient(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{conn: conn, client: pb.NewTSNServiceClient(conn)}, nil
}

func InitGRPCClient(endpoint string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc client: %w", err)
	}
	return conn, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// Register announces username to the server. reactivated reports whether the
// account already existed.
func (c *GRPCClient) Register(ctx context.Context, username string) (reactivated bool, err error) {
	resp, err := c.client.Register(ctx, &pb.RegisterRequest{Username: username})
	if err != nil {
		return false, mapError(err)
	}
	return resp.GetReactivated(), nil
}

func (c *GRPCClient) List(ctx context.Context, username string) (all, following []string, err error) {
	resp, err := c.client.List(ctx, &pb.ListRequest{Username: username})
	if err != nil {
		return nil, nil, mapError(err)
	}
	return splitLines(resp.GetAllUsers()), splitLines(resp.GetFollowingUsers()), nil
}

func (c *GRPCClient) Follow(ctx context.Context, username, target string) error {
	_, err := c.client.Follow(ctx, &pb.FollowRequest{Username: username, Target: target})
	return mapError(err)
}

func (c *GRPCClient) Unfollow(ctx context.Context, username, target string) error {
	_, err := c.client.Unfollow(ctx, &pb.UnfollowRequest{Username: username, Target: target})
	return mapError(err)
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	resp, err := c.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.GetStatus() != "OK" {
		return fmt.Errorf("%w: ping status %q", ErrUnexpected, resp.GetStatus())
	}
	return nil
}

// Timeline opens the bidirectional stream and identifies username as its owner.
func (c *GRPCClient) Timeline(ctx context.Context, username string) (*TimelineStream, error) {
	stream, err := c.client.Timeline(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	if err := stream.Send(&pb.Post{Username: username}); err != nil {
		return nil, mapError(err)
	}
	return &TimelineStream{username: username, stream: stream}, nil
}

// TimelineStream is an open timeline session.
type TimelineStream struct {
	username string
	stream   pb.TSNService_TimelineClient
}

// Send publishes text as a post by the stream owner. The server stamps the time.
func (t *TimelineStream) Send(text string) error {
	if err := t.stream.Send(&pb.Post{Username: t.username, Text: text}); err != nil {
		if errors.Is(err, io.EOF) {
			// the real reason is reported by Recv
			return io.EOF
		}
		return mapError(err)
	}
	return nil
}

// Recv blocks for the next post from a followed user. It returns io.EOF when
// the server ends the session cleanly.
func (t *TimelineStream) Recv() (Post, error) {
	m, err := t.stream.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Post{}, io.EOF
		}
		return Post{}, mapError(err)
	}
	return fromWire(m), nil
}

// CloseSend half-closes the stream, which the server treats as the end of the session.
func (t *TimelineStream) CloseSend() error {
	return t.stream.CloseSend()
}

func fromWire(m *pb.Post) Post {
	p := Post{Sender: m.GetUsername(), Text: m.GetText()}
	if ts := m.GetTimestamp(); ts != nil {
		p.Time = ts.AsTime()
	}
	return p
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

var knownErrors = []error{
	common.ErrInvalidUsername,
	common.ErrSelfFollow,
	common.ErrSelfUnfollow,
	common.ErrMalformedFrame,
	common.ErrAlreadyActive,
	common.ErrAlreadyFollowing,
	common.ErrNotFollowing,
	common.ErrNotRegistered,
	common.ErrRequesterUnknown,
	common.ErrTargetUnknown,
	common.ErrPersistence,
}

// mapError turns a gRPC status back into the matching domain sentinel.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, e := range knownErrors {
		if st.Message() == e.Error() {
			return e
		}
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.Canceled:
		return context.Canceled
	}
	return fmt.Errorf("%w: %s", ErrUnexpected, st.Message())
}
