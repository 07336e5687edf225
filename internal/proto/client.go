package proto

import (
	"context"

	"google.golang.org/grpc"
)

// TSNServiceClient is the client API for TSNService. Every call is sent with
// the json content-subtype so the server picks the matching codec.
type TSNServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterReply, error)
	List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListReply, error)
	Follow(ctx context.Context, in *FollowRequest, opts ...grpc.CallOption) (*Empty, error)
	Unfollow(ctx context.Context, in *UnfollowRequest, opts ...grpc.CallOption) (*Empty, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingReply, error)
	Timeline(ctx context.Context, opts ...grpc.CallOption) (TSNService_TimelineClient, error)
}

type tsnServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTSNServiceClient(cc grpc.ClientConnInterface) TSNServiceClient {
	return &tsnServiceClient{cc}
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *tsnServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterReply, error) {
	out := new(RegisterReply)
	if err := c.cc.Invoke(ctx, TSNService_Register_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tsnServiceClient) List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListReply, error) {
	out := new(ListReply)
	if err := c.cc.Invoke(ctx, TSNService_List_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tsnServiceClient) Follow(ctx context.Context, in *FollowRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, TSNService_Follow_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tsnServiceClient) Unfollow(ctx context.Context, in *UnfollowRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, TSNService_Unfollow_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tsnServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingReply, error) {
	out := new(PingReply)
	if err := c.cc.Invoke(ctx, TSNService_Ping_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tsnServiceClient) Timeline(ctx context.Context, opts ...grpc.CallOption) (TSNService_TimelineClient, error) {
	stream, err := c.cc.NewStream(ctx, &TSNService_ServiceDesc.Streams[0], TSNService_Timeline_FullMethodName, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	return &tsnServiceTimelineClient{stream}, nil
}

// TSNService_TimelineClient is the client side of the Timeline stream.
type TSNService_TimelineClient interface {
	Send(*Post) error
	Recv() (*Post, error)
	grpc.ClientStream
}

type tsnServiceTimelineClient struct {
	grpc.ClientStream
}

func (x *tsnServiceTimelineClient) Send(m *Post) error {
	return x.ClientStream.SendMsg(m)
}

func (x *tsnServiceTimelineClient) Recv() (*Post, error) {
	m := new(Post)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
