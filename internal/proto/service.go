package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "tsn.TSNService"

const (
	TSNService_Register_FullMethodName = "/tsn.TSNService/Register"
	TSNService_List_FullMethodName     = "/tsn.TSNService/List"
	TSNService_Follow_FullMethodName   = "/tsn.TSNService/Follow"
	TSNService_Unfollow_FullMethodName = "/tsn.TSNService/Unfollow"
	TSNService_Ping_FullMethodName     = "/tsn.TSNService/Ping"
	TSNService_Timeline_FullMethodName = "/tsn.TSNService/Timeline"
)

// TSNServiceServer is the server API for TSNService.
type TSNServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterReply, error)
	List(context.Context, *ListRequest) (*ListReply, error)
	Follow(context.Context, *FollowRequest) (*Empty, error)
	Unfollow(context.Context, *UnfollowRequest) (*Empty, error)
	Ping(context.Context, *PingRequest) (*PingReply, error)
	Timeline(TSNService_TimelineServer) error
}

// UnimplementedTSNServiceServer can be embedded to get forward-compatible
// implementations.
type UnimplementedTSNServiceServer struct{}

func (UnimplementedTSNServiceServer) Register(context.Context, *RegisterRequest) (*RegisterReply, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedTSNServiceServer) List(context.Context, *ListRequest) (*ListReply, error) {
	return nil, status.Error(codes.Unimplemented, "method List not implemented")
}
func (UnimplementedTSNServiceServer) Follow(context.Context, *FollowRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Follow not implemented")
}
func (UnimplementedTSNServiceServer) Unfollow(context.Context, *UnfollowRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Unfollow not implemented")
}
func (UnimplementedTSNServiceServer) Ping(context.Context, *PingRequest) (*PingReply, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedTSNServiceServer) Timeline(TSNService_TimelineServer) error {
	return status.Error(codes.Unimplemented, "method Timeline not implemented")
}

func RegisterTSNServiceServer(s grpc.ServiceRegistrar, srv TSNServiceServer) {
	s.RegisterService(&TSNService_ServiceDesc, srv)
}

func _TSNService_Register_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RegisterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TSNServiceServer).Register(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TSNService_Register_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TSNServiceServer).Register(ctx, req.(*RegisterRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TSNService_List_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TSNServiceServer).List(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TSNService_List_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TSNServiceServer).List(ctx, req.(*ListRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TSNService_Follow_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FollowRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TSNServiceServer).Follow(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TSNService_Follow_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TSNServiceServer).Follow(ctx, req.(*FollowRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TSNService_Unfollow_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UnfollowRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TSNServiceServer).Unfollow(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TSNService_Unfollow_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TSNServiceServer).Unfollow(ctx, req.(*UnfollowRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TSNService_Ping_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TSNServiceServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TSNService_Ping_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TSNServiceServer).Ping(ctx, req.(*PingRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TSNService_Timeline_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(TSNServiceServer).Timeline(&tsnServiceTimelineServer{stream})
}

// TSNService_TimelineServer is the server side of the bidirectional Timeline
// stream.
type TSNService_TimelineServer interface {
	Send(*Post) error
	Recv() (*Post, error)
	grpc.ServerStream
}

type tsnServiceTimelineServer struct {
	grpc.ServerStream
}

func (x *tsnServiceTimelineServer) Send(m *Post) error {
	return x.ServerStream.SendMsg(m)
}

func (x *tsnServiceTimelineServer) Recv() (*Post, error) {
	m := new(Post)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// TSNService_ServiceDesc is the grpc.ServiceDesc for TSNService.
var TSNService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TSNServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: _TSNService_Register_Handler},
		{MethodName: "List", Handler: _TSNService_List_Handler},
		{MethodName: "Follow", Handler: _TSNService_Follow_Handler},
		{MethodName: "Unfollow", Handler: _TSNService_Unfollow_Handler},
		{MethodName: "Ping", Handler: _TSNService_Ping_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Timeline",
			Handler:       _TSNService_Timeline_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "tsn.proto",
}
