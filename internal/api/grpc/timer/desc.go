package timer

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "timerskill.v1.TimerService"

	// UtterMethod is the full method name of Utter.
	UtterMethod = "/" + ServiceName + "/Utter"
	// ListTimersMethod is the full method name of ListTimers.
	ListTimersMethod = "/" + ServiceName + "/ListTimers"

	// HostnameKey is the metadata key carrying the actor hostname.
	HostnameKey = "x-actor-hostname"
	// UsernameKey is the metadata key carrying the actor username.
	UsernameKey = "x-actor-username"
)

// TimerServiceServer is the server API of the timer service.
type TimerServiceServer interface {
	// Utter routes a transcribed utterance to the skill.
	Utter(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	// ListTimers returns the active timers.
	ListTimers(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc describes the timer service for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // Service descriptors are package-level by convention.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TimerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Utter",
			Handler:    utterHandler,
		},
		{
			MethodName: "ListTimers",
			Handler:    listTimersHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "timerskill/v1/timer.proto",
}

// Register adds the timer service to a gRPC server.
func Register(registrar grpc.ServiceRegistrar, srv TimerServiceServer) {
	registrar.RegisterService(&ServiceDesc, srv)
}

//nolint:revive // Signature is fixed by grpc.MethodDesc.
func utterHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(TimerServiceServer).Utter(ctx, in) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: UtterMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TimerServiceServer).Utter(ctx, req.(*wrapperspb.StringValue)) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	return interceptor(ctx, in, info, handler)
}

//nolint:revive // Signature is fixed by grpc.MethodDesc.
func listTimersHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(TimerServiceServer).ListTimers(ctx, in) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ListTimersMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TimerServiceServer).ListTimers(ctx, req.(*emptypb.Empty)) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	return interceptor(ctx, in, info, handler)
}
