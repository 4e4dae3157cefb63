package handler

import (
	"context"

	"google.golang.org/grpc"
	emptypb "google.golang.org/protobuf/types/known/emptypb"
	structpb "google.golang.org/protobuf/types/known/structpb"
	wrapperspb "google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// AdminServiceName は管理用 gRPC サービスの完全修飾名です。
	AdminServiceName = "awards.admin.v1.AwardsAdminService"
	// GreeterServiceName は公開 gRPC サービスの完全修飾名です。
	GreeterServiceName = "awards.greeter.v1.GreeterService"

	AdminGetAwardWinnersMethod = "/" + AdminServiceName + "/GetAwardWinners"
	AdminListNotVotedMethod    = "/" + AdminServiceName + "/ListNotVoted"
	GreeterSayHelloMethod      = "/" + GreeterServiceName + "/SayHello"
)

// AdminServiceServer は AwardsAdminService のサーバー実装が満たすインターフェースです。
// メッセージには protobuf の well-known types のみを使います。
type AdminServiceServer interface {
	GetAwardWinners(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListNotVoted(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// GreeterServiceServer は GreeterService のサーバー実装が満たすインターフェースです。
type GreeterServiceServer interface {
	SayHello(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
}

// RegisterAdminServiceServer は AwardsAdminService を gRPC サーバーへ登録します。
func RegisterAdminServiceServer(s grpc.ServiceRegistrar, srv AdminServiceServer) {
	s.RegisterService(&AdminServiceDesc, srv)
}

// RegisterGreeterServiceServer は GreeterService を gRPC サーバーへ登録します。
func RegisterGreeterServiceServer(s grpc.ServiceRegistrar, srv GreeterServiceServer) {
	s.RegisterService(&GreeterServiceDesc, srv)
}

// AdminServiceDesc は AwardsAdminService の grpc.ServiceDesc です。
var AdminServiceDesc = grpc.ServiceDesc{
	ServiceName: AdminServiceName,
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetAwardWinners", Handler: adminGetAwardWinnersHandler},
		{MethodName: "ListNotVoted", Handler: adminListNotVotedHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "awards/admin/v1/admin.proto",
}

// GreeterServiceDesc は GreeterService の grpc.ServiceDesc です。
var GreeterServiceDesc = grpc.ServiceDesc{
	ServiceName: GreeterServiceName,
	HandlerType: (*GreeterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SayHello", Handler: greeterSayHelloHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "awards/greeter/v1/greeter.proto",
}

func adminGetAwardWinnersHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServiceServer).GetAwardWinners(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AdminGetAwardWinnersMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdminServiceServer).GetAwardWinners(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func adminListNotVotedHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServiceServer).ListNotVoted(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AdminListNotVotedMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdminServiceServer).ListNotVoted(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func greeterSayHelloHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GreeterServiceServer).SayHello(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GreeterSayHelloMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GreeterServiceServer).SayHello(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}
