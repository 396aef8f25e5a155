package storeapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// StoreServer is implemented by store-service.
type StoreServer interface {
	FetchAllUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateOrderStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FetchProducts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FetchCartByPhone(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddToCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveFromCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedStoreServer answers codes.Unimplemented for every method.
type UnimplementedStoreServer struct{}

func (UnimplementedStoreServer) FetchAllUsers(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method FetchAllUsers not implemented")
}

func (UnimplementedStoreServer) UpdateOrderStatus(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateOrderStatus not implemented")
}

func (UnimplementedStoreServer) FetchProducts(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method FetchProducts not implemented")
}

func (UnimplementedStoreServer) FetchCartByPhone(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method FetchCartByPhone not implemented")
}

func (UnimplementedStoreServer) AddToCart(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method AddToCart not implemented")
}

func (UnimplementedStoreServer) RemoveFromCart(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveFromCart not implemented")
}

type call func(StoreServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, fn call) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(StoreServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return fn(srv.(StoreServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes printhub.store.v1.Store.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StoreServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodFetchAllUsers, StoreServer.FetchAllUsers),
		unary(MethodUpdateOrderStatus, StoreServer.UpdateOrderStatus),
		unary(MethodFetchProducts, StoreServer.FetchProducts),
		unary(MethodFetchCartByPhone, StoreServer.FetchCartByPhone),
		unary(MethodAddToCart, StoreServer.AddToCart),
		unary(MethodRemoveFromCart, StoreServer.RemoveFromCart),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "printhub/store/v1/store.proto",
}

func RegisterStoreServer(s grpc.ServiceRegistrar, srv StoreServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// StoreClient calls the store over any client connection.
type StoreClient struct {
	cc grpc.ClientConnInterface
}

func NewStoreClient(cc grpc.ClientConnInterface) *StoreClient {
	return &StoreClient{cc: cc}
}

// Call encodes req, invokes method and decodes the answer into resp.
// Errors returned by the server keep their gRPC status.
func (c *StoreClient) Call(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := Encode(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return err
	}
	return Decode(out, resp)
}
