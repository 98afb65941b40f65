package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"shareit/internal/models"
)

const (
	ShareItServiceName = "shareit.v1.ShareIt"
	userIDMetadataKey  = "x-sharer-user-id"
)

// ShareItServer is the read-only gRPC surface. Requests and replies are google.protobuf.Struct.
type ShareItServer interface {
	GetItem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	SearchItems(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	GetBooking(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type shareItCall func(srv ShareItServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call shareItCall) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ShareItServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ShareItServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ShareItServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ShareItServiceDesc = grpc.ServiceDesc{
	ServiceName: ShareItServiceName,
	HandlerType: (*ShareItServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetItem", Handler: unaryHandler("GetItem", ShareItServer.GetItem)},
		{MethodName: "SearchItems", Handler: unaryHandler("SearchItems", ShareItServer.SearchItems)},
		{MethodName: "GetBooking", Handler: unaryHandler("GetBooking", ShareItServer.GetBooking)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "shareit/v1/shareit.proto",
}

func isShareItMethod(fullMethod string) bool {
	return strings.HasPrefix(fullMethod, "/"+ShareItServiceName+"/")
}

// ShareItService serves ShareItServer from the domain services.
type ShareItService struct {
	services Services
}

func NewShareItService(services Services) *ShareItService {
	return &ShareItService{services: services}
}

func (s *ShareItService) GetItem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromMetadata(ctx)
	if err != nil {
		return nil, err
	}
	itemID, err := intField(in, "itemId", true, 0)
	if err != nil {
		return nil, err
	}
	item, err := s.services.Items.FindByID(ctx, itemID, userID)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(item)
}

func (s *ShareItService) SearchItems(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if _, err := userIDFromMetadata(ctx); err != nil {
		return nil, err
	}
	from, err := intField(in, "from", false, models.DefaultPageFrom)
	if err != nil {
		return nil, err
	}
	size, err := intField(in, "size", false, models.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	if from < 0 || size <= 0 {
		return nil, status.Error(codes.InvalidArgument, "from must be >= 0 and size must be > 0")
	}

	text := in.GetFields()["text"].GetStringValue()
	items, err := s.services.Items.SearchByText(ctx, text, models.Page{From: int(from), Size: int(size)})
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(map[string]any{"items": items})
}

func (s *ShareItService) GetBooking(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromMetadata(ctx)
	if err != nil {
		return nil, err
	}
	bookingID, err := intField(in, "bookingId", true, 0)
	if err != nil {
		return nil, err
	}
	booking, err := s.services.Bookings.FindByID(ctx, bookingID, userID)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(booking)
}

func userIDFromMetadata(ctx context.Context) (int64, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	raw := first(md.Get(userIDMetadataKey))
	if raw == "" {
		return 0, status.Errorf(codes.InvalidArgument, "missing %s metadata", userIDMetadataKey)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number", userIDMetadataKey)
	}
	return id, nil
}

func intField(in *structpb.Struct, name string, required bool, fallback int64) (int64, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		if required {
			return 0, status.Errorf(codes.InvalidArgument, "%s is required", name)
		}
		return fallback, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer", name)
	}
	return int64(n.NumberValue), nil
}

// toStruct goes through the JSON form so replies carry the same field names as the REST API.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode reply: %v", err))
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode reply: %v", err))
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode reply: %v", err))
	}
	return out, nil
}
