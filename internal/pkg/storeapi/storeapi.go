// Package storeapi is the gRPC contract between dashboard-api and
// store-service.
//
// Every message is a google.protobuf.Struct carrying a JSON document:
//
//	FetchAllUsers      {}                                 -> {"users": [...]}
//	UpdateOrderStatus  UpdateOrderStatusRequest           -> {"orderId", "status", "updatedAt"}
//	FetchProducts      {}                                 -> {"products": [...]}
//	FetchCartByPhone   CartRequest                        -> {"userKey", "phone", "items": {...}}
//	AddToCart          AddToCartRequest                   -> AddToCartResponse
//	RemoveFromCart     RemoveFromCartRequest              -> {}
//
// FetchCartByPhone answers codes.NotFound when no user owns the phone.
package storeapi

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "printhub.store.v1.Store"

const (
	MethodFetchAllUsers     = "FetchAllUsers"
	MethodUpdateOrderStatus = "UpdateOrderStatus"
	MethodFetchProducts     = "FetchProducts"
	MethodFetchCartByPhone  = "FetchCartByPhone"
	MethodAddToCart         = "AddToCart"
	MethodRemoveFromCart    = "RemoveFromCart"
)

// FullMethod returns the path used on the wire, e.g.
// "/printhub.store.v1.Store/AddToCart".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type UpdateOrderStatusRequest struct {
	UserID   string `json:"userId"`
	OrderKey string `json:"orderKey"`
	Status   string `json:"status"`
}

type CartRequest struct {
	Phone string `json:"phone"`
}

// CartItemInput is the line written by AddToCart. The key is assigned by
// the store.
type CartItemInput struct {
	ProductID     string          `json:"productId"`
	ModelName     string          `json:"modelName"`
	Image         string          `json:"image,omitempty"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Off           decimal.Decimal `json:"off"`
	Quantity      int             `json:"quantity"`
}

type AddToCartRequest struct {
	Phone string        `json:"phone"`
	Item  CartItemInput `json:"item"`
}

type AddToCartResponse struct {
	Key string `json:"key"`
}

type RemoveFromCartRequest struct {
	Phone  string `json:"phone"`
	ItemID string `json:"itemId"`
}

// Encode turns any JSON object shaped value into a Struct. A nil value
// encodes as an empty Struct.
func Encode(v any) (*structpb.Struct, error) {
	if v == nil {
		return &structpb.Struct{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("storeapi: encode: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("storeapi: encode: %w", err)
	}
	return s, nil
}

// Decode fills v from s. A nil v discards the payload.
func Decode(s *structpb.Struct, v any) error {
	if v == nil {
		return nil
	}
	if s == nil {
		s = &structpb.Struct{}
	}
	raw, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("storeapi: decode: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("storeapi: decode: %w", err)
	}
	return nil
}
