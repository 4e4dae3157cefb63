package handler

import (
	"context"

	"github.com/ogurasousui/employee-awards/internal/core/hello"
	emptypb "google.golang.org/protobuf/types/known/emptypb"
	wrapperspb "google.golang.org/protobuf/types/known/wrapperspb"
)

// GreeterHandler は gRPC 層から挨拶ユースケースを呼び出すアダプタです。
type GreeterHandler struct {
	greeter hello.Greeter
}

var _ GreeterServiceServer = (*GreeterHandler)(nil)

// NewGreeterHandler は GreeterHandler を生成します。
func NewGreeterHandler(g hello.Greeter) *GreeterHandler {
	return &GreeterHandler{greeter: g}
}

// SayHello は会社名入りの案内文を返します。
func (h *GreeterHandler) SayHello(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	message, err := h.greeter.SayHello(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return wrapperspb.String(message), nil
}
