package handler

import (
	"context"
	"testing"

	"github.com/ogurasousui/employee-awards/internal/core/hello"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	emptypb "google.golang.org/protobuf/types/known/emptypb"
)

type stubGreeter struct {
	message string
}

func (s stubGreeter) SayHello(ctx context.Context) (string, error) {
	return s.message, nil
}

func TestGreeterHandler_SayHello(t *testing.T) {
	t.Parallel()

	handler := NewGreeterHandler(stubGreeter{message: "Welcome to the Acme employee awards"})

	resp, err := handler.SayHello(context.Background(), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.GetValue() != "Welcome to the Acme employee awards" {
		t.Fatalf("unexpected message %q", resp.GetValue())
	}
}

func TestGreeterHandler_SayHello_DefaultCompany(t *testing.T) {
	t.Parallel()

	handler := NewGreeterHandler(hello.NewService("  "))

	resp, err := handler.SayHello(context.Background(), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "Welcome to the " + hello.DefaultCompany + " employee awards"; resp.GetValue() != want {
		t.Fatalf("expected %q, got %q", want, resp.GetValue())
	}
}

func TestGreeterHandler_SayHello_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGreeterHandler(hello.NewService("Acme")).SayHello(ctx, &emptypb.Empty{})
	if status.Code(err) != codes.Canceled {
		t.Fatalf("expected Canceled, got %v", err)
	}
}
