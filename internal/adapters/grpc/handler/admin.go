package handler

import (
	"context"

	"github.com/ogurasousui/employee-awards/internal/core/employee"
	"github.com/ogurasousui/employee-awards/internal/core/results"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	emptypb "google.golang.org/protobuf/types/known/emptypb"
	structpb "google.golang.org/protobuf/types/known/structpb"
)

// NotVotedLister は未投票者一覧の取得です。
type NotVotedLister interface {
	ListNotVoted(ctx context.Context) ([]*employee.Employee, error)
}

// AdminHandler は職員向けの集計・未投票者参照を提供する gRPC 実装です。
type AdminHandler struct {
	winners   results.UseCase
	employees NotVotedLister
}

var _ AdminServiceServer = (*AdminHandler)(nil)

// NewAdminHandler は AdminHandler を生成します。
func NewAdminHandler(winners results.UseCase, employees NotVotedLister) *AdminHandler {
	return &AdminHandler{winners: winners, employees: employees}
}

// GetAwardWinners は {"winners": {"<表示キー>": {"winners": [...], "vote_count": n}}} を返します。
func (h *AdminHandler) GetAwardWinners(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	report, err := h.winners.GetWinners(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	entries := make(map[string]any, len(report.Entries))
	for key, summary := range report.Winners() {
		names := make([]any, 0, len(summary.Winners))
		for _, n := range summary.Winners {
			names = append(names, n)
		}
		entries[key] = map[string]any{
			"winners":    names,
			"vote_count": summary.VoteCount,
		}
	}

	out, err := structpb.NewStruct(map[string]any{"winners": entries})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode winners: %v", err)
	}
	return out, nil
}

// ListNotVoted は {"employees": [{"id", "name", "email", "department"}]} を返します。
func (h *AdminHandler) ListNotVoted(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	employees, err := h.employees.ListNotVoted(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	list := make([]any, 0, len(employees))
	for _, e := range employees {
		list = append(list, map[string]any{
			"id":         e.ID,
			"name":       e.Name,
			"email":      e.Email,
			"department": e.Department,
		})
	}

	out, err := structpb.NewStruct(map[string]any{"employees": list})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode employees: %v", err)
	}
	return out, nil
}
