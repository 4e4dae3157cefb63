package ballot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ogurasousui/employee-awards/internal/core/award"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
)

// EligibleNominees は voter が a に投票するときに選べる社員を返します。
// スタッフは常に除外され、部署別カテゴリでは voter と同じ部署の社員だけが残ります。
// 部署が未設定の voter は部署別カテゴリで誰も選べません。
func EligibleNominees(a *award.Award, voter *employee.Employee, candidates []*employee.Employee) []*employee.Employee {
	if a == nil || voter == nil {
		return nil
	}
	if a.DepartmentSpecific && voter.Department == "" {
		return []*employee.Employee{}
	}

	out := make([]*employee.Employee, 0, len(candidates))
	for _, c := range candidates {
		if !c.IsNominee() {
			continue
		}
		if a.DepartmentSpecific && c.Department != voter.Department {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CanVote は voterID の社員がまだ投票を提出できるかを返します。
// 社員が存在しない場合は employee.ErrEmployeeNotFound を返します。
func (s *Service) CanVote(ctx context.Context, voterID string) (bool, error) {
	id, err := normalizeVoterID(voterID)
	if err != nil {
		return false, err
	}

	var can bool
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		voter, err := s.employees.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		can = voter.CanVote()
		return nil
	}); err != nil {
		return false, err
	}
	return can, nil
}

// GetBallot は投票画面用にカテゴリごとの推薦可能者を返します。
func (s *Service) GetBallot(ctx context.Context, voterID string) (*Ballot, error) {
	id, err := normalizeVoterID(voterID)
	if err != nil {
		return nil, err
	}

	var result *Ballot
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		voter, awards, candidates, err := s.loadBallotInputs(txCtx, id)
		if err != nil {
			return err
		}

		entries := make([]BallotEntry, 0, len(awards))
		for _, a := range awards {
			entries = append(entries, BallotEntry{
				Award:    a,
				Nominees: EligibleNominees(a, voter, candidates),
			})
		}

		result = &Ballot{
			Voter:   voter,
			CanVote: voter.CanVote(),
			Entries: entries,
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) loadBallotInputs(ctx context.Context, voterID string) (*employee.Employee, []*award.Award, []*employee.Employee, error) {
	voter, err := s.employees.FindByID(ctx, voterID)
	if err != nil {
		return nil, nil, nil, err
	}

	awards, err := s.awards.List(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ballot: list awards: %w", err)
	}

	nonStaff := false
	candidates, err := s.employees.List(ctx, employee.ListEmployeesFilter{IsStaff: &nonStaff})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ballot: list nominees: %w", err)
	}

	return voter, awards, candidates, nil
}

func normalizeVoterID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ErrInvalidVoterID
	}
	return id, nil
}
