package ballot

import (
	"context"
	"fmt"
	"strings"

	"github.com/ogurasousui/employee-awards/internal/core/award"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
)

// SubmitBallotInput は 1 回分の投票提出です。Selections はカテゴリ ID から被推薦者 ID への対応で、
// 値が空のカテゴリは未選択として扱います。
type SubmitBallotInput struct {
	VoterID    string
	Selections map[string]string
}

// SubmitBallotResult は記録された投票です。
type SubmitBallotResult struct {
	Votes []*Vote
}

// SubmitBallot は投票を 1 トランザクションで記録し、投票済みフラグを立てます。
// 途中で失敗した場合は投票もフラグもロールバックされ、再提出が可能なままになります。
func (s *Service) SubmitBallot(ctx context.Context, in SubmitBallotInput) (*SubmitBallotResult, error) {
	voterID, err := normalizeVoterID(in.VoterID)
	if err != nil {
		return nil, err
	}

	var recorded []*Vote
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		voter, awards, candidates, err := s.loadBallotInputs(txCtx, voterID)
		if err != nil {
			return err
		}
		if !voter.CanVote() {
			return ErrAlreadyVoted
		}

		votes, err := s.buildVotes(voter, awards, candidates, in.Selections)
		if err != nil {
			return err
		}

		// 同一投票者の同時提出はこの更新の行ロックで直列化され、後続は 0 行更新で弾かれる。
		if err := s.employees.MarkVoted(txCtx, voter.ID); err != nil {
			return err
		}

		for _, v := range votes {
			if err := s.votes.Create(txCtx, v); err != nil {
				return fmt.Errorf("ballot: record vote for award %s: %w", v.AwardID, err)
			}
		}

		recorded = votes
		return nil
	}); err != nil {
		return nil, err
	}

	return &SubmitBallotResult{Votes: recorded}, nil
}

func (s *Service) buildVotes(voter *employee.Employee, awards []*award.Award, candidates []*employee.Employee, selections map[string]string) ([]*Vote, error) {
	byID := make(map[string]*award.Award, len(awards))
	for _, a := range awards {
		byID[a.ID] = a
	}

	normalized := make(map[string]string, len(selections))
	for rawAward, rawNominee := range selections {
		nomineeID := strings.TrimSpace(rawNominee)
		if nomineeID == "" {
			continue
		}
		awardID := strings.TrimSpace(rawAward)
		if _, ok := byID[awardID]; !ok {
			return nil, fmt.Errorf("award %q: %w", awardID, ErrAwardNotFound)
		}
		if _, dup := normalized[awardID]; dup {
			return nil, fmt.Errorf("award %q: %w", awardID, ErrDuplicateSelection)
		}
		normalized[awardID] = nomineeID
	}

	now := s.clock.Now()
	votes := make([]*Vote, 0, len(normalized))
	for _, a := range awards {
		nomineeID, ok := normalized[a.ID]
		if !ok {
			continue
		}
		if !containsEmployee(EligibleNominees(a, voter, candidates), nomineeID) {
			return nil, fmt.Errorf("award %q nominee %q: %w", a.Name, nomineeID, ErrIneligibleNominee)
		}
		votes = append(votes, &Vote{
			ID:        s.ids.NewID(),
			VoterID:   voter.ID,
			AwardID:   a.ID,
			NomineeID: nomineeID,
			CreatedAt: now,
		})
	}
	return votes, nil
}

func containsEmployee(list []*employee.Employee, id string) bool {
	for _, e := range list {
		if e.ID == id {
			return true
		}
	}
	return false
}
