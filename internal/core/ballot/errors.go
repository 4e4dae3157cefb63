package ballot

import (
	"errors"

	"github.com/ogurasousui/employee-awards/internal/core/award"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
)

var (
	// ErrInvalidVoterID は投票者 ID が空の場合に返却されます。
	ErrInvalidVoterID = errors.New("ballot: invalid voter id")
	// ErrAlreadyVoted は投票済みの社員が再度提出した場合に返却されます。
	ErrAlreadyVoted = employee.ErrAlreadyVoted
	// ErrAwardNotFound は存在しないカテゴリが選択された場合に返却されます。
	ErrAwardNotFound = award.ErrAwardNotFound
	// ErrIneligibleNominee は選択された社員がそのカテゴリで推薦対象外の場合に返却されます。
	ErrIneligibleNominee = errors.New("ballot: nominee is not eligible for award")
	// ErrDuplicateSelection は同じカテゴリへの選択が複数含まれる場合に返却されます。
	ErrDuplicateSelection = errors.New("ballot: duplicate selection for award")
)
