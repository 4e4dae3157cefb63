package ballot

import (
	"time"

	"github.com/ogurasousui/employee-awards/internal/core/award"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
)

// Vote は投票者がある表彰カテゴリで選んだ被推薦者 1 名を記録します。作成後は更新も削除もされません。
type Vote struct {
	ID        string
	VoterID   string
	AwardID   string
	NomineeID string
	CreatedAt time.Time
}

// Ballot は投票画面に渡す、カテゴリごとの推薦可能者一覧です。
// 一覧は表示用であり、提出時にはサーバー側で再検証されます。
type Ballot struct {
	Voter   *employee.Employee
	CanVote bool
	Entries []BallotEntry
}

// BallotEntry は 1 カテゴリ分の選択肢です。
type BallotEntry struct {
	Award    *award.Award
	Nominees []*employee.Employee
}
