package results

import "errors"

var (
	// ErrUnknownAward は票が存在しないカテゴリを参照している場合に返却されます。
	ErrUnknownAward = errors.New("results: vote references unknown award")
	// ErrUnknownNominee は票が存在しない社員を被推薦者として参照している場合に返却されます。
	ErrUnknownNominee = errors.New("results: vote references unknown nominee")
)
