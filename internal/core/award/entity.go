package award

import "time"

// Award は投票対象となる表彰カテゴリです。
type Award struct {
	ID                 string
	Name               string
	Description        string
	DepartmentSpecific bool
	CreatedAt          time.Time
}
