package results

import (
	"fmt"
	"sort"

	"github.com/ogurasousui/employee-awards/internal/core/award"
	"github.com/ogurasousui/employee-awards/internal/core/ballot"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
)

const (
	// NoVotesCast は票が 1 票も無い集計単位で winners に入る表示名です。
	NoVotesCast = "No votes cast"
	// NoDepartment は部署未設定の社員をまとめた集計単位の表示名です。
	NoDepartment = "No department"
)

// Winner は最多得票者 1 名です。
type Winner struct {
	EmployeeID string
	Name       string
	Department string
}

// Entry はカテゴリ (部署別カテゴリでは部署ごと) の集計結果です。
// Winners が空の場合は票が無かったことを表し、VoteCount は 0 です。
type Entry struct {
	Key        string
	AwardID    string
	AwardName  string
	Department string
	// PerDepartment は部署別カテゴリの集計単位であることを示します。
	PerDepartment bool
	Winners       []Winner
	VoteCount     int
	TotalVotes    int
}

// DepartmentLabel は表示用の部署名を返します。部署別でないカテゴリでは空文字です。
func (e Entry) DepartmentLabel() string {
	if e.PerDepartment && e.Department == "" {
		return NoDepartment
	}
	return e.Department
}

// WinnerNames は表示用の勝者名を返します。票が無い場合は NoVotesCast のみを返します。
func (e Entry) WinnerNames() []string {
	if len(e.Winners) == 0 {
		return []string{NoVotesCast}
	}
	out := make([]string, 0, len(e.Winners))
	for _, w := range e.Winners {
		out = append(out, w.Name)
	}
	return out
}

// Summary は表示層に渡す {winners, vote_count} の組です。
type Summary struct {
	Winners   []string `json:"winners"`
	VoteCount int      `json:"vote_count"`
}

// Report は全カテゴリの集計結果です。Entries はカテゴリ名順、部署名順に並び、
// 部署未設定の集計単位は各カテゴリの最後に置かれます。
type Report struct {
	Entries []Entry
}

// Winners は表示キーから Summary への対応を返します。
func (r *Report) Winners() map[string]Summary {
	out := make(map[string]Summary, len(r.Entries))
	for _, e := range r.Entries {
		out[e.Key] = Summary{Winners: e.WinnerNames(), VoteCount: e.VoteCount}
	}
	return out
}

// Resolve はカテゴリごとに最多得票者を求めます。同数の場合は全員を勝者とします。
// 部署別カテゴリは社員に存在する部署ごとに独立して集計し、票は被推薦者の部署に数えます。
// 部署未設定の被推薦者への票は NoDepartment の集計単位に数えます。この単位は票がある場合と、
// 部署を持つ社員が 1 人もいない場合にだけ出力されます。
// 存在しないカテゴリや社員を参照する票があれば ErrUnknownAward / ErrUnknownNominee を返します。
func Resolve(awards []*award.Award, employees []*employee.Employee, votes []*ballot.Vote) (*Report, error) {
	awardsByID := make(map[string]*award.Award, len(awards))
	for _, a := range awards {
		awardsByID[a.ID] = a
	}

	employeesByID := make(map[string]*employee.Employee, len(employees))
	departmentSet := make(map[string]struct{})
	for _, e := range employees {
		employeesByID[e.ID] = e
		if e.Department != "" {
			departmentSet[e.Department] = struct{}{}
		}
	}
	departments := make([]string, 0, len(departmentSet))
	for d := range departmentSet {
		departments = append(departments, d)
	}
	sort.Strings(departments)

	votesByAward := make(map[string][]*employee.Employee, len(awards))
	for _, v := range votes {
		if _, ok := awardsByID[v.AwardID]; !ok {
			return nil, fmt.Errorf("vote %s references award %s: %w", v.ID, v.AwardID, ErrUnknownAward)
		}
		nominee, ok := employeesByID[v.NomineeID]
		if !ok {
			return nil, fmt.Errorf("vote %s references nominee %s: %w", v.ID, v.NomineeID, ErrUnknownNominee)
		}
		votesByAward[v.AwardID] = append(votesByAward[v.AwardID], nominee)
	}

	ordered := make([]*award.Award, len(awards))
	copy(ordered, awards)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Name == ordered[j].Name {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].Name < ordered[j].Name
	})

	report := &Report{Entries: make([]Entry, 0, len(ordered))}
	for _, a := range ordered {
		nominees := votesByAward[a.ID]

		if !a.DepartmentSpecific {
			report.Entries = append(report.Entries, tally(a, "", false, nominees))
			continue
		}

		byDepartment := make(map[string][]*employee.Employee, len(departments)+1)
		for _, n := range nominees {
			byDepartment[n.Department] = append(byDepartment[n.Department], n)
		}
		units := departments[:len(departments):len(departments)]
		if len(byDepartment[""]) > 0 || len(departments) == 0 {
			units = append(units, "")
		}
		for _, d := range units {
			report.Entries = append(report.Entries, tally(a, d, true, byDepartment[d]))
		}
	}

	return report, nil
}

func tally(a *award.Award, department string, perDepartment bool, nominees []*employee.Employee) Entry {
	entry := Entry{
		Key:           entryKey(a.Name, department, perDepartment),
		AwardID:       a.ID,
		AwardName:     a.Name,
		Department:    department,
		PerDepartment: perDepartment,
		Winners:       []Winner{},
		TotalVotes:    len(nominees),
	}

	counts := make(map[string]int, len(nominees))
	byID := make(map[string]*employee.Employee, len(nominees))
	top := 0
	for _, n := range nominees {
		counts[n.ID]++
		byID[n.ID] = n
		if counts[n.ID] > top {
			top = counts[n.ID]
		}
	}
	if top == 0 {
		return entry
	}

	for id, c := range counts {
		if c != top {
			continue
		}
		n := byID[id]
		entry.Winners = append(entry.Winners, Winner{EmployeeID: n.ID, Name: n.Name, Department: n.Department})
	}
	sort.Slice(entry.Winners, func(i, j int) bool {
		if entry.Winners[i].Name == entry.Winners[j].Name {
			return entry.Winners[i].EmployeeID < entry.Winners[j].EmployeeID
		}
		return entry.Winners[i].Name < entry.Winners[j].Name
	})
	entry.VoteCount = top
	return entry
}

func entryKey(awardName, department string, perDepartment bool) string {
	switch {
	case !perDepartment:
		return awardName
	case department == "":
		return fmt.Sprintf("%s (%s)", awardName, NoDepartment)
	default:
		return fmt.Sprintf("%s (%s)", awardName, department)
	}
}
