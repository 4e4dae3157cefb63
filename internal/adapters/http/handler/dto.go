package handler

import (
	"time"

	"github.com/ogurasousui/employee-awards/internal/core/award"
	"github.com/ogurasousui/employee-awards/internal/core/ballot"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
	"github.com/ogurasousui/employee-awards/internal/core/results"
)

type messageResponse struct {
	Message string `json:"message"`
}

type loginRequest struct {
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	RememberMe bool   `json:"remember_me" form:"remember_me"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Employee  identityBody `json:"employee"`
}

type identityBody struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsStaff bool   `json:"is_staff"`
}

type employeeBody struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
	IsStaff    bool   `json:"is_staff"`
	HasVoted   bool   `json:"has_voted"`
}

type nomineeBody struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
}

type ballotEntryBody struct {
	AwardID            string        `json:"award_id"`
	AwardName          string        `json:"award_name"`
	Description        string        `json:"description,omitempty"`
	DepartmentSpecific bool          `json:"department_specific"`
	Nominees           []nomineeBody `json:"nominees"`
}

type ballotResponse struct {
	CanVote bool              `json:"can_vote"`
	Awards  []ballotEntryBody `json:"awards"`
}

type submitBallotRequest struct {
	Selections map[string]string `json:"selections"`
}

type submitBallotResponse struct {
	Message  string `json:"message"`
	Recorded int    `json:"recorded"`
}

type winnersResponse struct {
	Winners map[string]results.Summary `json:"winners"`
}

type employeesResponse struct {
	Employees []employeeBody `json:"employees"`
}

type awardBody struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	DepartmentSpecific bool   `json:"department_specific"`
}

type awardsResponse struct {
	Awards []awardBody `json:"awards"`
}

func toEmployeeBody(e *employee.Employee) employeeBody {
	return employeeBody{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Department: e.Department,
		IsStaff:    e.IsStaff,
		HasVoted:   e.HasVoted,
	}
}

func toEmployeeBodies(list []*employee.Employee) []employeeBody {
	out := make([]employeeBody, 0, len(list))
	for _, e := range list {
		out = append(out, toEmployeeBody(e))
	}
	return out
}

func toAwardBody(a *award.Award) awardBody {
	return awardBody{
		ID:                 a.ID,
		Name:               a.Name,
		Description:        a.Description,
		DepartmentSpecific: a.DepartmentSpecific,
	}
}

func toAwardBodies(list []*award.Award) []awardBody {
	out := make([]awardBody, 0, len(list))
	for _, a := range list {
		out = append(out, toAwardBody(a))
	}
	return out
}

func toBallotResponse(b *ballot.Ballot) ballotResponse {
	resp := ballotResponse{CanVote: b.CanVote, Awards: make([]ballotEntryBody, 0, len(b.Entries))}
	for _, entry := range b.Entries {
		nominees := make([]nomineeBody, 0, len(entry.Nominees))
		for _, n := range entry.Nominees {
			nominees = append(nominees, nomineeBody{ID: n.ID, Name: n.Name, Department: n.Department})
		}
		resp.Awards = append(resp.Awards, ballotEntryBody{
			AwardID:            entry.Award.ID,
			AwardName:          entry.Award.Name,
			Description:        entry.Award.Description,
			DepartmentSpecific: entry.Award.DepartmentSpecific,
			Nominees:           nominees,
		})
	}
	return resp
}
