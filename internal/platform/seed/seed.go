package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ogurasousui/employee-awards/internal/core/award"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
	"github.com/ogurasousui/employee-awards/internal/platform/logger"
	"gopkg.in/yaml.v3"
)

// Roster は初期投入する社員と表彰カテゴリです。
type Roster struct {
	Employees []EmployeeEntry `yaml:"employees"`
	Awards    []AwardEntry    `yaml:"awards"`
}

// EmployeeEntry は社員 1 名分の投入データです。
type EmployeeEntry struct {
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	IsStaff    bool   `yaml:"is_staff"`
	Department string `yaml:"department"`
}

// AwardEntry はカテゴリ 1 件分の投入データです。
type AwardEntry struct {
	Name               string `yaml:"name"`
	Description        string `yaml:"description"`
	DepartmentSpecific bool   `yaml:"department_specific"`
}

// EmployeeCreator は社員作成ユースケースです。
type EmployeeCreator interface {
	CreateEmployee(ctx context.Context, in employee.CreateEmployeeInput) (*employee.Employee, error)
}

// AwardCreator はカテゴリ作成ユースケースです。
type AwardCreator interface {
	CreateAward(ctx context.Context, in award.CreateAwardInput) (*award.Award, error)
}

// Summary は投入結果の件数です。
type Summary struct {
	EmployeesCreated int
	EmployeesSkipped int
	AwardsCreated    int
	AwardsSkipped    int
}

// LoadRoster は YAML ファイルから Roster を読み込みます。
func LoadRoster(path string) (*Roster, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read file %s: %w", path, err)
	}
	return ParseRoster(b)
}

// ParseRoster は YAML を Roster に変換します。
func ParseRoster(b []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("seed: parse yaml: %w", err)
	}
	if len(r.Employees) == 0 && len(r.Awards) == 0 {
		return nil, errors.New("seed: roster is empty")
	}
	return &r, nil
}

// Apply は Roster を投入します。既に存在するメールアドレスやカテゴリ名は読み飛ばすため、再実行しても重複しません。
func Apply(ctx context.Context, r *Roster, employees EmployeeCreator, awards AwardCreator) (Summary, error) {
	log := logger.FromContext(ctx)
	var sum Summary

	for _, e := range r.Employees {
		_, err := employees.CreateEmployee(ctx, employee.CreateEmployeeInput{
			Name:       e.Name,
			Email:      e.Email,
			Password:   e.Password,
			IsStaff:    e.IsStaff,
			Department: e.Department,
		})
		switch {
		case err == nil:
			sum.EmployeesCreated++
			log.Info().Str("email", e.Email).Bool("is_staff", e.IsStaff).Msg("employee created")
		case errors.Is(err, employee.ErrEmailAlreadyExists):
			sum.EmployeesSkipped++
			log.Debug().Str("email", e.Email).Msg("employee already exists")
		default:
			return sum, fmt.Errorf("seed: employee %q: %w", e.Email, err)
		}
	}

	for _, a := range r.Awards {
		_, err := awards.CreateAward(ctx, award.CreateAwardInput{
			Name:               a.Name,
			Description:        a.Description,
			DepartmentSpecific: a.DepartmentSpecific,
		})
		switch {
		case err == nil:
			sum.AwardsCreated++
			log.Info().Str("award", a.Name).Bool("department_specific", a.DepartmentSpecific).Msg("award created")
		case errors.Is(err, award.ErrNameAlreadyExists):
			sum.AwardsSkipped++
			log.Debug().Str("award", a.Name).Msg("award already exists")
		default:
			return sum, fmt.Errorf("seed: award %q: %w", a.Name, err)
		}
	}

	return sum, nil
}
