package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/ogurasousui/employee-awards/internal/adapters/report"
	"github.com/ogurasousui/employee-awards/internal/core/auth"
	"github.com/ogurasousui/employee-awards/internal/core/award"
	"github.com/ogurasousui/employee-awards/internal/core/ballot"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
	"github.com/ogurasousui/employee-awards/internal/core/hello"
	"github.com/ogurasousui/employee-awards/internal/core/results"
	"github.com/ogurasousui/employee-awards/internal/platform/logger"
	"github.com/rs/zerolog"
)

// EmployeeDirectory は職員向けの社員参照です。
type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, in employee.GetEmployeeInput) (*employee.Employee, error)
	ListEmployees(ctx context.Context) ([]*employee.Employee, error)
	ListNotVoted(ctx context.Context) ([]*employee.Employee, error)
}

// AwardCatalog は職員向けの表彰カテゴリ参照です。
type AwardCatalog interface {
	GetAward(ctx context.Context, id string) (*award.Award, error)
	ListAwards(ctx context.Context) ([]*award.Award, error)
}

// CookieConfig はセッションクッキーの属性です。
type CookieConfig struct {
	Name   string
	Secure bool
}

// Dependencies は HTTP ハンドラが呼び出すユースケース群です。
type Dependencies struct {
	Greeter   hello.Greeter
	Auth      auth.UseCase
	Ballots   ballot.UseCase
	Winners   results.UseCase
	Employees EmployeeDirectory
	Awards    AwardCatalog
	Cookie    CookieConfig
}

// Handler は投票画面と職員向け画面の HTTP 実装です。
type Handler struct {
	deps Dependencies
}

// New は Handler を生成します。
func New(deps Dependencies) *Handler {
	return &Handler{deps: deps}
}

// NewEcho はミドルウェアとルーティングを設定した echo インスタンスを返します。
func NewEcho(deps Dependencies, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RequestID())
	e.Use(RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(Authenticate(deps.Auth, deps.Cookie.Name))

	New(deps).Register(e)
	return e
}

// Register はルートを登録します。
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/healthz", h.Health)
	e.POST("/login", h.Login)
	e.POST("/logout", h.Logout, RequireLogin)

	e.GET("/ballot", h.GetBallot, RequireLogin)
	e.POST("/ballot", h.SubmitBallot, RequireLogin)

	e.GET("/award-winners", h.AwardWinners, RequireStaff)
	e.GET("/award-winners/export", h.ExportAwardWinners, RequireStaff)
	e.GET("/view-not-voted", h.ViewNotVoted, RequireStaff)
	e.GET("/all-users", h.AllUsers, RequireStaff)
	e.GET("/employees/:id", h.GetEmployee, RequireStaff)
	e.GET("/awards", h.ListAwards, RequireStaff)
	e.GET("/awards/:id", h.GetAward, RequireStaff)
}

// Index は会社名入りの案内文を返します。
func (h *Handler) Index(c echo.Context) error {
	msg, err := h.deps.Greeter.SayHello(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// Health は死活監視用です。
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Login は認証に成功するとセッションクッキーを設定し、トークンも返します。
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	session, err := h.deps.Auth.Login(c.Request().Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     h.deps.Cookie.Name,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.deps.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if req.RememberMe {
		cookie.Expires = session.ExpiresAt
	}
	c.SetCookie(cookie)

	logger.FromContext(c.Request().Context()).Info().
		Str("employee_id", session.Identity.EmployeeID).
		Bool("remember", req.RememberMe).
		Msg("employee logged in")

	return c.JSON(http.StatusOK, loginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Employee: identityBody{
			ID:      session.Identity.EmployeeID,
			Name:    session.Identity.Name,
			IsStaff: session.Identity.IsStaff,
		},
	})
}

// Logout はセッションクッキーを削除します。
func (h *Handler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     h.deps.Cookie.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.deps.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// GetBallot はログイン中の社員の投票用紙を返します。
func (h *Handler) GetBallot(c echo.Context) error {
	b, err := h.deps.Ballots.GetBallot(c.Request().Context(), CurrentIdentity(c).EmployeeID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBallotResponse(b))
}

// SubmitBallot はログイン中の社員の投票を記録します。
func (h *Handler) SubmitBallot(c echo.Context) error {
	var req submitBallotRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	res, err := h.deps.Ballots.SubmitBallot(c.Request().Context(), ballot.SubmitBallotInput{
		VoterID:    CurrentIdentity(c).EmployeeID,
		Selections: req.Selections,
	})
	if err != nil {
		return err
	}

	logger.FromContext(c.Request().Context()).Info().Int("votes", len(res.Votes)).Msg("ballot submitted")
	return c.JSON(http.StatusCreated, submitBallotResponse{Message: "ballot recorded", Recorded: len(res.Votes)})
}

// AwardWinners はカテゴリごとの最多得票者を返します。
func (h *Handler) AwardWinners(c echo.Context) error {
	rep, err := h.deps.Winners.GetWinners(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, winnersResponse{Winners: rep.Winners()})
}

// ExportAwardWinners は集計結果を XLSX で返します。
func (h *Handler) ExportAwardWinners(c echo.Context) error {
	rep, err := h.deps.Winners.GetWinners(c.Request().Context())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := report.WriteWinners(&buf, rep); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="award_winners.xlsx"`)
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(buf.Len()))
	return c.Blob(http.StatusOK, report.ContentType, buf.Bytes())
}

// ViewNotVoted はまだ投票していない社員を返します。
func (h *Handler) ViewNotVoted(c echo.Context) error {
	list, err := h.deps.Employees.ListNotVoted(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employeesResponse{Employees: toEmployeeBodies(list)})
}

// AllUsers は全社員を返します。
func (h *Handler) AllUsers(c echo.Context) error {
	list, err := h.deps.Employees.ListEmployees(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employeesResponse{Employees: toEmployeeBodies(list)})
}

// GetEmployee は社員 1 名の詳細を返します。
func (h *Handler) GetEmployee(c echo.Context) error {
	e, err := h.deps.Employees.GetEmployee(c.Request().Context(), employee.GetEmployeeInput{ID: c.Param("id")})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeBody(e))
}

// ListAwards は表彰カテゴリの一覧を返します。
func (h *Handler) ListAwards(c echo.Context) error {
	list, err := h.deps.Awards.ListAwards(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, awardsResponse{Awards: toAwardBodies(list)})
}

// GetAward は表彰カテゴリ 1 件を返します。
func (h *Handler) GetAward(c echo.Context) error {
	a, err := h.deps.Awards.GetAward(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAwardBody(a))
}
