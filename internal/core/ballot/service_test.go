package ballot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ogurasousui/employee-awards/internal/core/award"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
)

type stubClock struct {
	now time.Time
}

func (s stubClock) Now() time.Time {
	return s.now
}

type seqIDs struct {
	n atomic.Int64
}

func (s *seqIDs) NewID() string {
	return fmt.Sprintf("vote-%d", s.n.Add(1))
}

// memStore は 1 つのミューテックスでトランザクションを直列化し、失敗時にスナップショットへ戻すフェイクです。
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	employees map[string]*employee.Employee
	awards    []*award.Award
	votes     []*Vote

	failVoteAt int
	creates    int
	staleReads bool
}

func newMemStore() *memStore {
	return &memStore{employees: make(map[string]*employee.Employee)}
}

func (m *memStore) addEmployee(e employee.Employee) *employee.Employee {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := e
	m.employees[e.ID] = &clone
	return &clone
}

func (m *memStore) addAward(a award.Award) *award.Award {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := a
	m.awards = append(m.awards, &clone)
	sort.Slice(m.awards, func(i, j int) bool { return m.awards[i].Name < m.awards[j].Name })
	return &clone
}

func (m *memStore) get(id string) employee.Employee {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.employees[id]
}

func (m *memStore) voteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.votes)
}

func (m *memStore) FindByID(_ context.Context, id string) (*employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	clone := *e
	if m.staleReads {
		clone.HasVoted = false
	}
	return &clone, nil
}

func (m *memStore) List(_ context.Context, filter employee.ListEmployeesFilter) ([]*employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*employee.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		if filter.IsStaff != nil && e.IsStaff != *filter.IsStaff {
			continue
		}
		if filter.HasVoted != nil && e.HasVoted != *filter.HasVoted {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) MarkVoted(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok || e.HasVoted {
		return employee.ErrAlreadyVoted
	}
	e.HasVoted = true
	return nil
}

type memAwards struct{ m *memStore }

func (a memAwards) List(context.Context) ([]*award.Award, error) {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	out := make([]*award.Award, len(a.m.awards))
	copy(out, a.m.awards)
	return out, nil
}

type memVotes struct{ m *memStore }

func (v memVotes) Create(_ context.Context, vote *Vote) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	v.m.creates++
	if v.m.failVoteAt > 0 && v.m.creates == v.m.failVoteAt {
		return errors.New("insert failed")
	}
	clone := *vote
	v.m.votes = append(v.m.votes, &clone)
	return nil
}

func (v memVotes) List(context.Context) ([]*Vote, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	out := make([]*Vote, len(v.m.votes))
	copy(out, v.m.votes)
	return out, nil
}

type memTx struct{ m *memStore }

func (t memTx) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	t.m.txMu.Lock()
	defer t.m.txMu.Unlock()
	return fn(ctx)
}

func (t memTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	t.m.txMu.Lock()
	defer t.m.txMu.Unlock()

	t.m.mu.Lock()
	savedEmployees := make(map[string]employee.Employee, len(t.m.employees))
	for id, e := range t.m.employees {
		savedEmployees[id] = *e
	}
	savedVotes := len(t.m.votes)
	t.m.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.m.mu.Lock()
		for id, e := range savedEmployees {
			restored := e
			t.m.employees[id] = &restored
		}
		t.m.votes = t.m.votes[:savedVotes]
		t.m.mu.Unlock()
		return err
	}
	return nil
}

type fixture struct {
	store *memStore
	svc   *Service

	mvp        *award.Award
	teamPlayer *award.Award

	alice *employee.Employee // Engineering
	bob   *employee.Employee // Engineering
	carol *employee.Employee // Sales
	dave  *employee.Employee // no department
	staff *employee.Employee // Engineering staff
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	f := &fixture{store: store}
	f.mvp = store.addAward(award.Award{ID: "award-mvp", Name: "MVP"})
	f.teamPlayer = store.addAward(award.Award{ID: "award-tp", Name: "Team Player", DepartmentSpecific: true})

	f.alice = store.addEmployee(employee.Employee{ID: "emp-alice", Name: "Alice", Department: "Engineering"})
	f.bob = store.addEmployee(employee.Employee{ID: "emp-bob", Name: "Bob", Department: "Engineering"})
	f.carol = store.addEmployee(employee.Employee{ID: "emp-carol", Name: "Carol", Department: "Sales"})
	f.dave = store.addEmployee(employee.Employee{ID: "emp-dave", Name: "Dave"})
	f.staff = store.addEmployee(employee.Employee{ID: "emp-staff", Name: "Sam", Department: "Engineering", IsStaff: true})

	f.svc = NewService(store, memAwards{store}, memVotes{store}, memTx{store}, stubClock{now: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)}, &seqIDs{})
	return f
}

func names(list []*employee.Employee) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Name)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEligibleNominees(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	candidates := []*employee.Employee{f.carol, f.staff, f.bob, f.alice, f.dave}

	cases := []struct {
		name  string
		award *award.Award
		voter *employee.Employee
		want  []string
	}{
		{"company wide excludes staff", f.mvp, f.alice, []string{"Alice", "Bob", "Carol", "Dave"}},
		{"department award keeps voter department", f.teamPlayer, f.alice, []string{"Alice", "Bob"}},
		{"department award for sales", f.teamPlayer, f.carol, []string{"Carol"}},
		{"voter without department", f.teamPlayer, f.dave, []string{}},
		{"staff voter still sees non-staff only", f.teamPlayer, f.staff, []string{"Alice", "Bob"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := names(EligibleNominees(tc.award, tc.voter, candidates))
			if !equalStrings(got, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestService_GetBallot_FiltersPerAward(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	b, err := f.svc.GetBallot(context.Background(), f.carol.ID)
	if err != nil {
		t.Fatalf("GetBallot returned error: %v", err)
	}
	if !b.CanVote {
		t.Fatal("expected voter to be able to vote")
	}
	if len(b.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(b.Entries))
	}
	if b.Entries[0].Award.ID != f.mvp.ID || !equalStrings(names(b.Entries[0].Nominees), []string{"Alice", "Bob", "Carol", "Dave"}) {
		t.Fatalf("unexpected MVP entry: %v", names(b.Entries[0].Nominees))
	}
	if b.Entries[1].Award.ID != f.teamPlayer.ID || !equalStrings(names(b.Entries[1].Nominees), []string{"Carol"}) {
		t.Fatalf("unexpected Team Player entry: %v", names(b.Entries[1].Nominees))
	}
}

func TestService_CanVote(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	can, err := f.svc.CanVote(context.Background(), f.alice.ID)
	if err != nil || !can {
		t.Fatalf("expected alice to be able to vote, got %v, %v", can, err)
	}

	if _, err := f.svc.CanVote(context.Background(), "missing"); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	if _, err := f.svc.CanVote(context.Background(), " "); !errors.Is(err, ErrInvalidVoterID) {
		t.Fatalf("expected ErrInvalidVoterID, got %v", err)
	}
}

func TestService_SubmitBallot_Success(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	res, err := f.svc.SubmitBallot(context.Background(), SubmitBallotInput{
		VoterID: f.alice.ID,
		Selections: map[string]string{
			f.mvp.ID:        f.carol.ID,
			f.teamPlayer.ID: " " + f.bob.ID + " ",
		},
	})
	if err != nil {
		t.Fatalf("SubmitBallot returned error: %v", err)
	}

	if len(res.Votes) != 2 {
		t.Fatalf("expected 2 votes, got %d", len(res.Votes))
	}
	if res.Votes[0].AwardID != f.mvp.ID || res.Votes[0].NomineeID != f.carol.ID || res.Votes[0].VoterID != f.alice.ID {
		t.Fatalf("unexpected first vote: %+v", res.Votes[0])
	}
	if res.Votes[1].AwardID != f.teamPlayer.ID || res.Votes[1].NomineeID != f.bob.ID {
		t.Fatalf("unexpected second vote: %+v", res.Votes[1])
	}
	if res.Votes[0].ID == "" || res.Votes[0].ID == res.Votes[1].ID {
		t.Fatalf("expected distinct vote ids, got %q and %q", res.Votes[0].ID, res.Votes[1].ID)
	}
	if !f.store.get(f.alice.ID).HasVoted {
		t.Fatal("expected has-voted flag to flip")
	}
	if f.store.voteCount() != 2 {
		t.Fatalf("expected 2 stored votes, got %d", f.store.voteCount())
	}
}

func TestService_SubmitBallot_SparseSelections(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	res, err := f.svc.SubmitBallot(context.Background(), SubmitBallotInput{
		VoterID: f.alice.ID,
		Selections: map[string]string{
			f.mvp.ID:        "",
			f.teamPlayer.ID: f.alice.ID,
		},
	})
	if err != nil {
		t.Fatalf("SubmitBallot returned error: %v", err)
	}
	if len(res.Votes) != 1 || res.Votes[0].AwardID != f.teamPlayer.ID {
		t.Fatalf("expected only the selected award to be recorded, got %+v", res.Votes)
	}
}

func TestService_SubmitBallot_EmptyBallotConsumesVote(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	res, err := f.svc.SubmitBallot(context.Background(), SubmitBallotInput{VoterID: f.bob.ID})
	if err != nil {
		t.Fatalf("SubmitBallot returned error: %v", err)
	}
	if len(res.Votes) != 0 {
		t.Fatalf("expected no votes, got %d", len(res.Votes))
	}
	if !f.store.get(f.bob.ID).HasVoted {
		t.Fatal("expected empty ballot to consume the vote")
	}
}

func TestService_SubmitBallot_AlreadyVoted(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	in := SubmitBallotInput{VoterID: f.alice.ID, Selections: map[string]string{f.mvp.ID: f.bob.ID}}

	if _, err := f.svc.SubmitBallot(context.Background(), in); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}

	_, err := f.svc.SubmitBallot(context.Background(), in)
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
	if f.store.voteCount() != 1 {
		t.Fatalf("expected rejected submission to leave 1 vote, got %d", f.store.voteCount())
	}
}

func TestService_SubmitBallot_RejectsInvalidSelections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		selections func(f *fixture) map[string]string
		want       error
	}{
		{
			name:       "unknown award",
			selections: func(f *fixture) map[string]string { return map[string]string{"award-missing": f.bob.ID} },
			want:       ErrAwardNotFound,
		},
		{
			name:       "staff nominee",
			selections: func(f *fixture) map[string]string { return map[string]string{f.mvp.ID: f.staff.ID} },
			want:       ErrIneligibleNominee,
		},
		{
			name:       "other department nominee",
			selections: func(f *fixture) map[string]string { return map[string]string{f.teamPlayer.ID: f.carol.ID} },
			want:       ErrIneligibleNominee,
		},
		{
			name:       "unknown nominee",
			selections: func(f *fixture) map[string]string { return map[string]string{f.mvp.ID: "emp-ghost"} },
			want:       ErrIneligibleNominee,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			_, err := f.svc.SubmitBallot(context.Background(), SubmitBallotInput{
				VoterID:    f.alice.ID,
				Selections: tc.selections(f),
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if f.store.get(f.alice.ID).HasVoted {
				t.Fatal("rejected ballot must not flip the has-voted flag")
			}
			if f.store.voteCount() != 0 {
				t.Fatalf("rejected ballot must not record votes, got %d", f.store.voteCount())
			}
		})
	}
}

func TestService_SubmitBallot_RejectsSelectionsThatTrimToSameAward(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.SubmitBallot(context.Background(), SubmitBallotInput{
		VoterID: f.alice.ID,
		Selections: map[string]string{
			f.mvp.ID:       f.bob.ID,
			" " + f.mvp.ID: f.carol.ID,
		},
	})
	if !errors.Is(err, ErrDuplicateSelection) {
		t.Fatalf("expected ErrDuplicateSelection, got %v", err)
	}
	if f.store.get(f.alice.ID).HasVoted || f.store.voteCount() != 0 {
		t.Fatal("rejected ballot must leave no trace")
	}
}

func TestService_SubmitBallot_BlankDuplicateIsIgnored(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res, err := f.svc.SubmitBallot(context.Background(), SubmitBallotInput{
		VoterID: f.alice.ID,
		Selections: map[string]string{
			f.mvp.ID:       f.bob.ID,
			" " + f.mvp.ID: " ",
		},
	})
	if err != nil {
		t.Fatalf("SubmitBallot returned error: %v", err)
	}
	if len(res.Votes) != 1 || res.Votes[0].NomineeID != f.bob.ID {
		t.Fatalf("expected the single non-blank selection, got %+v", res.Votes)
	}
}

func TestService_SubmitBallot_UnknownVoter(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.svc.SubmitBallot(context.Background(), SubmitBallotInput{VoterID: "emp-ghost"})
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestService_SubmitBallot_RollsBackOnPartialFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.failVoteAt = 2

	in := SubmitBallotInput{
		VoterID: f.alice.ID,
		Selections: map[string]string{
			f.mvp.ID:        f.carol.ID,
			f.teamPlayer.ID: f.bob.ID,
		},
	}

	if _, err := f.svc.SubmitBallot(context.Background(), in); err == nil {
		t.Fatal("expected submission to fail")
	}
	if f.store.voteCount() != 0 {
		t.Fatalf("expected zero votes after rollback, got %d", f.store.voteCount())
	}
	if f.store.get(f.alice.ID).HasVoted {
		t.Fatal("expected has-voted flag to stay false after rollback")
	}

	if _, err := f.svc.SubmitBallot(context.Background(), in); err != nil {
		t.Fatalf("expected resubmission to succeed, got %v", err)
	}
	if f.store.voteCount() != 2 {
		t.Fatalf("expected 2 votes after resubmission, got %d", f.store.voteCount())
	}
}

func TestService_SubmitBallot_ConcurrentSameVoter(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	const attempts = 10
	var (
		wg       sync.WaitGroup
		accepted atomic.Int32
		rejected atomic.Int32
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.SubmitBallot(context.Background(), SubmitBallotInput{
				VoterID:    f.bob.ID,
				Selections: map[string]string{f.mvp.ID: f.alice.ID},
			})
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, ErrAlreadyVoted):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if accepted.Load() != 1 {
		t.Fatalf("expected exactly 1 accepted submission, got %d", accepted.Load())
	}
	if rejected.Load() != attempts-1 {
		t.Fatalf("expected %d rejected submissions, got %d", attempts-1, rejected.Load())
	}
	if f.store.voteCount() != 1 {
		t.Fatalf("expected 1 stored vote, got %d", f.store.voteCount())
	}
}

func TestService_SubmitBallot_CompareAndSetGuardsStaleRead(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.staleReads = true
	in := SubmitBallotInput{VoterID: f.carol.ID, Selections: map[string]string{f.mvp.ID: f.dave.ID}}

	if _, err := f.svc.SubmitBallot(context.Background(), in); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}

	_, err := f.svc.SubmitBallot(context.Background(), in)
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected compare-and-set to reject the second submission, got %v", err)
	}
	if f.store.voteCount() != 1 {
		t.Fatalf("expected 1 stored vote, got %d", f.store.voteCount())
	}
}
