package launch

import (
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/preppilot/preppilot-cli/internal/preppilot"
	"github.com/preppilot/preppilot-cli/internal/snapshot"
	"go.uber.org/zap"
)

type stubSnapshots struct {
	account *snapshot.Account
}

func (s *stubSnapshots) Latest() *snapshot.Account {
	return s.account
}

type stubSubmitter struct {
	calls   int32
	started chan struct{}
	release chan struct{}
	result  *preppilot.StartInterviewResult
	err     error
	lastReq *preppilot.StartInterviewRequest
}

func (s *stubSubmitter) StartInterview(req *preppilot.StartInterviewRequest) (*preppilot.StartInterviewResult, error) {
	if atomic.AddInt32(&s.calls, 1) == 1 && s.started != nil {
		close(s.started)
	}
	s.lastReq = req
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testAccount(balance int) *snapshot.Account {
	return &snapshot.Account{
		Balance: balance,
		Roles: []*preppilot.RoleSelection{
			{RoleID: 3, RoleTitle: "Software Engineer"},
			{RoleID: 4, RoleTitle: "Data Analyst"},
		},
		CVs: []*preppilot.CV{
			{ID: 7, Filename: "cv.pdf", Status: "uploaded"},
		},
	}
}

func newTestController(account *snapshot.Account, submitter *stubSubmitter) *Controller {
	return NewController(&stubSnapshots{account: account}, submitter, zap.NewNop())
}

func TestInitializeSelectsFirstRoleOnce(t *testing.T) {
	ctrl := newTestController(testAccount(10), &stubSubmitter{})

	ctrl.Initialize(testAccount(10))
	if ctrl.RoleSelection() != "3" {
		t.Fatalf("expected first role to be selected, got %q", ctrl.RoleSelection())
	}

	// A later snapshot must not override an existing selection.
	ctrl.SelectRole("4")
	ctrl.Initialize(testAccount(10))
	if ctrl.RoleSelection() != "4" {
		t.Fatalf("expected explicit selection to survive, got %q", ctrl.RoleSelection())
	}

	if ctrl.CVSelection() != "" {
		t.Fatalf("a CV must never be auto-selected")
	}
}

func TestInitializeWithoutRoles(t *testing.T) {
	ctrl := newTestController(nil, &stubSubmitter{})
	ctrl.Initialize(&snapshot.Account{})

	if ctrl.RoleSelection() != "" {
		t.Fatalf("expected no role selection, got %q", ctrl.RoleSelection())
	}
}

func TestRequestLaunchRequiresCV(t *testing.T) {
	submitter := &stubSubmitter{}
	ctrl := newTestController(testAccount(100), submitter)

	err := ctrl.RequestLaunch()
	if !errors.Is(err, ErrCVRequired) {
		t.Fatalf("expected ErrCVRequired, got %v", err)
	}

	if ctrl.ConfirmationOpen() {
		t.Fatalf("confirmation must stay closed on precondition failure")
	}

	if atomic.LoadInt32(&submitter.calls) != 0 {
		t.Fatalf("no remote call may happen during preconditions")
	}
}

func TestRequestLaunchInsufficientCredits(t *testing.T) {
	balances := []int{0, 1, 4}
	for _, balance := range balances {
		submitter := &stubSubmitter{}
		ctrl := newTestController(testAccount(balance), submitter)
		ctrl.SelectCV("7")

		err := ctrl.RequestLaunch()
		if !errors.Is(err, ErrInsufficientCredits) {
			t.Fatalf("balance %d: expected ErrInsufficientCredits, got %v", balance, err)
		}

		if atomic.LoadInt32(&submitter.calls) != 0 {
			t.Fatalf("balance %d: no submission may be issued", balance)
		}
	}
}

func TestRequestLaunchCVCheckedBeforeCredits(t *testing.T) {
	ctrl := newTestController(testAccount(0), &stubSubmitter{})

	// Both preconditions fail; the CV one wins because it is checked first.
	if err := ctrl.RequestLaunch(); !errors.Is(err, ErrCVRequired) {
		t.Fatalf("expected ErrCVRequired to short-circuit, got %v", err)
	}
}

func TestRequestLaunchOpensConfirmation(t *testing.T) {
	submitter := &stubSubmitter{}
	ctrl := newTestController(testAccount(5), submitter)
	ctrl.SelectCV("7")

	if err := ctrl.RequestLaunch(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ctrl.ConfirmationOpen() {
		t.Fatalf("expected confirmation to open")
	}

	if atomic.LoadInt32(&submitter.calls) != 0 {
		t.Fatalf("opening the confirmation must not issue a remote call")
	}
}

func TestCancelClosesConfirmation(t *testing.T) {
	ctrl := newTestController(testAccount(10), &stubSubmitter{})
	ctrl.SelectCV("7")

	if err := ctrl.RequestLaunch(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctrl.Cancel()
	if ctrl.ConfirmationOpen() {
		t.Fatalf("expected confirmation to close")
	}

	if _, err := ctrl.ConfirmLaunch(); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed after cancel, got %v", err)
	}
}

func TestConfirmLaunchRedirect(t *testing.T) {
	submitter := &stubSubmitter{result: &preppilot.StartInterviewResult{ID: 1, JoinURL: "https://x"}}
	ctrl := newTestController(testAccount(10), submitter)
	ctrl.Initialize(testAccount(10))
	ctrl.SelectCV("7")

	if err := ctrl.RequestLaunch(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome, err := ctrl.ConfirmLaunch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	redirect, ok := outcome.(Redirect)
	if !ok || redirect.URL != "https://x" {
		t.Fatalf("expected redirect to https://x, got %#v", outcome)
	}

	if submitter.lastReq.RoleID != 3 || submitter.lastReq.CVID != 7 {
		t.Fatalf("unexpected request: %+v", submitter.lastReq)
	}

	if ctrl.ConfirmationOpen() {
		t.Fatalf("expected confirmation to close after outcome")
	}
}

func TestConfirmLaunchRoleFallsBackToSentinel(t *testing.T) {
	account := &snapshot.Account{
		Balance: 10,
		CVs:     []*preppilot.CV{{ID: 7, Filename: "cv.pdf"}},
	}
	submitter := &stubSubmitter{result: &preppilot.StartInterviewResult{ID: 1, JoinURL: "https://x"}}
	ctrl := newTestController(account, submitter)
	ctrl.SelectCV("7")

	if err := ctrl.RequestLaunch(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ctrl.ConfirmLaunch(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if submitter.lastReq.RoleID != fallbackRoleID {
		t.Fatalf("expected sentinel role id %d, got %d", fallbackRoleID, submitter.lastReq.RoleID)
	}
}

func TestConfirmLaunchDeclinedPassesMessageVerbatim(t *testing.T) {
	submitter := &stubSubmitter{err: &preppilot.APIError{Status: http.StatusBadRequest, Detail: "Insufficient credits"}}
	ctrl := newTestController(testAccount(10), submitter)
	ctrl.SelectCV("7")

	if err := ctrl.RequestLaunch(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome, err := ctrl.ConfirmLaunch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	declined, ok := outcome.(Declined)
	if !ok {
		t.Fatalf("expected Declined, got %#v", outcome)
	}

	if declined.Message != "Insufficient credits" || declined.Notice() != "Insufficient credits" {
		t.Fatalf("expected verbatim server message, got %q", declined.Message)
	}
}

func TestConfirmLaunchTransportFaultResetsState(t *testing.T) {
	submitter := &stubSubmitter{err: errors.New("connection refused")}
	ctrl := newTestController(testAccount(10), submitter)
	ctrl.SelectCV("7")

	if err := ctrl.RequestLaunch(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome, err := ctrl.ConfirmLaunch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := outcome.(TransportFault); !ok {
		t.Fatalf("expected TransportFault, got %#v", outcome)
	}

	if ctrl.ConfirmationOpen() {
		t.Fatalf("expected confirmation to close on transport fault")
	}

	// The user can re-invoke the whole flow; no automatic retry happened.
	if atomic.LoadInt32(&submitter.calls) != 1 {
		t.Fatalf("expected exactly one submission, got %d", submitter.calls)
	}

	if err := ctrl.RequestLaunch(); err != nil {
		t.Fatalf("expected a fresh launch request to pass, got %v", err)
	}
}

func TestConfirmLaunchMissingJoinURLIsMisconfiguration(t *testing.T) {
	submitter := &stubSubmitter{result: &preppilot.StartInterviewResult{ID: 9}}
	ctrl := newTestController(testAccount(10), submitter)
	ctrl.SelectCV("7")

	if err := ctrl.RequestLaunch(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome, err := ctrl.ConfirmLaunch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	misconfigured, ok := outcome.(Misconfigured)
	if !ok {
		t.Fatalf("expected Misconfigured, got %#v", outcome)
	}

	if misconfigured.Notice() == (Declined{}).Notice() {
		t.Fatalf("misconfiguration notice must differ from a decline")
	}
}

func TestConfirmLaunchStaleCV(t *testing.T) {
	snapshots := &stubSnapshots{account: testAccount(10)}
	submitter := &stubSubmitter{}
	ctrl := NewController(snapshots, submitter, zap.NewNop())
	ctrl.SelectCV("7")

	if err := ctrl.RequestLaunch(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The CV disappears from the account before confirmation.
	snapshots.account = &snapshot.Account{Balance: 10}

	_, err := ctrl.ConfirmLaunch()
	if !errors.Is(err, ErrCVUnavailable) {
		t.Fatalf("expected ErrCVUnavailable, got %v", err)
	}

	if atomic.LoadInt32(&submitter.calls) != 0 {
		t.Fatalf("no submission may be issued for a vanished CV")
	}

	if ctrl.ConfirmationOpen() {
		t.Fatalf("expected confirmation to close")
	}
}

func TestConfirmLaunchIdempotentWhileInFlight(t *testing.T) {
	submitter := &stubSubmitter{
		started: make(chan struct{}),
		release: make(chan struct{}),
		result:  &preppilot.StartInterviewResult{ID: 1, JoinURL: "https://x"},
	}
	ctrl := newTestController(testAccount(10), submitter)
	ctrl.SelectCV("7")

	if err := ctrl.RequestLaunch(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := make(chan Outcome, 1)
	go func() {
		outcome, err := ctrl.ConfirmLaunch()
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		first <- outcome
	}()

	// Wait until the first submission is actually in flight.
	<-submitter.started

	if _, err := ctrl.ConfirmLaunch(); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}

	close(submitter.release)

	outcome := <-first
	if _, ok := outcome.(Redirect); !ok {
		t.Fatalf("expected redirect outcome, got %#v", outcome)
	}

	if got := atomic.LoadInt32(&submitter.calls); got != 1 {
		t.Fatalf("expected exactly one submission, got %d", got)
	}
}
