// Package launch gates the paid, externally-redirecting "start interview"
// action behind local preconditions and an explicit confirmation step.
package launch

import (
	"errors"
	"strconv"
	"sync"

	"github.com/preppilot/preppilot-cli/internal/preppilot"
	"github.com/preppilot/preppilot-cli/internal/snapshot"
	"go.uber.org/zap"
)

// Cost is the fixed credit price of one interview.
const Cost = 5

// fallbackRoleID is sent when the user has never selected a role. The server
// may well reject it; it exists so the request never goes out without a role.
const fallbackRoleID = 1

var (
	// ErrCVRequired: CV choice materially changes interview content and is
	// never defaulted.
	ErrCVRequired = errors.New("select a CV before starting an interview")
	// ErrInsufficientCredits points the user at the wallet top-up flow.
	ErrInsufficientCredits = errors.New("insufficient credits: an interview costs 5, buy credits in your wallet first")
	// ErrCVUnavailable: the selected CV vanished from the latest snapshot
	// between selection and confirmation.
	ErrCVUnavailable = errors.New("the selected CV is no longer in your account, pick another one")
	// ErrNotConfirmed: ConfirmLaunch was called without an open confirmation.
	ErrNotConfirmed = errors.New("no launch confirmation is open")
	// ErrSubmissionInFlight: a confirm call arrived while the previous
	// submission is still unresolved. Callers treat it as a no-op.
	ErrSubmissionInFlight = errors.New("an interview submission is already in flight")
)

// Submitter issues the remote launch submission.
type Submitter interface {
	StartInterview(req *preppilot.StartInterviewRequest) (*preppilot.StartInterviewResult, error)
}

// Snapshots supplies the latest account snapshot. Precondition checks always
// read whichever snapshot was most recently received.
type Snapshots interface {
	Latest() *snapshot.Account
}

// Controller drives the launch workflow. The in-flight flag is the sole
// mutual-exclusion mechanism and guards exactly one resource: duplicate
// submissions for the same user action.
type Controller struct {
	mu        sync.Mutex
	snapshots Snapshots
	submitter Submitter
	logger    *zap.Logger

	roleSelection      string
	cvSelection        string
	confirmationOpen   bool
	submissionInFlight bool
}

func NewController(snapshots Snapshots, submitter Submitter, logger *zap.Logger) *Controller {
	return &Controller{
		snapshots: snapshots,
		submitter: submitter,
		logger:    logger,
	}
}

// Initialize picks the first selected role from the first snapshot when no
// role has been chosen yet. CVs are never auto-selected.
func (c *Controller) Initialize(account *snapshot.Account) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.roleSelection != "" {
		return
	}

	if role := account.FirstRole(); role != nil {
		c.roleSelection = strconv.Itoa(role.RoleID)
		c.logger.Debug("auto-selected first role",
			zap.String("role_id", c.roleSelection),
			zap.String("role_title", role.RoleTitle),
		)
	}
}

// SelectRole sets the role selection explicitly.
func (c *Controller) SelectRole(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roleSelection = id
}

// SelectCV sets the CV selection. Always an explicit user action.
func (c *Controller) SelectCV(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cvSelection = id
}

func (c *Controller) RoleSelection() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roleSelection
}

func (c *Controller) CVSelection() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cvSelection
}

func (c *Controller) ConfirmationOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmationOpen
}

// RequestLaunch validates preconditions in order, first failure wins with no
// side effects, and opens the confirmation step. No remote call happens here:
// a paid, irreversible action always gets an explicit confirmation gate
// distinct from the initial intent.
func (c *Controller) RequestLaunch() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cvSelection == "" {
		return ErrCVRequired
	}

	balance := 0
	if account := c.snapshots.Latest(); account != nil {
		balance = account.Balance
	}

	if balance < Cost {
		return ErrInsufficientCredits
	}

	c.confirmationOpen = true
	return nil
}

// Cancel closes the confirmation step with no remote effect.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmationOpen = false
}

// ConfirmLaunch issues exactly one remote submission for the open
// confirmation and maps the remote result onto an Outcome. Repeated calls
// while a submission is unresolved return ErrSubmissionInFlight and do
// nothing. The balance is not re-validated here: the server is the final
// arbiter and its decline path covers any drift since RequestLaunch.
func (c *Controller) ConfirmLaunch() (Outcome, error) {
	c.mu.Lock()

	if c.submissionInFlight {
		c.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}

	if !c.confirmationOpen {
		c.mu.Unlock()
		return nil, ErrNotConfirmed
	}

	req, err := c.buildRequestLocked()
	if err != nil {
		c.confirmationOpen = false
		c.mu.Unlock()
		return nil, err
	}

	c.submissionInFlight = true
	c.mu.Unlock()

	c.logger.Debug("submitting interview launch",
		zap.Int("role_id", req.RoleID),
		zap.Int("cv_id", req.CVID),
	)

	result, submitErr := c.submitter.StartInterview(req)

	// Both flags reset unconditionally, whatever the outcome.
	c.mu.Lock()
	c.confirmationOpen = false
	c.submissionInFlight = false
	c.mu.Unlock()

	return c.resolveOutcome(result, submitErr), nil
}

// buildRequestLocked constructs the launch request against the latest
// snapshot. The CV must still be present in it; the role defaults to the
// first selected role, then to the sentinel fallback.
func (c *Controller) buildRequestLocked() (*preppilot.StartInterviewRequest, error) {
	cvID, err := strconv.Atoi(c.cvSelection)
	if err != nil {
		return nil, ErrCVRequired
	}

	account := c.snapshots.Latest()
	if account.FindCV(cvID) == nil {
		return nil, ErrCVUnavailable
	}

	roleID := 0
	if c.roleSelection != "" {
		roleID, _ = strconv.Atoi(c.roleSelection)
	}

	if roleID == 0 {
		if first := account.FirstRole(); first != nil {
			roleID = first.RoleID
		} else {
			roleID = fallbackRoleID
		}
	}

	return &preppilot.StartInterviewRequest{RoleID: roleID, CVID: cvID}, nil
}

func (c *Controller) resolveOutcome(result *preppilot.StartInterviewResult, err error) Outcome {
	if err != nil {
		var apiErr *preppilot.APIError
		if errors.As(err, &apiErr) {
			c.logger.Debug("launch declined", zap.Int("status", apiErr.Status), zap.String("detail", apiErr.Detail))
			return Declined{Message: apiErr.Detail}
		}

		c.logger.Debug("launch transport fault", zap.Error(err))
		return TransportFault{Err: err}
	}

	if result.JoinURL == "" {
		c.logger.Debug("launch succeeded without join url", zap.Int("interview_id", result.ID))
		return Misconfigured{}
	}

	c.logger.Debug("launch succeeded", zap.Int("interview_id", result.ID))
	return Redirect{URL: result.JoinURL}
}
