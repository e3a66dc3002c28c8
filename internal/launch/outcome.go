package launch

// Outcome is the single result produced for a submitted launch request.
type Outcome interface {
	// Notice is the user-facing message for this outcome.
	Notice() string
	outcome()
}

// Redirect is a successful launch: control is handed off to the external
// join location. The navigation is terminal for the controller.
type Redirect struct {
	URL string
}

func (Redirect) outcome() {}

func (Redirect) Notice() string {
	return "AI interview started, handing off to the session"
}

// Declined is a completed request the server rejected. Message comes from
// the server and is surfaced verbatim.
type Declined struct {
	Message string
}

func (Declined) outcome() {}

func (d Declined) Notice() string {
	if d.Message != "" {
		return d.Message
	}
	return "the interview request was declined"
}

// TransportFault is a request that did not complete. No assumption is made
// about server-side effects; the user may retry from the beginning.
type TransportFault struct {
	Err error
}

func (TransportFault) outcome() {}

func (TransportFault) Notice() string {
	return "could not reach the interview service, please try again"
}

// Misconfigured is a successful response that omitted the join location.
// It points at a downstream configuration problem, not at the user.
type Misconfigured struct{}

func (Misconfigured) outcome() {}

func (Misconfigured) Notice() string {
	return "the interview service returned no join location; the service looks misconfigured, contact support"
}
