package preppilot

import "fmt"

const interviewStartPath = "/api/v1/interviews/start"

type StartInterviewRequest struct {
	RoleID int `json:"role_id"`
	CVID   int `json:"cv_id"`
}

// StartInterviewResult is a 2xx response to an interview submission. JoinURL
// may legitimately be empty: that is a downstream configuration problem, not
// a business decline, and callers must treat it as a distinct failure.
type StartInterviewResult struct {
	ID      int    `json:"id"`
	JoinURL string `json:"join_url"`
}

// StartInterview submits a single interview launch. It goes through the
// unbounded SubmitClient: the server debits credits and provisions the
// session, so the call waits for an explicit outcome. Business rejections
// come back as *APIError; anything else is a transport fault.
func (c *Client) StartInterview(req *StartInterviewRequest) (*StartInterviewResult, error) {
	var result StartInterviewResult
	if err := c.postJSON(c.SubmitClient, fmt.Sprintf("%s%s", c.APIURL, interviewStartPath), req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
