package preppilot

import "fmt"

const screeningsPath = "/api/v1/screenings"

// Screening is a stored CV screening record. Analysis carries whatever shape
// the AI pipeline produced: a structured object, a text blob, or null. It is
// decoded as-is and normalized by the caller.
type Screening struct {
	ID       int    `json:"id"`
	CVID     int    `json:"cv_id"`
	Status   string `json:"status"`
	Analysis any    `json:"analysis"`
}

type RunScreeningRequest struct {
	CVID int `json:"cv_id"`
}

// RunScreening triggers a server-side screening for the given CV. The
// analysis is delivered in-band with the response.
func (c *Client) RunScreening(cvID int) (*Screening, error) {
	var screening Screening
	url := fmt.Sprintf("%s%s/run", c.APIURL, screeningsPath)
	if err := c.postJSON(c.HTTPClient, url, &RunScreeningRequest{CVID: cvID}, &screening); err != nil {
		return nil, fmt.Errorf("run screening: %w", err)
	}

	return &screening, nil
}

func (c *Client) GetScreening(id int) (*Screening, error) {
	var screening Screening
	url := fmt.Sprintf("%s%s/%d", c.APIURL, screeningsPath, id)
	if err := c.getJSON(url, nil, &screening); err != nil {
		return nil, fmt.Errorf("get screening %d: %w", id, err)
	}

	return &screening, nil
}
