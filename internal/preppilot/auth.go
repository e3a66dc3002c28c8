package preppilot

import "fmt"

const logoutPath = "/api/v1/auth/logout"

// Logout tells the server to invalidate the session. It is best effort:
// callers clear local credentials first and only log a failure here.
func (c *Client) Logout() error {
	if err := c.postJSON(c.HTTPClient, fmt.Sprintf("%s%s", c.APIURL, logoutPath), nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}
