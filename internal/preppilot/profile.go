package preppilot

import "fmt"

const profilePath = "/api/v1/profile"

type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (c *Client) GetProfile() (*Profile, error) {
	var profile Profile
	if err := c.getJSON(fmt.Sprintf("%s%s", c.APIURL, profilePath), nil, &profile); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &profile, nil
}
