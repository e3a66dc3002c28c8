package preppilot

import (
	"fmt"
	"net/url"
	"strconv"
)

const activitiesPath = "/api/v1/activities"

type Activities struct {
	Items []*Activity
}

type Activity struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// GetActivities returns the most recent account activity items, newest first.
func (c *Client) GetActivities(limit int) (*Activities, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var items []*Activity
	if err := c.getJSON(fmt.Sprintf("%s%s", c.APIURL, activitiesPath), q, &items); err != nil {
		return nil, fmt.Errorf("get activities: %w", err)
	}

	return &Activities{Items: items}, nil
}

func (a *Activities) Len() int {
	return len(a.Items)
}
