package preppilot

import "fmt"

const userRolesPath = "/api/v1/my/roles"

type RoleSelections struct {
	Items []*RoleSelection
}

// RoleSelection is one of the user's chosen interviewer roles. The snapshot
// order is the server order and is treated as stable.
type RoleSelection struct {
	ID              int      `json:"id"`
	RoleID          int      `json:"role_id"`
	RoleTitle       string   `json:"role_title"`
	RoleDescription string   `json:"role_description"`
	RoleTags        []string `json:"role_tags"`
	CreatedAt       string   `json:"created_at"`
}

func (c *Client) GetUserRoles() (*RoleSelections, error) {
	var items []*RoleSelection
	if err := c.getJSON(fmt.Sprintf("%s%s", c.APIURL, userRolesPath), nil, &items); err != nil {
		return nil, fmt.Errorf("get user roles: %w", err)
	}

	return &RoleSelections{Items: items}, nil
}

func (r *RoleSelections) Len() int {
	return len(r.Items)
}

func (r *RoleSelections) Titles() []string {
	titles := make([]string, 0, len(r.Items))

	for _, v := range r.Items {
		titles = append(titles, v.RoleTitle)
	}

	return titles
}
