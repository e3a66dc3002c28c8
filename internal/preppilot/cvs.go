package preppilot

import "fmt"

const cvsPath = "/api/v1/cvs"

type CVs struct {
	Items []*CV `json:"cvs"`
	Total int   `json:"total"`
}

type CV struct {
	ID        int    `json:"id"`
	Filename  string `json:"filename"`
	CreatedAt string `json:"created_at"`
	SizeBytes int64  `json:"size_bytes"`
	// Status is display-only (uploaded/processing/failed). It never gates
	// launches.
	Status string `json:"status"`
}

func (c *Client) GetCVs() (*CVs, error) {
	var cvs CVs
	if err := c.getJSON(fmt.Sprintf("%s%s", c.APIURL, cvsPath), nil, &cvs); err != nil {
		return nil, fmt.Errorf("get cvs: %w", err)
	}

	return &cvs, nil
}

func (c *CVs) Len() int {
	return len(c.Items)
}

func (c *CVs) FindByID(id int) *CV {
	for _, cv := range c.Items {
		if cv.ID == id {
			return cv
		}
	}
	return nil
}
