package analysis

// Section is one renderable block of a report.
type Section struct {
	Title string
	// Body is set for prose sections.
	Body string
	// Items is set for list sections, in received order.
	Items []string
}

// Sections returns the renderable blocks of the report in display order.
// Absent fields produce no section; rendering each field is independent of
// the others.
func (r *Report) Sections() []Section {
	if r == nil {
		return nil
	}

	sections := make([]Section, 0, 4)

	if r.Summary != "" {
		sections = append(sections, Section{Title: "Summary", Body: r.Summary})
	}

	if len(r.Roles) > 0 {
		sections = append(sections, Section{Title: "Potential Roles", Items: r.Roles})
	}

	if len(r.Skills) > 0 {
		sections = append(sections, Section{Title: "Key Skills", Items: r.Skills})
	}

	if len(r.Improvements) > 0 {
		sections = append(sections, Section{Title: "Improvement Suggestions", Items: r.Improvements})
	}

	return sections
}
