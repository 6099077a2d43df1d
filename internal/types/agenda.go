package types

// AgendaSection is one planned section of the generated document.
type AgendaSection struct {
	// 1-based position of the section in the document
	PageNumber int `json:"page_number"`

	// Section title
	Title string `json:"title"`

	// Body outline for the section
	Content string `json:"content"`

	// Optional speaker notes or caveats attached by a worker
	Notes string `json:"notes,omitempty"`
}

// Agenda is the structured outline produced by the agenda worker and consumed
// by every later pipeline stage.
type Agenda struct {
	// Ordered list of planned sections
	Sections []AgendaSection `json:"sections"`

	// Total number of pages the outline plans for
	TotalPages int `json:"total_pages"`

	// Estimated presentation duration in minutes
	EstimatedDuration int `json:"estimated_duration"`
}

// SectionCount returns the number of sections in the agenda, 0 for a nil agenda.
func (a *Agenda) SectionCount() int {
	if a == nil {
		return 0
	}
	return len(a.Sections)
}

// Title returns the title of the first section, or the fixed placeholder when
// the agenda has no sections.
func (a *Agenda) Title() string {
	if a == nil || len(a.Sections) == 0 {
		return UntitledDocument
	}
	return a.Sections[0].Title
}

// UntitledDocument is the history title used when an agenda has no sections.
const UntitledDocument = "Untitled"
