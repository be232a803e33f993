package schema

// SystemReportTable represents the 'system.report' table
type SystemReportTable struct {
	Table     string
	ID        string
	PageURL   string
	Message   string
	Reporter  string
	Status    string
	CreatedAt string
}

// SystemReport is the schema definition for system.report
var SystemReport = SystemReportTable{
	Table:     "system.report",
	ID:        "id",
	PageURL:   "page_url",
	Message:   "message",
	Reporter:  "reporter",
	Status:    "status",
	CreatedAt: "created_at",
}

func (t SystemReportTable) Columns() []string {
	return []string{t.ID, t.PageURL, t.Message, t.Reporter, t.Status, t.CreatedAt}
}
