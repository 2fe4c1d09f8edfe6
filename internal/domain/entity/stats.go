package entity

type StatusSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type DashboardStats struct {
	StatusBreakdown []StatusSlice `json:"statusBreakdown"`
	ActiveTasks     int           `json:"activeTasks"`
	PendingQuotes   int           `json:"pendingQuotes"`
	Revenue         int           `json:"revenue"`
	RecentQuotes    []Quote       `json:"recentQuotes"`
}
