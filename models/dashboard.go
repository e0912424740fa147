package models

// DashboardSummary is the payload of GET /dashboard/summary.
type DashboardSummary struct {
	Patients          int64                     `json:"patients"`
	Students          int64                     `json:"students"`
	Teachers          int64                     `json:"teachers"`
	Schools           int64                     `json:"schools"`
	Hospitals         int64                     `json:"hospitals"`
	Screenings        int64                     `json:"screenings"`
	ReferralsNeeded   int64                     `json:"referrals_needed"`
	ScreeningByStatus map[ScreeningStatus]int64 `json:"screenings_by_status"`
}
