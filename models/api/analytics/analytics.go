package analyticsapimodels

import usersapimodels "hrms-backend/models/api/users"

type BurnoutRisk struct {
	usersapimodels.User
	AvgHours          float64 `json:"avgHours"`
	NegativeMoodShare float64 `json:"negativeMoodShare"`
}

type HappinessBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"` // percent
	Color string `json:"color"`
}

type Stats struct {
	TotalEmployees int `json:"totalEmployees"`
	PresentToday   int `json:"presentToday"`
	OnLeave        int `json:"onLeave"`
	PendingLeaves  int `json:"pendingLeaves"`
}
