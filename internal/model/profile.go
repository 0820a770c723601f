package model

// ContributionDay is a single day of the source-control contribution graph
type ContributionDay struct {
	Date              string `json:"date"` // YYYY-MM-DD
	ContributionCount int    `json:"contributionCount"`
	Color             string `json:"color"`
}

// ContributionWeek is a column of the contribution graph
type ContributionWeek struct {
	ContributionDays []ContributionDay `json:"contributionDays"`
}

// ContributionCalendar is the contribution graph for one user
type ContributionCalendar struct {
	TotalContributions int                `json:"totalContributions"`
	Weeks              []ContributionWeek `json:"weeks"`
}

// SolvedProblems holds competitive-programming solve counts
type SolvedProblems struct {
	SolvedProblem int `json:"solvedProblem"`
	EasySolved    int `json:"easySolved"`
	MediumSolved  int `json:"mediumSolved"`
	HardSolved    int `json:"hardSolved"`
}

// BlogPost is the latest published article
type BlogPost struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Date        string `json:"date"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
}
