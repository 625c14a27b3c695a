package model

type Feed struct {
	KidName      string
	TotalPoints  int
	Chores       []*KidChore
	Submissions  []*Submission
	Quests       []*QuestProgress
	Redemptions  []*Redemption
	PointHistory []*PointEntry
}

type StreakLeader struct {
	KidName     string
	ChoreTitle  string
	StreakCount int
}

type PointsLeader struct {
	KidName     string
	TotalPoints int
}

type StatsOverview struct {
	PendingSubmissions int
	PendingQuestTasks  int
	PendingRedemptions int
	TodayCompletions   int
	StreakLeaders      []StreakLeader
	PointsLeaders      []PointsLeader
}
