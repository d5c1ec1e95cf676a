// Package domain defines the normalized item types fetched from the prep backend.
// Every field the backend may omit is optional here; accessors substitute the
// documented default so render paths never do ad hoc presence checks.
package domain

// Kind identifies which item type a collection holds.
type Kind string

const (
	KindProblem     Kind = "problem"
	KindQuestion    Kind = "question"
	KindResume      Kind = "resume"
	KindSubmission  Kind = "submission"
	KindAchievement Kind = "achievement"
	KindGoal        Kind = "goal"
	KindMetric      Kind = "metric" // one numeric leaf of an analytics aggregate
)

// Item is one record of a resource collection.
type Item interface {
	ItemID() int            // Unique within its collection
	ItemKind() Kind         // Collection kind
	TitleText() string      // Designated title field, "" when absent
	TagList() []string      // Tag field, nil when absent
	DifficultyText() string // Raw difficulty value, "" when absent or not applicable
	CategoryText() string   // Raw category value, "" when absent or not applicable
	Clone() Item            // Deep enough copy for copy-on-write patching
}

// ResourceID names one independently fetched collection. A page is made of
// several resources; each has its own panel and its own sequence guard.
type ResourceID string

const (
	ResProblems             ResourceID = "problems"
	ResSubmissions          ResourceID = "submissions"
	ResProblemStats         ResourceID = "problem-stats"
	ResDailyChallenge       ResourceID = "daily-challenge"
	ResRecommendations      ResourceID = "recommendations"
	ResQuestions            ResourceID = "questions"
	ResDailyQuestion        ResourceID = "daily-question"
	ResInterviewStats       ResourceID = "interview-stats"
	ResResumes              ResourceID = "resumes"
	ResOverview             ResourceID = "overview"
	ResCategoryDistribution ResourceID = "category-distribution"
	ResScoreAnalysis        ResourceID = "score-analysis"
	ResTimeAnalysis         ResourceID = "time-analysis"
	ResProgressTrend        ResourceID = "progress-trend"
	ResComparison           ResourceID = "comparison"
	ResGoals                ResourceID = "goals"
	ResAchievements         ResourceID = "achievements"
)

// Difficulty values as the backend sends them. Both the Chinese labels and the
// English enum names appear depending on where the record came from.
const (
	DifficultyEasy   = "简单"
	DifficultyMedium = "中等"
	DifficultyHard   = "困难"
)

// Difficulty display classes.
const (
	ClassEasy   = "easy"
	ClassMedium = "medium"
	ClassHard   = "hard"
)

// Problem status values.
const (
	StatusDone       = "已完成"
	StatusInProgress = "进行中"
	StatusNotStarted = "未开始"
)

// FilterAll is the reserved filter value meaning "no filtering".
const FilterAll = "all"

// DifficultyClass maps a raw difficulty value to easy/medium/hard.
// Absent or unknown values map to the neutral middle class.
func DifficultyClass(difficulty string) string {
	switch difficulty {
	case DifficultyEasy, "Easy", "easy", "EASY":
		return ClassEasy
	case DifficultyHard, "Hard", "hard", "HARD":
		return ClassHard
	default:
		return ClassMedium
	}
}

// StatusClass maps a status value to done/wip/pending.
func StatusClass(status string) string {
	switch status {
	case StatusDone:
		return "done"
	case StatusInProgress:
		return "wip"
	default:
		return "pending"
	}
}

// Submission verdicts accepted by the backend. A problem counts as done once
// it has an accepted submission.
const (
	SubmissionAccepted          = "ACCEPTED"
	SubmissionWrongAnswer       = "WRONG_ANSWER"
	SubmissionTimeLimitExceeded = "TIME_LIMIT_EXCEEDED"
	SubmissionRuntimeError      = "RUNTIME_ERROR"
	SubmissionCompileError      = "COMPILE_ERROR"
)
