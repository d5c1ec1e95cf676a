package api

import (
	"fmt"
	"net/url"
	"strconv"
)

// Backend routes, relative to the API root.
const (
	PathProblems       = "/leetcode/problems"
	PathSubmissions    = "/leetcode/submissions"
	PathSync           = "/leetcode/sync"
	PathProblemStats   = "/leetcode/statistics"
	PathDailyChallenge = "/leetcode/daily-challenge"
	PathRecommended    = "/leetcode/recommendations"

	PathQuestions      = "/interview/questions"
	PathDailyQuestion  = "/interview/daily-question"
	PathAnalyzeAnswer  = "/interview/analyze-answer"
	PathInterviewStats = "/interview/statistics"

	PathResumes = "/resumes/"

	PathOverview             = "/analytics/overview"
	PathCategoryDistribution = "/analytics/category-distribution"
	PathScoreAnalysis        = "/analytics/score-analysis"
	PathTimeAnalysis         = "/analytics/time-analysis"
	PathProgressTrend        = "/analytics/progress-trend"
	PathComparison           = "/analytics/comparison"
	PathGoals                = "/analytics/goals"
	PathAchievements         = "/analytics/achievements"
	PathExportReport         = "/analytics/export-report"
)

// ProblemPath is the detail route of one problem.
func ProblemPath(id int) string { return fmt.Sprintf("%s/%d", PathProblems, id) }

// ResumePath is the CRUD route of one résumé.
func ResumePath(id int) string { return fmt.Sprintf("/resumes/%d", id) }

func ResumeOptimizePath(id int) string  { return ResumePath(id) + "/optimize" }
func ResumeExportPDFPath(id int) string { return ResumePath(id) + "/export/pdf" }
func ResumeVersionsPath(id int) string  { return ResumePath(id) + "/versions" }

// ProblemsQuery selects a page of the problem catalog. Zero values are omitted.
type ProblemsQuery struct {
	Difficulty string
	Category   string
	Search     string
	Page       int
	PageSize   int
}

// Path renders the list route with its query string.
func (q ProblemsQuery) Path() string {
	v := url.Values{}
	if q.Difficulty != "" {
		v.Set("difficulty", q.Difficulty)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search_keyword", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return WithQuery(PathProblems, v)
}

// SyncPath triggers a catalog sync of at most limit problems (0 for no limit).
func SyncPath(limit, batch int) string {
	v := url.Values{}
	if limit > 0 {
		v.Set("max_problems", strconv.Itoa(limit))
	}
	if batch > 0 {
		v.Set("batch_size", strconv.Itoa(batch))
	}
	return WithQuery(PathSync, v)
}

// ExportReportPath requests an analytics report in format for period.
func ExportReportPath(format, period string) string {
	v := url.Values{}
	if format != "" {
		v.Set("format", format)
	}
	if period != "" {
		v.Set("period", period)
	}
	return WithQuery(PathExportReport, v)
}

// WithQuery appends an encoded query string to path when v is non-empty.
func WithQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}
