package coord

import (
	"github.com/h0rv/prep/internal/api"
	"github.com/h0rv/prep/internal/domain"
	"github.com/h0rv/prep/internal/store"
)

// PageID identifies one tab of the dashboard.
type PageID string

const (
	PageDashboard PageID = "dashboard"
	PageProblems  PageID = "problems"
	PageInterview PageID = "interview"
	PageResumes   PageID = "resumes"
	PageAnalytics PageID = "analytics"
)

// Page declares the resources a tab needs and which filter it offers.
type Page struct {
	ID        PageID
	Title     string
	Resources []domain.ResourceID
	Filter    store.FilterKind  // Filter offered by the picker, FilterAll for none
	Primary   domain.ResourceID // Resource the filter and search apply to
}

// ResourceSpec says where a resource is fetched from and how to decode it.
type ResourceSpec struct {
	Title string
	Path  string
	Shape domain.Shape
}

var pages = []Page{
	{
		ID:    PageDashboard,
		Title: "仪表盘",
		Resources: []domain.ResourceID{
			domain.ResOverview,
			domain.ResDailyChallenge,
			domain.ResDailyQuestion,
			domain.ResRecommendations,
		},
		Filter: store.FilterAll,
	},
	{
		ID:        PageProblems,
		Title:     "题库",
		Resources: []domain.ResourceID{domain.ResProblems, domain.ResSubmissions, domain.ResProblemStats},
		Filter:    store.FilterDifficulty,
		Primary:   domain.ResProblems,
	},
	{
		ID:        PageInterview,
		Title:     "面试练习",
		Resources: []domain.ResourceID{domain.ResQuestions, domain.ResInterviewStats},
		Filter:    store.FilterCategory,
		Primary:   domain.ResQuestions,
	},
	{
		ID:        PageResumes,
		Title:     "简历管理",
		Resources: []domain.ResourceID{domain.ResResumes},
		Filter:    store.FilterAll,
		Primary:   domain.ResResumes,
	},
	{
		ID:    PageAnalytics,
		Title: "数据统计",
		Resources: []domain.ResourceID{
			domain.ResOverview,
			domain.ResCategoryDistribution,
			domain.ResScoreAnalysis,
			domain.ResTimeAnalysis,
			domain.ResProgressTrend,
			domain.ResComparison,
			domain.ResGoals,
			domain.ResAchievements,
		},
		Filter: store.FilterAll,
	},
}

var resources = map[domain.ResourceID]ResourceSpec{
	domain.ResProblems: {
		Title: "题目列表",
		Path:  api.ProblemsQuery{PageSize: 100}.Path(),
		Shape: domain.Shape{Kind: domain.KindProblem, Paths: []string{"problems"}},
	},
	domain.ResSubmissions: {
		Title: "提交记录",
		Path:  api.PathSubmissions,
		Shape: domain.Shape{Kind: domain.KindSubmission, Paths: []string{"submissions"}},
	},
	domain.ResProblemStats: {
		Title: "刷题统计",
		Path:  api.PathProblemStats,
		Shape: domain.Shape{Kind: domain.KindMetric},
	},
	domain.ResDailyChallenge: {
		Title: "每日挑战",
		Path:  api.PathDailyChallenge,
		Shape: domain.Shape{Kind: domain.KindProblem, Paths: []string{"daily_challenge"}, Single: true},
	},
	domain.ResRecommendations: {
		Title: "推荐题目",
		Path:  api.PathRecommended,
		Shape: domain.Shape{Kind: domain.KindProblem, Paths: []string{"problems"}},
	},
	domain.ResQuestions: {
		Title: "面试题",
		Path:  api.PathQuestions,
		Shape: domain.Shape{Kind: domain.KindQuestion, Paths: []string{"questions"}},
	},
	domain.ResDailyQuestion: {
		Title: "每日一题",
		Path:  api.PathDailyQuestion,
		Shape: domain.Shape{Kind: domain.KindQuestion, Paths: []string{"daily_question", "question"}, Single: true},
	},
	domain.ResInterviewStats: {
		Title: "面试统计",
		Path:  api.PathInterviewStats,
		Shape: domain.Shape{Kind: domain.KindMetric, Paths: []string{"statistics"}},
	},
	domain.ResResumes: {
		Title: "我的简历",
		Path:  api.PathResumes,
		Shape: domain.Shape{Kind: domain.KindResume, Paths: []string{"resumes"}},
	},
	domain.ResOverview: {
		Title: "学习概览",
		Path:  api.PathOverview,
		Shape: domain.Shape{Kind: domain.KindMetric, Paths: []string{"overview"}},
	},
	domain.ResCategoryDistribution: {
		Title: "分类分布",
		Path:  api.PathCategoryDistribution,
		Shape: domain.Shape{Kind: domain.KindMetric, Paths: []string{"distribution"}},
	},
	domain.ResScoreAnalysis: {
		Title: "得分分析",
		Path:  api.PathScoreAnalysis,
		Shape: domain.Shape{Kind: domain.KindMetric, Paths: []string{"analysis"}},
	},
	domain.ResTimeAnalysis: {
		Title: "时间分析",
		Path:  api.PathTimeAnalysis,
		Shape: domain.Shape{Kind: domain.KindMetric, Paths: []string{"analysis"}},
	},
	domain.ResProgressTrend: {
		Title: "进度趋势",
		Path:  api.PathProgressTrend + "?days=7",
		Shape: domain.Shape{Kind: domain.KindMetric, Paths: []string{"trend_data"}},
	},
	domain.ResComparison: {
		Title: "对比",
		Path:  api.PathComparison,
		Shape: domain.Shape{Kind: domain.KindMetric, Paths: []string{"comparison.metrics", "comparison"}},
	},
	domain.ResGoals: {
		Title: "学习目标",
		Path:  api.PathGoals,
		Shape: domain.Shape{Kind: domain.KindGoal, Paths: []string{"goals.active_goals", "goals"}},
	},
	domain.ResAchievements: {
		Title: "成就",
		Path:  api.PathAchievements,
		Shape: domain.Shape{Kind: domain.KindAchievement, Paths: []string{"achievements.unlocked", "achievements.locked"}},
	},
}

// Pages returns the tabs in display order.
func Pages() []Page {
	out := make([]Page, len(pages))
	copy(out, pages)
	return out
}

// LookupPage returns the page with id.
func LookupPage(id PageID) (Page, bool) {
	for _, p := range pages {
		if p.ID == id {
			return p, true
		}
	}
	return Page{}, false
}

// Resource returns the fetch spec of res.
func Resource(res domain.ResourceID) (ResourceSpec, bool) {
	spec, ok := resources[res]
	return spec, ok
}

// ResourceIDs lists every resource any page uses.
func ResourceIDs() []domain.ResourceID {
	seen := make(map[domain.ResourceID]bool)
	var out []domain.ResourceID
	for _, p := range pages {
		for _, res := range p.Resources {
			if !seen[res] {
				seen[res] = true
				out = append(out, res)
			}
		}
	}
	return out
}
