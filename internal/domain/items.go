package domain

// Problem is a coding problem from the catalog.
type Problem struct {
	ID             int        `json:"id"`
	LeetCodeID     *int       `json:"leetcode_id,omitempty"`
	Title          *string    `json:"title,omitempty"`
	TitleSlug      *string    `json:"title_slug,omitempty"`
	Difficulty     *string    `json:"difficulty,omitempty"`
	Category       *string    `json:"category,omitempty"`
	Tags           StringList `json:"tags,omitempty"`
	Status         *string    `json:"status,omitempty"`       // 已完成 / 进行中 / 未开始
	IsCompleted    *bool      `json:"is_completed,omitempty"` // Older payloads use this instead of status
	AcceptanceRate *float64   `json:"acceptance_rate,omitempty"`
	Content        *string    `json:"content,omitempty"`
	IsPremium      *bool      `json:"is_premium,omitempty"`
}

// ItemID returns the catalog id, falling back to the LeetCode number for
// payloads (daily challenge) that only carry the latter.
func (p *Problem) ItemID() int {
	if p.ID == 0 && p.LeetCodeID != nil {
		return *p.LeetCodeID
	}
	return p.ID
}

func (p *Problem) ItemKind() Kind         { return KindProblem }
func (p *Problem) TitleText() string      { return deref(p.Title) }
func (p *Problem) TagList() []string      { return p.Tags }
func (p *Problem) DifficultyText() string { return deref(p.Difficulty) }
func (p *Problem) CategoryText() string   { return deref(p.Category) }

// StatusText returns the explicit status, else 已完成 when is_completed is set,
// else 未开始.
func (p *Problem) StatusText() string {
	if p.Status != nil && *p.Status != "" {
		return *p.Status
	}
	if p.IsCompleted != nil && *p.IsCompleted {
		return StatusDone
	}
	return StatusNotStarted
}

// Acceptance returns the acceptance rate in percent, 0 when absent.
func (p *Problem) Acceptance() float64 { return derefFloat(p.AcceptanceRate) }

// Slug returns the URL slug, "" when absent.
func (p *Problem) Slug() string { return deref(p.TitleSlug) }

func (p *Problem) Clone() Item {
	c := *p
	c.Tags = cloneStrings(p.Tags)
	if p.Status != nil {
		c.Status = Ptr(*p.Status)
	}
	if p.IsCompleted != nil {
		c.IsCompleted = Ptr(*p.IsCompleted)
	}
	return &c
}

// Question is an interview question.
type Question struct {
	ID              int        `json:"id"`
	Question        *string    `json:"question,omitempty"`
	Category        *string    `json:"category,omitempty"`
	Difficulty      *string    `json:"difficulty,omitempty"`
	Tags            StringList `json:"tags,omitempty"`
	ReferenceAnswer *string    `json:"reference_answer,omitempty"`
	Answer          *string    `json:"answer,omitempty"`
}

func (q *Question) ItemID() int            { return q.ID }
func (q *Question) ItemKind() Kind         { return KindQuestion }
func (q *Question) TitleText() string      { return deref(q.Question) }
func (q *Question) TagList() []string      { return q.Tags }
func (q *Question) DifficultyText() string { return deref(q.Difficulty) }
func (q *Question) CategoryText() string   { return deref(q.Category) }

// AnswerText returns the reference answer, falling back to answer, "" when both are absent.
func (q *Question) AnswerText() string {
	if s := deref(q.ReferenceAnswer); s != "" {
		return s
	}
	return deref(q.Answer)
}

func (q *Question) Clone() Item {
	c := *q
	c.Tags = cloneStrings(q.Tags)
	return &c
}

// Resume is a résumé record.
type Resume struct {
	ID           int            `json:"id"`
	Title        *string        `json:"title,omitempty"`
	TemplateID   *int           `json:"template_id,omitempty"`
	PersonalInfo map[string]any `json:"personal_info,omitempty"`
	Skills       StringList     `json:"skills,omitempty"`
	CreatedAt    *string        `json:"created_at,omitempty"`
	UpdatedAt    *string        `json:"updated_at,omitempty"`
}

func (r *Resume) ItemID() int            { return r.ID }
func (r *Resume) ItemKind() Kind         { return KindResume }
func (r *Resume) TitleText() string      { return deref(r.Title) }
func (r *Resume) TagList() []string      { return r.Skills }
func (r *Resume) DifficultyText() string { return "" }
func (r *Resume) CategoryText() string   { return "" }

// Owner returns personal_info.name, "" when absent.
func (r *Resume) Owner() string {
	if name, ok := r.PersonalInfo["name"].(string); ok {
		return name
	}
	return ""
}

// Updated returns updated_at, falling back to created_at.
func (r *Resume) Updated() string {
	if s := deref(r.UpdatedAt); s != "" {
		return s
	}
	return deref(r.CreatedAt)
}

func (r *Resume) Clone() Item {
	c := *r
	c.Skills = cloneStrings(r.Skills)
	if r.PersonalInfo != nil {
		c.PersonalInfo = make(map[string]any, len(r.PersonalInfo))
		for k, v := range r.PersonalInfo {
			c.PersonalInfo[k] = v
		}
	}
	return &c
}

// Submission is one solution submission for a problem.
type Submission struct {
	ID        int     `json:"id"`
	ProblemID *int    `json:"problem_id,omitempty"`
	Language  *string `json:"language,omitempty"`
	Status    *string `json:"status,omitempty"` // ACCEPTED, WRONG_ANSWER, ...
	Runtime   *int    `json:"runtime,omitempty"`
	CreatedAt *string `json:"created_at,omitempty"`
}

func (s *Submission) ItemID() int            { return s.ID }
func (s *Submission) ItemKind() Kind         { return KindSubmission }
func (s *Submission) TitleText() string      { return deref(s.Language) }
func (s *Submission) TagList() []string      { return nil }
func (s *Submission) DifficultyText() string { return "" }
func (s *Submission) CategoryText() string   { return deref(s.Status) }
func (s *Submission) Problem() int           { return derefInt(s.ProblemID) }
func (s *Submission) RuntimeMS() int         { return derefInt(s.Runtime) }
func (s *Submission) Clone() Item            { c := *s; return &c }

// Achievement is an unlocked (or locked) badge. The backend keys achievements
// by string; Seq is the position-derived integer id used inside collections.
type Achievement struct {
	Seq         int      `json:"-"`
	Key         *string  `json:"id,omitempty"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Icon        *string  `json:"icon,omitempty"`
	UnlockedAt  *string  `json:"unlocked_at,omitempty"`
	Progress    *float64 `json:"progress,omitempty"`
}

func (a *Achievement) ItemID() int            { return a.Seq }
func (a *Achievement) ItemKind() Kind         { return KindAchievement }
func (a *Achievement) TitleText() string      { return deref(a.Title) }
func (a *Achievement) TagList() []string      { return nil }
func (a *Achievement) DifficultyText() string { return "" }
func (a *Achievement) CategoryText() string   { return "" }
func (a *Achievement) Unlocked() bool         { return deref(a.UnlockedAt) != "" }
func (a *Achievement) Clone() Item            { c := *a; return &c }

// Goal is a learning goal with a numeric target.
type Goal struct {
	ID           int      `json:"id"`
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	TargetValue  *float64 `json:"target_value,omitempty"`
	CurrentValue *float64 `json:"current_value,omitempty"`
	Deadline     *string  `json:"deadline,omitempty"`
	Priority     *string  `json:"priority,omitempty"`
	Category     *string  `json:"category,omitempty"`
}

func (g *Goal) ItemID() int            { return g.ID }
func (g *Goal) ItemKind() Kind         { return KindGoal }
func (g *Goal) TitleText() string      { return deref(g.Title) }
func (g *Goal) TagList() []string      { return nil }
func (g *Goal) DifficultyText() string { return "" }
func (g *Goal) CategoryText() string   { return deref(g.Category) }
func (g *Goal) Target() float64        { return derefFloat(g.TargetValue) }
func (g *Goal) Current() float64       { return derefFloat(g.CurrentValue) }

// Percent returns progress towards the target in [0, 100]; 0 when no target.
func (g *Goal) Percent() int {
	target := g.Target()
	if target <= 0 {
		return 0
	}
	pct := int(g.Current()/target*100 + 0.5)
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

func (g *Goal) Clone() Item { c := *g; return &c }

// Metric is one numeric leaf of an analytics aggregate, labelled by its JSON
// path (e.g. "weekly_progress.problems_this_week").
type Metric struct {
	ID    int
	Label string
	Value float64
}

func (m *Metric) ItemID() int            { return m.ID }
func (m *Metric) ItemKind() Kind         { return KindMetric }
func (m *Metric) TitleText() string      { return m.Label }
func (m *Metric) TagList() []string      { return nil }
func (m *Metric) DifficultyText() string { return "" }
func (m *Metric) CategoryText() string   { return "" }
func (m *Metric) Clone() Item            { c := *m; return &c }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// Ptr returns a pointer to v; handy for optional fields.
func Ptr[T any](v T) *T { return &v }

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// ResumeVersion is one entry of a résumé's version history. Versions are
// shown in detail views only and never stored.
type ResumeVersion struct {
	Version     string     `json:"version"`
	CreatedAt   string     `json:"created_at"`
	Description string     `json:"description"`
	Changes     StringList `json:"changes"`
}
