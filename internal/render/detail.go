package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/h0rv/prep/internal/coord"
	"github.com/h0rv/prep/internal/domain"
)

// DetailBody renders a fetched detail as a modal title and body.
func DetailBody(d coord.Detail) (string, string) {
	if !d.OK() {
		return "详情", PlaceholderFailed
	}

	switch d.Target.Kind {
	case coord.DetailResumeVersions:
		return "版本历史", versionsBody(d.Versions)
	default:
		return ItemBody(d.Item)
	}
}

// ItemBody renders one item as a modal title and body.
func ItemBody(it domain.Item) (string, string) {
	if it == nil {
		return "详情", PlaceholderEmpty
	}

	var lines []string
	add := func(label, value string) {
		if value = Sanitize(value); value != "" {
			lines = append(lines, label+": "+value)
		}
	}

	switch v := it.(type) {
	case *domain.Problem:
		add("编号", fmt.Sprintf("#%d", v.ItemID()))
		add("难度", v.DifficultyText())
		add("分类", v.CategoryText())
		add("状态", v.StatusText())
		add("标签", strings.Join(v.TagList(), ", "))
		if v.AcceptanceRate != nil {
			add("通过率", FormatValue(v.Acceptance())+"%")
		}
		if v.Slug() != "" {
			add("链接", ProblemURL(v))
		}
		if v.Content != nil {
			lines = append(lines, "", PlainText(*v.Content))
		}
	case *domain.Question:
		add("分类", v.CategoryText())
		add("难度", v.DifficultyText())
		add("标签", strings.Join(v.TagList(), ", "))
		answer := SanitizeBody(v.AnswerText())
		if answer == "" {
			answer = "该题暂无参考解析"
		}
		lines = append(lines, "", answer)
	case *domain.Resume:
		add("编号", fmt.Sprintf("#%d", v.ItemID()))
		add("姓名", v.Owner())
		add("技能", strings.Join(v.TagList(), ", "))
		add("更新时间", v.Updated())
	case *domain.Goal:
		add("进度", FormatValue(v.Current())+" / "+FormatValue(v.Target()))
		add("截止", deref(v.Deadline))
		add("说明", deref(v.Description))
	case *domain.Submission:
		add("题目", fmt.Sprintf("#%d", v.Problem()))
		add("语言", v.TitleText())
		add("结果", v.CategoryText())
		add("用时", fmt.Sprintf("%d ms", v.RuntimeMS()))
	case *domain.Achievement:
		add("说明", deref(v.Description))
		add("解锁时间", deref(v.UnlockedAt))
	case *domain.Metric:
		add(v.Label, FormatValue(v.Value))
	}

	if len(lines) == 0 {
		return Title(it), PlaceholderEmpty
	}
	return Title(it), strings.Join(lines, "\n")
}

func versionsBody(versions []domain.ResumeVersion) string {
	if len(versions) == 0 {
		return PlaceholderEmpty
	}
	var b strings.Builder
	for i, v := range versions {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "v%s  %s", Sanitize(v.Version), Sanitize(v.CreatedAt))
		if d := Sanitize(v.Description); d != "" {
			b.WriteString("\n" + d)
		}
		for _, c := range v.Changes {
			b.WriteString("\n  • " + Sanitize(c))
		}
	}
	return b.String()
}

// ProblemURL is the public page of a problem, "" without a slug.
func ProblemURL(p *domain.Problem) string {
	if p.Slug() == "" {
		return ""
	}
	return "https://leetcode.cn/problems/" + url.PathEscape(p.Slug()) + "/"
}
