// Package render maps store state to a display tree. Everything here is pure:
// the same collection, filter and panel state always yield the same Node,
// and no function performs I/O. All item-supplied text is sanitised before
// it enters the tree.
package render

import (
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"

	"github.com/h0rv/prep/internal/coord"
	"github.com/h0rv/prep/internal/domain"
)

// NodeKind is the role of a node in the display tree.
type NodeKind string

const (
	KindPanel       NodeKind = "panel"
	KindTable       NodeKind = "table"
	KindRow         NodeKind = "row"
	KindCell        NodeKind = "cell"
	KindText        NodeKind = "text"
	KindBadge       NodeKind = "badge"
	KindPlaceholder NodeKind = "placeholder"
)

// Node is one element of the display tree.
type Node struct {
	Kind     NodeKind
	Text     string
	Class    string
	Children []Node
}

// Placeholder texts.
const (
	PlaceholderLoading = "加载中…"
	PlaceholderFailed  = "加载失败，请检查后端服务"
	PlaceholderEmpty   = "暂无数据"
)

// Untitled replaces an absent title.
const Untitled = "(untitled)"

// ClassHeader marks a table's header row.
const ClassHeader = "header"

// Panel renders one resource panel: a placeholder while loading, after a
// failure or when the (filtered) collection is empty, else a table.
func Panel(title string, state coord.PanelState, items iter.Seq[domain.Item]) Node {
	panel := Node{Kind: KindPanel, Text: Sanitize(title), Class: state.Status.String()}

	switch state.Status {
	case coord.PanelEmpty:
		panel.Children = []Node{placeholder("")}
	case coord.PanelLoading:
		panel.Children = []Node{placeholder(PlaceholderLoading)}
	case coord.PanelFailed:
		panel.Children = []Node{placeholder(PlaceholderFailed)}
	default:
		var list []domain.Item
		if items != nil {
			for it := range items {
				list = append(list, it)
			}
		}
		if len(list) == 0 {
			panel.Children = []Node{placeholder(PlaceholderEmpty)}
		} else {
			panel.Children = []Node{Table(list)}
		}
	}
	return panel
}

func placeholder(text string) Node {
	return Node{Kind: KindPlaceholder, Text: text}
}

// Table renders items as a table. The kind of the first item picks the columns.
func Table(items []domain.Item) Node {
	if len(items) == 0 {
		return Node{Kind: KindTable}
	}

	var header []string
	var row func(domain.Item) []Node
	switch items[0].ItemKind() {
	case domain.KindProblem:
		header, row = []string{"#", "标题", "难度", "标签", "状态"}, problemRow
	case domain.KindQuestion:
		header, row = []string{"#", "分类", "难度", "题目"}, questionRow
	case domain.KindResume:
		header, row = []string{"#", "标题", "姓名", "更新时间"}, resumeRow
	case domain.KindSubmission:
		header, row = []string{"#", "题目", "语言", "结果", "用时"}, submissionRow
	case domain.KindAchievement:
		header, row = []string{"成就", "描述", "状态"}, achievementRow
	case domain.KindGoal:
		header, row = []string{"目标", "进度", "完成度"}, goalRow
	default:
		header, row = []string{"指标", "数值"}, metricRow
	}

	headerCells := make([]Node, len(header))
	for i, h := range header {
		headerCells[i] = text(h)
	}
	kind := items[0].ItemKind()
	rows := []Node{{Kind: KindRow, Class: ClassHeader, Children: headerCells}}
	for _, it := range items {
		if it.ItemKind() != kind {
			continue
		}
		rows = append(rows, Node{Kind: KindRow, Children: row(it)})
	}
	return Node{Kind: KindTable, Class: string(kind), Children: rows}
}

func problemRow(it domain.Item) []Node {
	p, _ := it.(*domain.Problem)
	status := p.StatusText()
	return []Node{
		text("#" + strconv.Itoa(p.ItemID())),
		text(Title(p)),
		difficultyBadge(p.DifficultyText()),
		text(tags(p.TagList())),
		badge(status, domain.StatusClass(status)),
	}
}

func questionRow(it domain.Item) []Node {
	q, _ := it.(*domain.Question)
	return []Node{
		text("#" + strconv.Itoa(q.ItemID())),
		text(orDash(q.CategoryText())),
		difficultyBadge(q.DifficultyText()),
		text(Title(q)),
	}
}

func resumeRow(it domain.Item) []Node {
	r, _ := it.(*domain.Resume)
	return []Node{
		text("#" + strconv.Itoa(r.ItemID())),
		text(Title(r)),
		text(orDash(r.Owner())),
		text(orDash(r.Updated())),
	}
}

func submissionRow(it domain.Item) []Node {
	s, _ := it.(*domain.Submission)
	result := orDash(s.CategoryText())
	class := "pending"
	if result == "ACCEPTED" {
		class = "done"
	} else if result != "-" {
		class = "failed"
	}
	return []Node{
		text("#" + strconv.Itoa(s.ItemID())),
		text("#" + strconv.Itoa(s.Problem())),
		text(orDash(s.TitleText())),
		badge(result, class),
		text(fmt.Sprintf("%d ms", s.RuntimeMS())),
	}
}

func achievementRow(it domain.Item) []Node {
	a, _ := it.(*domain.Achievement)
	state := badge("已解锁", "done")
	if !a.Unlocked() {
		pct := 0
		if a.Progress != nil {
			pct = int(math.Round(*a.Progress * 100))
		}
		state = badge(fmt.Sprintf("进度 %d%%", pct), "pending")
	}
	return []Node{
		text(Title(a)),
		text(orDash(Sanitize(deref(a.Description)))),
		state,
	}
}

func goalRow(it domain.Item) []Node {
	g, _ := it.(*domain.Goal)
	return []Node{
		text(Title(g)),
		text(FormatValue(g.Current()) + " / " + FormatValue(g.Target())),
		text(fmt.Sprintf("%d%%", g.Percent())),
	}
}

func metricRow(it domain.Item) []Node {
	m, ok := it.(*domain.Metric)
	if !ok {
		return []Node{text(Title(it)), text("-")}
	}
	return []Node{text(orDash(Sanitize(m.Label))), text(FormatValue(m.Value))}
}

func text(s string) Node { return Node{Kind: KindCell, Text: s} }

func badge(s, class string) Node {
	return Node{Kind: KindCell, Children: []Node{{Kind: KindBadge, Text: Sanitize(s), Class: class}}}
}

func difficultyBadge(difficulty string) Node {
	label := difficulty
	if label == "" {
		label = "-"
	}
	return badge(label, domain.DifficultyClass(difficulty))
}

// Title is the sanitised display title of it, Untitled when absent.
func Title(it domain.Item) string {
	if t := Sanitize(strings.TrimSpace(it.TitleText())); t != "" {
		return t
	}
	return Untitled
}

func tags(list []string) string {
	if len(list) == 0 {
		return "-"
	}
	clean := make([]string, 0, len(list))
	for _, t := range list {
		if t = Sanitize(t); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return "-"
	}
	return strings.Join(clean, ", ")
}

func orDash(s string) string {
	if s = Sanitize(s); s == "" {
		return "-"
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FormatValue prints a metric with at most one decimal.
func FormatValue(v float64) string {
	r := math.Round(v*10) / 10
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
