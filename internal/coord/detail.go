package coord

import (
	"context"

	"github.com/h0rv/prep/internal/api"
	"github.com/h0rv/prep/internal/domain"
)

// DetailKind selects a one-shot detail view.
type DetailKind int

const (
	DetailProblem DetailKind = iota
	DetailResume
	DetailResumeVersions
)

// DetailTarget names the record a detail view shows.
type DetailTarget struct {
	Kind DetailKind
	ID   int
}

// Detail is the result of FetchDetail. Details are shown in a modal and
// never stored.
type Detail struct {
	Target   DetailTarget
	Outcome  api.Outcome
	Item     domain.Item            // Problem or résumé detail
	Versions []domain.ResumeVersion // Résumé version history
}

// OK reports whether the detail was fetched and decoded.
func (d Detail) OK() bool {
	if !d.Outcome.OK() {
		return false
	}
	if d.Target.Kind == DetailResumeVersions {
		return true
	}
	return d.Item != nil
}

// FetchDetail performs a single GET for a detail view.
func (c *Coordinator) FetchDetail(ctx context.Context, target DetailTarget) Detail {
	d := Detail{Target: target}

	switch target.Kind {
	case DetailProblem:
		d.Outcome = c.transport.Get(ctx, api.ProblemPath(target.ID))
		d.Item = decodeSingle(d.Outcome, domain.Shape{Kind: domain.KindProblem, Paths: []string{"problem"}, Single: true})
	case DetailResume:
		d.Outcome = c.transport.Get(ctx, api.ResumePath(target.ID))
		d.Item = decodeSingle(d.Outcome, domain.Shape{Kind: domain.KindResume, Paths: []string{"resume"}, Single: true})
	case DetailResumeVersions:
		d.Outcome = c.transport.Get(ctx, api.ResumeVersionsPath(target.ID))
		if v, ok := api.Decode[struct {
			Versions []domain.ResumeVersion `json:"versions"`
		}](d.Outcome); ok {
			d.Versions = v.Versions
		}
	}
	return d
}

func decodeSingle(out api.Outcome, shape domain.Shape) domain.Item {
	if !out.OK() {
		return nil
	}
	items, err := domain.DecodeItems(shape, out.Payload)
	if err != nil || len(items) == 0 {
		return nil
	}
	return items[0]
}
