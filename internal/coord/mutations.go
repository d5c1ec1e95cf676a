package coord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/h0rv/prep/internal/api"
	"github.com/h0rv/prep/internal/domain"
	"github.com/h0rv/prep/internal/store"
)

// MutationKind names a write the dashboard can submit.
type MutationKind string

const (
	MutCreateResume    MutationKind = "create-resume"
	MutUpdateResume    MutationKind = "update-resume"
	MutDeleteResume    MutationKind = "delete-resume"
	MutOptimizeResume  MutationKind = "optimize-resume"
	MutExportResumePDF MutationKind = "export-resume-pdf"
	MutSubmitSolution  MutationKind = "submit-solution"
	MutSyncProblems    MutationKind = "sync-problems"
	MutAnalyzeAnswer   MutationKind = "analyze-answer"
	MutExportReport    MutationKind = "export-report"
	MutToggleStatus    MutationKind = "toggle-status"
)

// PersonalInfo is the contact block of a résumé.
type PersonalInfo struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// ResumeInput creates a résumé.
type ResumeInput struct {
	Title        string `validate:"required,max=200"`
	TemplateID   int    `validate:"omitempty,min=1"`
	PersonalInfo PersonalInfo
	Skills       []string `validate:"omitempty,max=50,dive,required,max=50"`
}

// ResumeUpdate edits an existing résumé.
type ResumeUpdate struct {
	ID int `validate:"required,min=1"`
	ResumeInput
}

// ResumeRef targets one résumé (delete, PDF export).
type ResumeRef struct {
	ID int `validate:"required,min=1"`
}

// OptimizeInput asks the backend to tailor a résumé to a job description.
type OptimizeInput struct {
	ResumeID       int    `validate:"required,min=1"`
	JobDescription string `validate:"required,max=5000"`
}

// SolutionInput records a submission for a problem.
type SolutionInput struct {
	ProblemID int    `json:"problem_id" validate:"required,min=1"`
	Language  string `json:"language" validate:"required,max=30"`
	Code      string `json:"code" validate:"required"`
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=ACCEPTED WRONG_ANSWER TIME_LIMIT_EXCEEDED RUNTIME_ERROR COMPILE_ERROR"`
}

// SyncInput bounds a catalog sync. Zero Limit syncs everything.
type SyncInput struct {
	Limit     int `validate:"min=0"`
	BatchSize int `validate:"omitempty,min=1,max=100"`
}

// AnswerInput submits a practice answer for analysis. Audio is optional.
type AnswerInput struct {
	QuestionID int    `validate:"required,min=1"`
	AnswerText string `validate:"required,max=10000"`
	Audio      []byte
	AudioName  string `validate:"required_with=Audio"`
}

// ReportInput requests an analytics report export.
type ReportInput struct {
	Format string `validate:"omitempty,oneof=pdf excel json"`
	Period string `validate:"omitempty,oneof=week month quarter year"`
}

// ToggleInput confirms an optimistic "done" toggle. The backend derives
// completion from accepted submissions, so the confirmation is one.
type ToggleInput struct {
	ProblemID int    `json:"problem_id" validate:"required,min=1"`
	Language  string `json:"language" validate:"required,max=30"`
	Code      string `json:"code"`
	Status    string `json:"status" validate:"required,eq=ACCEPTED"`
}

// toggleLanguage labels submissions recorded by a status toggle.
const toggleLanguage = "Python"

// MutationResult is the outcome of SubmitMutation. Err is set when the
// payload was rejected before any network call.
type MutationResult struct {
	Kind    MutationKind
	Outcome api.Outcome
	Err     error
	Refetch []Request // Re-fetches issued on success, panels already Loading
}

// OK reports whether the backend accepted the mutation.
func (r MutationResult) OK() bool { return r.Err == nil && r.Outcome.OK() }

// Message returns a short reason for a failed mutation.
func (r MutationResult) Message() string {
	if r.Err != nil {
		var verrs validator.ValidationErrors
		if errors.As(r.Err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return "请检查字段: " + strings.Join(fields, ", ")
		}
		return r.Err.Error()
	}
	return r.Outcome.Message()
}

type sender func(ctx context.Context, t Transport, v *validator.Validate, payload any) (api.Outcome, error)

type mutationSpec struct {
	send    sender
	refetch []domain.ResourceID
}

var mutations = map[MutationKind]mutationSpec{
	MutCreateResume: {
		send: typed(func(ctx context.Context, t Transport, in ResumeInput) api.Outcome {
			return t.Post(ctx, api.PathResumes, resumeBody(in))
		}),
		refetch: []domain.ResourceID{domain.ResResumes},
	},
	MutUpdateResume: {
		send: typed(func(ctx context.Context, t Transport, in ResumeUpdate) api.Outcome {
			return t.Put(ctx, api.ResumePath(in.ID), resumeBody(in.ResumeInput))
		}),
		refetch: []domain.ResourceID{domain.ResResumes},
	},
	MutDeleteResume: {
		send: typed(func(ctx context.Context, t Transport, in ResumeRef) api.Outcome {
			return t.Delete(ctx, api.ResumePath(in.ID))
		}),
		refetch: []domain.ResourceID{domain.ResResumes},
	},
	MutOptimizeResume: {
		send: typed(func(ctx context.Context, t Transport, in OptimizeInput) api.Outcome {
			return t.PostForm(ctx, api.ResumeOptimizePath(in.ResumeID), api.FormPayload{
				Fields: map[string]string{"job_description": in.JobDescription},
			})
		}),
		refetch: []domain.ResourceID{domain.ResResumes},
	},
	MutExportResumePDF: {
		send: typed(func(ctx context.Context, t Transport, in ResumeRef) api.Outcome {
			return t.Post(ctx, api.ResumeExportPDFPath(in.ID), nil)
		}),
	},
	MutSubmitSolution: {
		send: typed(func(ctx context.Context, t Transport, in SolutionInput) api.Outcome {
			return t.Post(ctx, api.PathSubmissions, in)
		}),
		refetch: []domain.ResourceID{domain.ResSubmissions, domain.ResProblems, domain.ResProblemStats},
	},
	MutSyncProblems: {
		send: typed(func(ctx context.Context, t Transport, in SyncInput) api.Outcome {
			return t.Post(ctx, api.SyncPath(in.Limit, in.BatchSize), nil)
		}),
		refetch: []domain.ResourceID{domain.ResProblems, domain.ResProblemStats},
	},
	MutAnalyzeAnswer: {
		send: typed(func(ctx context.Context, t Transport, in AnswerInput) api.Outcome {
			form := api.FormPayload{Fields: map[string]string{
				"question_id": strconv.Itoa(in.QuestionID),
				"answer_text": in.AnswerText,
			}}
			if len(in.Audio) > 0 {
				form.Files = append(form.Files, api.FormFile{Field: "audio_file", Filename: in.AudioName, Content: in.Audio})
			}
			return t.PostForm(ctx, api.PathAnalyzeAnswer, form)
		}),
		refetch: []domain.ResourceID{domain.ResInterviewStats},
	},
	MutExportReport: {
		send: typed(func(ctx context.Context, t Transport, in ReportInput) api.Outcome {
			return t.Post(ctx, api.ExportReportPath(in.Format, in.Period), nil)
		}),
	},
	MutToggleStatus: {
		send: typed(func(ctx context.Context, t Transport, in ToggleInput) api.Outcome {
			return t.Post(ctx, api.PathSubmissions, in)
		}),
		refetch: []domain.ResourceID{domain.ResProblems, domain.ResProblemStats},
	},
}

// typed adapts a handler for payload type P: it accepts P or *P, validates
// it and rejects anything else with ErrInvalidPayload.
func typed[P any](fn func(ctx context.Context, t Transport, p P) api.Outcome) sender {
	return func(ctx context.Context, t Transport, v *validator.Validate, payload any) (api.Outcome, error) {
		p, ok := payload.(P)
		if !ok {
			ptr, isPtr := payload.(*P)
			if !isPtr || ptr == nil {
				return api.Outcome{}, fmt.Errorf("%w: expected %T, got %T", ErrInvalidPayload, p, payload)
			}
			p = *ptr
		}
		if err := v.Struct(p); err != nil {
			return api.Outcome{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		return fn(ctx, t, p), nil
	}
}

func resumeBody(in ResumeInput) map[string]any {
	skills := make([]map[string]string, 0, len(in.Skills))
	for _, s := range in.Skills {
		skills = append(skills, map[string]string{"name": s})
	}
	body := map[string]any{
		"title":         in.Title,
		"personal_info": in.PersonalInfo,
		"skills":        skills,
	}
	if in.TemplateID > 0 {
		body["template_id"] = in.TemplateID
	}
	return body
}

// SubmitMutation validates payload, sends it and, on success, issues
// re-fetches of the affected resources. The mutation response itself is
// never merged into the store.
func (c *Coordinator) SubmitMutation(ctx context.Context, kind MutationKind, payload any) MutationResult {
	spec, ok := mutations[kind]
	if !ok {
		return MutationResult{Kind: kind, Err: fmt.Errorf("%w: %s", ErrUnknownMutation, kind)}
	}

	out, err := spec.send(ctx, c.transport, c.validate, payload)
	if err != nil {
		c.logger.Warn("mutation rejected", zap.String("kind", string(kind)), zap.Error(err))
		return MutationResult{Kind: kind, Err: err}
	}

	result := MutationResult{Kind: kind, Outcome: out}
	if !out.OK() {
		c.logger.Warn("mutation failed",
			zap.String("kind", string(kind)),
			zap.Stringer("class", out.Class),
			zap.Int("status", out.Status),
			zap.String("request_id", out.RequestID))
		return result
	}
	if len(spec.refetch) > 0 {
		result.Refetch = c.begin(spec.refetch)
	}
	return result
}

// ToggleStatus optimistically marks a problem done. The returned patch must
// be passed to Reconcile once the confirming toggle-status mutation
// completes. Until then further toggles of the same problem fail with
// ErrTogglePending. Done problems cannot be toggled back: the backend keeps
// no way to withdraw an accepted submission.
func (c *Coordinator) ToggleStatus(id int) (store.Patch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.toggles[id] {
		return store.Patch{}, fmt.Errorf("%w: problem %d", ErrTogglePending, id)
	}
	it, err := c.store.Find(domain.ResProblems, id)
	if err != nil {
		return store.Patch{}, err
	}
	if p, ok := it.(*domain.Problem); ok && p.StatusText() == domain.StatusDone {
		return store.Patch{}, fmt.Errorf("%w: problem %d", ErrAlreadyDone, id)
	}

	patch, err := c.store.PatchItem(domain.ResProblems, id, func(it domain.Item) {
		if p, ok := it.(*domain.Problem); ok {
			p.Status = domain.Ptr(domain.StatusDone)
			p.IsCompleted = domain.Ptr(true)
		}
	})
	if err != nil {
		return store.Patch{}, err
	}
	c.toggles[id] = true
	return patch, nil
}

// ToggleInputFor builds the confirming payload for a status patch.
func ToggleInputFor(p store.Patch) ToggleInput {
	return ToggleInput{
		ProblemID: p.ID,
		Language:  toggleLanguage,
		Status:    domain.SubmissionAccepted,
	}
}

// Reconcile settles an optimistic patch: on failure the patch is reverted
// (unless newer server data already replaced it); on success the problems
// re-fetch issued by SubmitMutation replaces it with server truth. Either
// way the problem can be toggled again afterwards.
// Returns whether a revert happened.
func (c *Coordinator) Reconcile(p store.Patch, res MutationResult) bool {
	c.mu.Lock()
	delete(c.toggles, p.ID)
	c.mu.Unlock()

	if res.OK() {
		return false
	}
	reverted := c.store.Revert(p)
	c.logger.Info("optimistic patch settled after failure",
		zap.String("resource", string(p.Resource)),
		zap.Int("id", p.ID),
		zap.Bool("reverted", reverted))
	return reverted
}
