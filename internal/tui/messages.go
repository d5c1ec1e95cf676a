// Package tui provides the Bubble Tea models of the dashboard.
package tui

import (
	"github.com/h0rv/prep/internal/api"
	"github.com/h0rv/prep/internal/coord"
	"github.com/h0rv/prep/internal/store"
)

// FilterSelectedMsg is emitted when the user picks a filter value.
type FilterSelectedMsg struct {
	Filter store.FilterState
}

// FormSubmitMsg is emitted when a form is submitted with a built payload.
type FormSubmitMsg struct {
	Kind    coord.MutationKind
	Payload any
}

// CloseMsg is emitted by an overlay (picker, form) that wants to close.
type CloseMsg struct{}

// Internal messages
type (
	// resolvedMsg carries one finished resource fetch.
	resolvedMsg struct{ res coord.Resolution }

	// mutationDoneMsg carries a finished mutation. patch is set for
	// optimistic toggles; fromForm keeps the form open on failure.
	mutationDoneMsg struct {
		result   coord.MutationResult
		patch    *store.Patch
		fromForm bool
	}

	healthMsg      struct{ out api.Outcome }
	healthRetryMsg struct{}

	detailMsg struct{ detail coord.Detail }

	toastExpiredMsg struct{ id uint64 }

	// openFailedMsg reports a URL the system browser could not open.
	openFailedMsg struct {
		url string
		err error
	}
)
