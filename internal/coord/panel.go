package coord

import "github.com/h0rv/prep/internal/api"

// PanelStatus is the lifecycle of one resource panel:
// Empty -> Loading -> Loaded | Failed. Loaded and Failed hold until the
// next activation or mutation re-fetch moves the panel back to Loading.
type PanelStatus int

const (
	PanelEmpty PanelStatus = iota
	PanelLoading
	PanelLoaded
	PanelFailed
)

func (s PanelStatus) String() string {
	switch s {
	case PanelEmpty:
		return "empty"
	case PanelLoading:
		return "loading"
	case PanelLoaded:
		return "loaded"
	case PanelFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PanelState is the current state of one resource panel.
type PanelState struct {
	Status PanelStatus
	Class  api.FailureClass // Set when Failed
	Code   int              // HTTP status of the failed call, 0 if none
	Seq    uint64           // Sequence of the request that produced this state
}
