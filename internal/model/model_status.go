package model

import "time"

// ModelState is the lifecycle state of the process-wide model handle.
type ModelState string

const (
	ModelLoading ModelState = "loading"
	ModelReady   ModelState = "ready"
	ModelFailed  ModelState = "failed"
)

type ModelStatus struct {
	State   ModelState
	Backend string
	ModelID string
	// Revision is the hub commit the model resolved to, when known.
	Revision string
	// Error is the last load error. A ready model with an error is still
	// serving the previous handle after a failed reload.
	Error    string
	LoadedAt *time.Time
}

// Ready reports whether generation can be attempted.
func (s ModelStatus) Ready() bool {
	return s.State == ModelReady
}
