package models

type Status string

const (
	StatusCreated        Status = "created"
	StatusBuilding       Status = "building"
	StatusScheduled      Status = "scheduled"
	StatusStarting       Status = "starting"
	StatusRunning        Status = "running"
	StatusResuming       Status = "resuming"
	StatusUnknown        Status = "unknown"
	StatusSucceeded      Status = "succeeded"
	StatusStopped        Status = "stopped"
	StatusFailed         Status = "failed"
	StatusWarning        Status = "warning"
	StatusUnschedulable  Status = "unschedulable"
	StatusUpstreamFailed Status = "upstream_failed"
	StatusSkipped        Status = "skipped"
)

var statusTexts = map[Status]string{
	StatusCreated:        "Experiment creation",
	StatusBuilding:       "Container assembly",
	StatusScheduled:      "Ready to run",
	StatusStarting:       "Starting",
	StatusRunning:        "Running",
	StatusResuming:       "Resume starting",
	StatusUnknown:        "Unknown",
	StatusSucceeded:      "Succeeded",
	StatusStopped:        "Stopped",
	StatusFailed:         "Failed",
	StatusWarning:        "Waiting for a resource to run",
	StatusUnschedulable:  "Waiting for a resource to run",
	StatusUpstreamFailed: "Error of previous experiment",
	StatusSkipped:        "Experiment skipped",
}

// Known reports whether s belongs to the backend's status vocabulary.
func (s Status) Known() bool {
	_, ok := statusTexts[s]
	return ok
}

// Display returns s, or StatusUnknown when s is outside the vocabulary.
func (s Status) Display() Status {
	if s.Known() {
		return s
	}
	return StatusUnknown
}

// Text returns the human readable description of the status.
func (s Status) Text() string {
	return statusTexts[s.Display()]
}

// IsTerminal reports whether the experiment can no longer change state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusStopped, StatusSucceeded, StatusFailed, StatusUpstreamFailed, StatusSkipped:
		return true
	}
	return false
}

// IsAmbiguous reports whether the status needs a status-history lookup to
// explain it. The raw code is checked, not the display value.
func (s Status) IsAmbiguous() bool {
	switch s {
	case StatusWarning, StatusUnschedulable, StatusUnknown:
		return true
	}
	return false
}
