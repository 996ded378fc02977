package models

import "time"

// Experiment is the normalized record of a single training run.
type Experiment struct {
	ID           int64      `json:"id" yaml:"id"`
	UUID         string     `json:"uuid" yaml:"uuid"`
	Status       Status     `json:"status" yaml:"status"`
	StatusText   string     `json:"status_text" yaml:"status_text"`
	Name         string     `json:"name" yaml:"name"`
	Project      string     `json:"project,omitempty" yaml:"project,omitempty"`
	StartTime    *time.Time `json:"date_start,omitempty" yaml:"date_start,omitempty"`
	EndTime      *time.Time `json:"date_end,omitempty" yaml:"date_end,omitempty"`
	Step         *int64     `json:"step,omitempty" yaml:"step,omitempty"`
	Percent      int        `json:"percent" yaml:"percent"`
	ErrorMessage *string    `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

// IsZero reports whether e is the empty record returned on failed lookups.
func (e Experiment) IsZero() bool {
	return e.ID == 0 && e.UUID == "" && e.Status == ""
}

// ExperimentList maps experiment UUIDs to records. Running holds the id of
// the first non-terminal experiment in backend order, if any.
type ExperimentList struct {
	Data    map[string]Experiment `json:"data" yaml:"data"`
	Running *int64                `json:"running,omitempty" yaml:"running,omitempty"`
}

func NewExperimentList() ExperimentList {
	return ExperimentList{Data: make(map[string]Experiment)}
}

// Add stores e under its UUID and marks it running when it is the first
// non-terminal experiment seen.
func (l *ExperimentList) Add(e Experiment) {
	if l.Data == nil {
		l.Data = make(map[string]Experiment)
	}
	if l.Running == nil && !e.Status.IsTerminal() {
		id := e.ID
		l.Running = &id
	}
	l.Data[e.UUID] = e
}
