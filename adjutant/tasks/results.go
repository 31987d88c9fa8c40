/*******************************************************************************
*
* Copyright 2022 SAP SE
*
* Licensed under the Apache License, Version 2.0 (the "License");
* you may not use this file except in compliance with the License.
* You should have received a copy of the License along with this
* program. If not, you may obtain a copy of the License at
*
*     http://www.apache.org/licenses/LICENSE-2.0
*
* Unless required by applicable law or agreed to in writing, software
* distributed under the License is distributed on an "AS IS" BASIS,
* WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
* See the License for the specific language governing permissions and
* limitations under the License.
*
*******************************************************************************/

package tasks

import (
	"github.com/sapcc/go-adjutant/adjutant"
)

// Status values as derived by Task. They are mutually exclusive and chosen
// in this priority order: cancelled beats completed beats approved beats
// awaiting.
const (
	StatusCancelled = "Cancelled"
	StatusCompleted = "Completed"
	StatusApproved  = "Approved; Incomplete"
	StatusAwaiting  = "Awaiting Approval"
)

// Task is a pending or completed workflow request in Adjutant, e.g. a
// sign-up or a quota change. It is a read-only snapshot; all derived fields
// are computed once at mapping time.
type Task struct {
	ID       string
	TaskType string
	// Valid is true iff every action reports valid = true. An empty action
	// list counts as valid.
	Valid bool
	// RequestBy and RequestProject are display fields and degrade to "-"
	// when the server omits them.
	RequestBy      string
	RequestProject string
	CreatedOn      string
	ApprovedOn     string
	CompletedOn    string
	Actions        []Action
	// Status is derived from the cancelled/completed/approved fields and is
	// never stored by the server.
	Status string
	// Page echoes the page number of the list request that produced this
	// record, so that callers can rebuild pagination markers.
	Page int
}

// Action is a named step of a Task with its own validity flag and data
// payload.
type Action struct {
	Type  string         `json:"action"`
	Data  map[string]any `json:"data"`
	Valid bool           `json:"valid"`
}

// MergedActionData merges the data blobs of all actions into a single
// payload. On identical keys, later actions overwrite earlier ones. This is
// the payload shape that task updates expect.
func (t Task) MergedActionData() map[string]any {
	merged := make(map[string]any)
	for _, action := range t.Actions {
		for key, value := range action.Data {
			merged[key] = value
		}
	}
	return merged
}

// Page is one page of a task listing.
type Page struct {
	Tasks   []Task
	HasPrev bool
	HasMore bool
	// Number is the 1-based page number that was actually requested.
	Number int
}

// rawTask mirrors the server schema of a task object.
type rawTask struct {
	UUID         string            `json:"uuid"`
	TaskType     string            `json:"task_type"`
	Cancelled    bool              `json:"cancelled"`
	CreatedOn    string            `json:"created_on"`
	ApprovedOn   string            `json:"approved_on"`
	CompletedOn  string            `json:"completed_on"`
	KeystoneUser map[string]string `json:"keystone_user"`
	Actions      []Action          `json:"actions"`
}

func (raw rawTask) toTask(page int) (Task, error) {
	if raw.UUID == "" {
		return Task{}, adjutant.MappingError{Resource: "task", Field: "uuid"}
	}
	if raw.Actions == nil {
		return Task{}, adjutant.MappingError{Resource: "task", Field: "actions"}
	}

	status := StatusAwaiting
	switch {
	case raw.Cancelled:
		status = StatusCancelled
	case raw.CompletedOn != "":
		status = StatusCompleted
	case raw.ApprovedOn != "":
		status = StatusApproved
	}

	valid := true
	for _, action := range raw.Actions {
		if !action.Valid {
			valid = false
			break
		}
	}

	return Task{
		ID:             raw.UUID,
		TaskType:       raw.TaskType,
		Valid:          valid,
		RequestBy:      displayField(raw.KeystoneUser, "username"),
		RequestProject: displayField(raw.KeystoneUser, "project_name"),
		CreatedOn:      raw.CreatedOn,
		ApprovedOn:     raw.ApprovedOn,
		CompletedOn:    raw.CompletedOn,
		Actions:        raw.Actions,
		Status:         status,
		Page:           page,
	}, nil
}

func displayField(fields map[string]string, key string) string {
	if value, exists := fields[key]; exists && value != "" {
		return value
	}
	return "-"
}
