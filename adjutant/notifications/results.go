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

package notifications

import (
	"encoding/json"

	"github.com/sapcc/go-adjutant/adjutant"
)

// Notification is a record produced by Adjutant about a task's outcome,
// requiring human acknowledgement.
type Notification struct {
	UUID string
	// Task references the task that produced this notification. It is a
	// weak reference by ID, not ownership; the task may already be gone.
	Task         string
	Error        bool
	CreatedOn    string
	Acknowledged bool
	// Notes is flattened into a single display string, see deriveNotes().
	Notes string
}

// Page is one page of a notification listing.
type Page struct {
	Notifications []Notification
	HasPrev       bool
	HasMore       bool
	// Number is the 1-based page number that was actually requested.
	Number int
}

// rawNotification mirrors the server schema of a notification object.
type rawNotification struct {
	UUID         string          `json:"uuid"`
	Task         string          `json:"task"`
	Error        bool            `json:"error"`
	CreatedOn    string          `json:"created_on"`
	Acknowledged bool            `json:"acknowledged"`
	Notes        json.RawMessage `json:"notes"`
}

func (raw rawNotification) toNotification() (Notification, error) {
	if raw.UUID == "" {
		return Notification{}, adjutant.MappingError{Resource: "notification", Field: "uuid"}
	}
	notes, err := deriveNotes(raw.Notes, raw.Error)
	if err != nil {
		return Notification{}, err
	}
	return Notification{
		UUID:         raw.UUID,
		Task:         raw.Task,
		Error:        raw.Error,
		CreatedOn:    raw.CreatedOn,
		Acknowledged: raw.Acknowledged,
		Notes:        notes,
	}, nil
}

// deriveNotes flattens the server's free-form notes value into one string:
//
//  1. If the value is an object, prefer its "errors" member for error
//     notifications and its "notes" member otherwise; when that member is
//     absent, keep the whole value.
//  2. A single-element list is unwrapped to its only element.
//  3. Anything that is not a string by now is serialized back to JSON text.
func deriveNotes(raw json.RawMessage, isError bool) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var value any
	err := json.Unmarshal(raw, &value)
	if err != nil {
		return "", adjutant.MappingError{Resource: "notification", Field: "notes"}
	}

	if obj, ok := value.(map[string]any); ok {
		key := "notes"
		if isError {
			key = "errors"
		}
		if sub, exists := obj[key]; exists {
			value = sub
		}
	}
	if list, ok := value.([]any); ok && len(list) == 1 {
		value = list[0]
	}
	if str, ok := value.(string); ok {
		return str, nil
	}

	buf, err := json.Marshal(value)
	if err != nil {
		return "", adjutant.MappingError{Resource: "notification", Field: "notes"}
	}
	return string(buf), nil
}
