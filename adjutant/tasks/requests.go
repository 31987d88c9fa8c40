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

// Package tasks implements the workflow-task operations of the Adjutant API.
package tasks

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/gofrs/uuid"
	"github.com/gophercloud/gophercloud"

	"github.com/sapcc/go-adjutant/adjutant"
)

// Canned filter sets matching the task list tabs of the admin dashboard.
var (
	ActiveFilter = adjutant.Filters{
		"cancelled": {"exact": false},
		"approved":  {"exact": false},
	}
	ApprovedFilter = adjutant.Filters{
		"cancelled": {"exact": false},
		"approved":  {"exact": true},
		"completed": {"exact": false},
	}
	CompletedFilter = adjutant.Filters{
		"completed": {"exact": true},
	}
	CancelledFilter = adjutant.Filters{
		"cancelled": {"exact": true},
	}
)

// ListOpts describes one page of a filtered task listing.
type ListOpts struct {
	Filters adjutant.Filters
	// Page is 1-based; zero counts as page 1.
	Page int
	// PerPage is supplied by the caller's display-size policy; zero leaves
	// the page size to the server default.
	PerPage int
}

// ToTaskListQuery formats the opts into the query string expected by
// GET /tasks.
func (opts ListOpts) ToTaskListQuery() (string, error) {
	q := url.Values{}
	filters, err := opts.Filters.Encode()
	if err != nil {
		return "", err
	}
	if filters != "" {
		q.Set("filters", filters)
	}
	q.Set("page", strconv.Itoa(opts.pageNumber()))
	if opts.PerPage > 0 {
		q.Set("tasks_per_page", strconv.Itoa(opts.PerPage))
	}
	return "?" + q.Encode(), nil
}

func (opts ListOpts) pageNumber() int {
	if opts.Page < 1 {
		return 1
	}
	return opts.Page
}

// List fetches one page of tasks. Item order is exactly the order returned
// by the server.
func List(c *gophercloud.ServiceClient, opts ListOpts) (Page, error) {
	query, err := opts.ToTaskListQuery()
	if err != nil {
		return Page{}, err
	}

	var data struct {
		Tasks   []rawTask `json:"tasks"`
		HasPrev bool      `json:"has_prev"`
		HasMore bool      `json:"has_more"`
	}
	_, err = c.Get(c.ServiceURL("tasks")+query, &data, nil)
	if err != nil {
		return Page{}, adjutant.ClassifyResponseError(err)
	}

	page := Page{
		Tasks:   make([]Task, 0, len(data.Tasks)),
		HasPrev: data.HasPrev,
		HasMore: data.HasMore,
		Number:  opts.pageNumber(),
	}
	for _, raw := range data.Tasks {
		task, err := raw.toTask(page.Number)
		if err != nil {
			return Page{}, err
		}
		page.Tasks = append(page.Tasks, task)
	}
	return page, nil
}

// ListWithFallback behaves like List, except that, when the server reports
// the empty-page condition for the requested page, the call is reissued for
// page 1 exactly once. Any error from that retry propagates without a second
// fallback attempt.
func ListWithFallback(c *gophercloud.ServiceClient, opts ListOpts) (Page, error) {
	page, err := List(c, opts)
	if err == nil || !adjutant.IsEmptyPage(err) {
		return page, err
	}
	opts.Page = 1
	return List(c, opts)
}

// Get fetches a single task by ID.
func Get(c *gophercloud.ServiceClient, taskID string) (Task, error) {
	err := validateTaskID(taskID)
	if err != nil {
		return Task{}, err
	}
	var raw rawTask
	_, err = c.Get(c.ServiceURL("tasks", taskID), &raw, nil)
	if err != nil {
		return Task{}, adjutant.ClassifyResponseError(err)
	}
	return raw.toTask(0)
}

// Approve approves a task. On a task that is already approved, this reruns
// the post-approve validation and reissues the token.
func Approve(c *gophercloud.ServiceClient, taskID string) error {
	err := validateTaskID(taskID)
	if err != nil {
		return err
	}
	_, err = c.Post(c.ServiceURL("tasks", taskID), map[string]any{"approved": true}, nil, &gophercloud.RequestOpts{
		OkCodes: []int{200, 202},
	})
	return adjutant.ClassifyResponseError(err)
}

// Cancel cancels a task.
func Cancel(c *gophercloud.ServiceClient, taskID string) error {
	err := validateTaskID(taskID)
	if err != nil {
		return err
	}
	_, err = c.Delete(c.ServiceURL("tasks", taskID), &gophercloud.RequestOpts{
		OkCodes: []int{200, 202},
	})
	return adjutant.ClassifyResponseError(err)
}

// Update replaces a task's action data and reruns the pre-approve
// validation. The payload must be a valid JSON object; a malformed payload
// fails with ValidationError before any request is issued.
func Update(c *gophercloud.ServiceClient, taskID string, payload []byte) error {
	err := validateTaskID(taskID)
	if err != nil {
		return err
	}
	var body map[string]any
	err = json.Unmarshal(payload, &body)
	if err != nil {
		return adjutant.ValidationError{Message: "task update payload is not a JSON object: " + err.Error()}
	}
	_, err = c.Put(c.ServiceURL("tasks", taskID), body, nil, &gophercloud.RequestOpts{
		OkCodes: []int{200, 202},
	})
	return adjutant.ClassifyResponseError(err)
}

// Revalidate fetches the task, merges the data blobs of all its actions into
// one payload, and submits that payload as an update. The two round-trips
// are sequential and not transactional: if the update fails, the fetch is
// not compensated (it had no effect anyway).
func Revalidate(c *gophercloud.ServiceClient, taskID string) error {
	task, err := Get(c, taskID)
	if err != nil {
		return err
	}
	_, err = c.Put(c.ServiceURL("tasks", taskID), task.MergedActionData(), nil, &gophercloud.RequestOpts{
		OkCodes: []int{200, 202},
	})
	return adjutant.ClassifyResponseError(err)
}

func validateTaskID(taskID string) error {
	_, err := uuid.FromString(taskID)
	if err != nil {
		return adjutant.ValidationError{Message: "not a valid task ID: " + taskID}
	}
	return nil
}
