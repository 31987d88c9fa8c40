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

// Package tokens implements the single-use credential tokens of the Adjutant
// API. Tokens are issued for tasks that need a final user-supplied step,
// e.g. setting a password on an invitation.
package tokens

import (
	"github.com/gophercloud/gophercloud"

	"github.com/sapcc/go-adjutant/adjutant"
)

// Token describes what a token submission requires. The full detail is only
// available through Get; task listings merely reference tokens by their
// pending action.
type Token struct {
	Actions        []string `json:"actions"`
	RequiredFields []string `json:"required_fields"`
	TaskType       string   `json:"task_type"`
}

// Get fetches the detail of a token. This endpoint is unauthenticated; use a
// client from adjutant.NewUnauthenticatedClient.
func Get(c *gophercloud.ServiceClient, token string) (Token, error) {
	var result Token
	_, err := c.Get(c.ServiceURL("tokens", token), &result, nil)
	if err != nil {
		return Token{}, adjutant.ClassifyResponseError(err)
	}
	return result, nil
}

// Submit completes the action behind a token with the caller-supplied fields
// (e.g. {"password": ...} or {"confirm": true}). This endpoint is
// unauthenticated; use a client from adjutant.NewUnauthenticatedClient.
func Submit(c *gophercloud.ServiceClient, token string, fields map[string]any) error {
	if len(fields) == 0 {
		return adjutant.ValidationError{Message: "token submission requires at least one field"}
	}
	_, err := c.Post(c.ServiceURL("tokens", token), fields, nil, &gophercloud.RequestOpts{
		OkCodes: []int{200, 201, 202},
	})
	return adjutant.ClassifyResponseError(err)
}

// Reissue voids a task's previous token and issues a fresh one. The token is
// delivered out of band (usually by email), so there is nothing to extract.
func Reissue(c *gophercloud.ServiceClient, taskID string) error {
	_, err := c.Post(c.ServiceURL("tokens")+"/", map[string]any{"task": taskID}, nil, &gophercloud.RequestOpts{
		OkCodes: []int{200, 202},
	})
	return adjutant.ClassifyResponseError(err)
}

// ResendInvite reissues the token behind a pending user invitation. For
// invited users, the task ID is identical to the user ID. For active users,
// resending an invitation makes no sense.
func ResendInvite(c *gophercloud.ServiceClient, userID string) error {
	_, err := c.Post(c.ServiceURL("tokens"), map[string]any{"task": userID}, nil, &gophercloud.RequestOpts{
		OkCodes: []int{200, 201, 202},
	})
	return adjutant.ClassifyResponseError(err)
}
