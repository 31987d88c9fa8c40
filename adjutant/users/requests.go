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

// Package users implements the project-user management operations of the
// Adjutant API.
package users

import (
	"net/http"

	"github.com/gophercloud/gophercloud"

	"github.com/sapcc/go-adjutant/adjutant"
)

// List fetches all users of the token's project. The wire protocol does not
// paginate this collection; the page flags are always false so that callers
// can treat user, task and notification listings uniformly.
func List(c *gophercloud.ServiceClient) (Page, error) {
	var data struct {
		Users []rawUser `json:"users"`
	}
	_, err := c.Get(c.ServiceURL("openstack", "users"), &data, nil)
	if err != nil {
		return Page{}, adjutant.ClassifyResponseError(err)
	}

	page := Page{Users: make([]User, 0, len(data.Users)), Number: 1}
	for _, raw := range data.Users {
		user, err := raw.toUser()
		if err != nil {
			return Page{}, err
		}
		page.Users = append(page.Users, user)
	}
	return page, nil
}

// Get fetches a single user by ID.
func Get(c *gophercloud.ServiceClient, userID string) (User, error) {
	var raw rawUser
	_, err := c.Get(c.ServiceURL("openstack", "users", userID), &raw, nil)
	if err != nil {
		return User{}, adjutant.ClassifyResponseError(err)
	}
	return raw.toUser()
}

// InviteOpts describes a user invitation. The invited user does not exist
// yet; Adjutant creates a pending invitation task for them.
type InviteOpts struct {
	Username  string   `json:"username,omitempty"`
	Email     string   `json:"email"`
	ProjectID string   `json:"project_id"`
	Roles     []string `json:"roles"`
}

// Invite creates a pending invitation for a new project user.
func Invite(c *gophercloud.ServiceClient, opts InviteOpts) error {
	if opts.Email == "" {
		return adjutant.ValidationError{Message: "user invitation requires an email address"}
	}
	_, err := c.Post(c.ServiceURL("openstack", "users"), opts, nil, &gophercloud.RequestOpts{
		OkCodes: []int{202},
	})
	return adjutant.ClassifyResponseError(err)
}

// Revoke removes a user from the project. For invited users this deletes the
// invitation; for active users Adjutant strips all their roles, which
// functionally removes them from the project without deleting their account.
// Callers select this operation vs. something gentler based on User.Cohort.
func Revoke(c *gophercloud.ServiceClient, userID string) error {
	_, err := c.Request(http.MethodDelete, c.ServiceURL("openstack", "users", userID), &gophercloud.RequestOpts{
		JSONBody: map[string]any{},
		OkCodes:  []int{200, 202},
	})
	return adjutant.ClassifyResponseError(err)
}

// RoleOpts carries a set of role names for AddRoles and RemoveRoles.
type RoleOpts struct {
	ProjectID string   `json:"project_id"`
	Roles     []string `json:"roles"`
}

// AddRoles grants the given roles to a user. The role list is applied
// verbatim; computing the delta against the user's current roles is the
// caller's job (see SyncRoles).
func AddRoles(c *gophercloud.ServiceClient, userID string, opts RoleOpts) error {
	if len(opts.Roles) == 0 {
		return adjutant.ValidationError{Message: "no roles given"}
	}
	_, err := c.Put(c.ServiceURL("openstack", "users", userID, "roles"), opts, nil, &gophercloud.RequestOpts{
		OkCodes: []int{200, 202},
	})
	return adjutant.ClassifyResponseError(err)
}

// RemoveRoles revokes the given roles from a user. Like AddRoles, the list
// is applied verbatim.
func RemoveRoles(c *gophercloud.ServiceClient, userID string, opts RoleOpts) error {
	if len(opts.Roles) == 0 {
		return adjutant.ValidationError{Message: "no roles given"}
	}
	_, err := c.Request(http.MethodDelete, c.ServiceURL("openstack", "users", userID, "roles"), &gophercloud.RequestOpts{
		JSONBody: opts,
		OkCodes:  []int{200, 202},
	})
	return adjutant.ClassifyResponseError(err)
}

// ListRoles returns the roles that the token is allowed to manage on other
// users.
func ListRoles(c *gophercloud.ServiceClient) ([]Role, error) {
	var data struct {
		Roles []Role `json:"roles"`
	}
	_, err := c.Get(c.ServiceURL("openstack", "roles"), &data, nil)
	if err != nil {
		return nil, adjutant.ClassifyResponseError(err)
	}
	return data.Roles, nil
}

// UpdateEmail starts an email change for the token's own user. The change
// only takes effect once the user confirms it through the token that
// Adjutant sends to the new address. A 400 response means the address is
// already in use (check with adjutant.IsEmailInUse).
func UpdateEmail(c *gophercloud.ServiceClient, newEmail string) error {
	if newEmail == "" {
		return adjutant.ValidationError{Message: "no email address given"}
	}
	_, err := c.Post(c.ServiceURL("openstack", "users", "email-update"), map[string]any{"new_email": newEmail}, nil, &gophercloud.RequestOpts{
		OkCodes: []int{202},
	})
	return adjutant.ClassifyResponseError(err)
}

// ResetPasswordOpts identifies the user asking for a self-serve password
// reset.
type ResetPasswordOpts struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// ResetPassword requests a self-serve password reset. This endpoint is
// unauthenticated; use a client from adjutant.NewUnauthenticatedClient.
// Adjutant answers 2xx regardless of whether the user exists, to avoid
// leaking account information.
func ResetPassword(c *gophercloud.ServiceClient, opts ResetPasswordOpts) error {
	if opts.Email == "" {
		return adjutant.ValidationError{Message: "password reset requires an email address"}
	}
	_, err := c.Post(c.ServiceURL("openstack", "users", "password-reset"), opts, nil, &gophercloud.RequestOpts{
		OkCodes: []int{200, 201, 202},
	})
	return adjutant.ClassifyResponseError(err)
}

// SignUpOpts describes a new-project sign-up request.
type SignUpOpts struct {
	Username     string `json:"username,omitempty"`
	Email        string `json:"email"`
	ProjectName  string `json:"project_name"`
	SetupNetwork bool   `json:"setup_network"`
}

// SignUp submits a new-project sign-up, which lands as a task awaiting
// approval. This endpoint is unauthenticated; use a client from
// adjutant.NewUnauthenticatedClient.
func SignUp(c *gophercloud.ServiceClient, opts SignUpOpts) error {
	if opts.Email == "" || opts.ProjectName == "" {
		return adjutant.ValidationError{Message: "sign-up requires an email address and a project name"}
	}
	_, err := c.Post(c.ServiceURL("openstack", "sign-up"), opts, nil, &gophercloud.RequestOpts{
		OkCodes: []int{200, 201, 202},
	})
	return adjutant.ClassifyResponseError(err)
}
