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

package users

import (
	"github.com/sapcc/go-adjutant/adjutant"
)

// Cohort values distinguish active project members from pending invitations.
// The cohort decides which actions are available: invited users can have
// their invitation resent or revoked, active users can have their roles
// updated.
const (
	CohortMember  = "Member"
	CohortInvited = "Invited"
)

// User is a member of (or pending invitee to) the token's project.
type User struct {
	ID     string
	Name   string
	Email  string
	Roles  []string
	Cohort string
	Status string
}

// Page is one "page" of a user listing. Users are not paginated on the wire;
// the flags exist so that callers can treat all listing contracts alike.
type Page struct {
	Users   []User
	HasPrev bool
	HasMore bool
	Number  int
}

// Role is a role that can be granted to project users.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type rawUser struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	Cohort string   `json:"cohort"`
	Status string   `json:"status"`
}

func (raw rawUser) toUser() (User, error) {
	if raw.ID == "" {
		return User{}, adjutant.MappingError{Resource: "user", Field: "id"}
	}
	if raw.Cohort == "" {
		return User{}, adjutant.MappingError{Resource: "user", Field: "cohort"}
	}
	return User(raw), nil
}
