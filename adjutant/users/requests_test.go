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
	"errors"
	"net/http"
	"testing"

	"github.com/sapcc/go-bits/assert"

	"github.com/sapcc/go-adjutant/adjutant"
	"github.com/sapcc/go-adjutant/internal/test"
)

const userListBody = `{
	"users": [
		{
			"id": "user-1",
			"name": "alice",
			"email": "alice@example.com",
			"roles": ["project_admin"],
			"cohort": "Member",
			"status": "Active"
		},
		{
			"id": "user-2",
			"name": "bob",
			"email": "bob@example.com",
			"roles": ["_member_"],
			"cohort": "Invited",
			"status": "Invited"
		}
	]
}`

func TestListUsers(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("GET", "/openstack/users", http.StatusOK, userListBody)

	page, err := List(srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, "users", page.Users, []User{
		{ID: "user-1", Name: "alice", Email: "alice@example.com", Roles: []string{"project_admin"}, Cohort: CohortMember, Status: "Active"},
		{ID: "user-2", Name: "bob", Email: "bob@example.com", Roles: []string{"_member_"}, Cohort: CohortInvited, Status: "Invited"},
	})
	// users are not paginated on the wire
	assert.DeepEqual(t, "page flags", []bool{page.HasPrev, page.HasMore}, []bool{false, false})
	assert.DeepEqual(t, "page number", page.Number, 1)
}

func TestListUsersMissingCohort(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("GET", "/openstack/users", http.StatusOK, `{"users": [{"id": "user-1"}]}`)

	_, err := List(srv.Client())
	var merr adjutant.MappingError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MappingError, got %#v", err)
	}
	assert.DeepEqual(t, "missing field", merr.Field, "cohort")
}

func TestInvite(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("POST", "/openstack/users", http.StatusAccepted, "")

	err := Invite(srv.Client(), InviteOpts{
		Email:     "carol@example.com",
		ProjectID: "project-1",
		Roles:     []string{"_member_"},
	})
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, "request body", srv.Requests[0].Body,
		`{"email":"carol@example.com","project_id":"project-1","roles":["_member_"]}`)

	// missing email is rejected locally
	err = Invite(srv.Client(), InviteOpts{ProjectID: "project-1"})
	var verr adjutant.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %#v", err)
	}
	assert.DeepEqual(t, "request count", len(srv.Requests), 1)
}

func TestRevokeSendsEmptyObjectBody(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("DELETE", "/openstack/users/user-2", http.StatusOK, "")

	err := Revoke(srv.Client(), "user-2")
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, "request body", srv.Requests[0].Body, `{}`)
}

func TestUpdateEmailConflict(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("POST", "/openstack/users/email-update", http.StatusBadRequest,
		`{"errors": ["Email already in use"]}`)

	err := UpdateEmail(srv.Client(), "taken@example.com")
	if err == nil {
		t.Fatal("expected UpdateEmail to fail")
	}
	if !adjutant.IsEmailInUse(err) {
		t.Fatalf("expected an email-in-use error, got %#v", err)
	}
}

func TestResetPasswordIsUnauthenticated(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("POST", "/openstack/users/password-reset", http.StatusOK, "")

	err := ResetPassword(srv.UnauthenticatedClient(), ResetPasswordOpts{Email: "alice@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, "request body", srv.Requests[0].Body, `{"email":"alice@example.com"}`)
}

func TestSignUp(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("POST", "/openstack/sign-up", http.StatusAccepted, "")

	err := SignUp(srv.UnauthenticatedClient(), SignUpOpts{
		Email:        "dave@example.com",
		ProjectName:  "dave-project",
		SetupNetwork: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, "request body", srv.Requests[0].Body,
		`{"email":"dave@example.com","project_name":"dave-project","setup_network":true}`)

	err = SignUp(srv.UnauthenticatedClient(), SignUpOpts{Email: "dave@example.com"})
	var verr adjutant.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %#v", err)
	}
}
