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

package tokens

import (
	"errors"
	"net/http"
	"testing"

	"github.com/sapcc/go-bits/assert"

	"github.com/sapcc/go-adjutant/adjutant"
	"github.com/sapcc/go-adjutant/internal/test"
)

const tokenBody = `{
	"actions": ["NewUserAction"],
	"required_fields": ["password"],
	"task_type": "invite_user_to_project"
}`

func TestGetToken(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("GET", "/tokens/token-1", http.StatusOK, tokenBody)

	token, err := Get(srv.UnauthenticatedClient(), "token-1")
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, "token", token, Token{
		Actions:        []string{"NewUserAction"},
		RequiredFields: []string{"password"},
		TaskType:       "invite_user_to_project",
	})
}

func TestSubmitToken(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("POST", "/tokens/token-1", http.StatusOK, "")

	err := Submit(srv.UnauthenticatedClient(), "token-1", map[string]any{"password": "s3cret"})
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, "request body", srv.Requests[0].Body, `{"password":"s3cret"}`)

	// an empty submission is rejected locally
	err = Submit(srv.UnauthenticatedClient(), "token-1", nil)
	var verr adjutant.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %#v", err)
	}
	assert.DeepEqual(t, "request count", len(srv.Requests), 1)
}

func TestReissueToken(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("POST", "/tokens/", http.StatusOK, "")

	err := Reissue(srv.Client(), "5d6d3573-5fa7-49fb-a4e7-e2fe05cb0167")
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, "request body", srv.Requests[0].Body,
		`{"task":"5d6d3573-5fa7-49fb-a4e7-e2fe05cb0167"}`)
}

func TestResendInvite(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("POST", "/tokens", http.StatusOK, "")

	err := ResendInvite(srv.Client(), "user-2")
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, "request body", srv.Requests[0].Body, `{"task":"user-2"}`)
}
