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
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sapcc/go-bits/assert"

	"github.com/sapcc/go-adjutant/adjutant"
	"github.com/sapcc/go-adjutant/internal/test"
)

const notificationListBody = `{
	"notifications": [
		{
			"uuid": "7a6dc9c3-9250-4bcd-b25a-8ecf26cb7005",
			"task": "5d6d3573-5fa7-49fb-a4e7-e2fe05cb0167",
			"error": false,
			"created_on": "2022-09-01T10:00:00Z",
			"acknowledged": false,
			"notes": {"notes": ["task completed"]}
		}
	],
	"has_prev": true,
	"has_more": false
}`

func TestListNotifications(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("GET", "/notifications", http.StatusOK, notificationListBody)

	page, err := List(srv.Client(), ListOpts{Filters: UnacknowledgedFilter, Page: 2, PerPage: 5})
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, "page flags", []bool{page.HasPrev, page.HasMore}, []bool{true, false})
	if len(page.Notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(page.Notifications))
	}
	assert.DeepEqual(t, "derived notes", page.Notifications[0].Notes, "task completed")
}

func TestListNotificationsFallback(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.HandleFunc("GET", "/notifications", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, notificationListBody)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"errors": ["Empty page"]}`)
	})

	page, err := ListWithFallback(srv.Client(), ListOpts{Page: 3})
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, "page number after fallback", page.Number, 1)
	assert.DeepEqual(t, "request count", srv.CountRequests("GET", "/notifications"), 2)
}

func TestAcknowledgeSingle(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("POST", "/notifications/{id}/", http.StatusOK, "")

	err := Acknowledge(srv.Client(), "7a6dc9c3-9250-4bcd-b25a-8ecf26cb7005")
	if err != nil {
		t.Fatal(err)
	}
	req := srv.Requests[0]
	assert.DeepEqual(t, "request path", req.Path, "/notifications/7a6dc9c3-9250-4bcd-b25a-8ecf26cb7005/")
	assert.DeepEqual(t, "request body", req.Body, `{"acknowledged":true}`)
}

func TestAcknowledgeMany(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("POST", "/notifications", http.StatusAccepted, "")

	err := AcknowledgeMany(srv.Client(), []string{"id-1", "id-2"})
	if err != nil {
		t.Fatal(err)
	}
	req := srv.Requests[0]
	assert.DeepEqual(t, "request path", req.Path, "/notifications")
	assert.DeepEqual(t, "request body", req.Body, `{"notifications":["id-1","id-2"]}`)

	// the bulk form refuses an empty list locally
	err = AcknowledgeMany(srv.Client(), nil)
	var verr adjutant.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %#v", err)
	}
}
