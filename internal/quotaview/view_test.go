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

package quotaview

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/sapcc/go-bits/assert"

	"github.com/sapcc/go-adjutant/internal/test"
)

const viewSnapshotBody = `{
	"regions": [
		{
			"region": "region-a",
			"current_quota": {
				"nova":   {"cores": 20, "instances": 10, "security_groups": 10},
				"cinder": {"volumes": 10}
			},
			"current_usage": {
				"nova":   {"cores": 4, "instances": 2, "security_groups": 1},
				"cinder": {"volumes": 3}
			},
			"current_quota_size": "small",
			"quota_change_options": ["small", "medium"]
		},
		{
			"region": "region-b",
			"current_quota": {"nova": {"cores": 100}},
			"current_usage": {"nova": {"cores": 61}},
			"current_quota_size": "large",
			"quota_change_options": []
		}
	],
	"quota_sizes": {
		"small":  {"nova": {"cores": 20, "instances": 10}, "cinder": {"volumes": 10}, "octavia": {"load_balancer": 1}},
		"medium": {"nova": {"cores": 50, "instances": 25}, "cinder": {"volumes": 25}}
	},
	"quota_size_order": ["small", "medium"]
}`

func TestRegionDetail(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("GET", "/openstack/quotas/", http.StatusOK, viewSnapshotBody)

	rows, err := RegionDetail(NewCache(srv.Client()), DefaultConfig(), "region-a")
	if err != nil {
		t.Fatal(err)
	}

	// nova/security_groups is hidden by the stock config; everything else is
	// sorted by service, then resource
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Service+"/"+row.Name)
	}
	assert.DeepEqual(t, "row order", names,
		[]string{"cinder/volumes", "nova/cores", "nova/instances"})

	cores := rows[1]
	assert.DeepEqual(t, "important flag", cores.Important, true)
	assert.DeepEqual(t, "percent", cores.Percent.String(), "20.0%")
	assert.DeepEqual(t, "size blob", cores.Sizes, map[string]string{
		"small":  "20",
		"medium": "50",
	})
}

func TestRegionDetailSizeBlobPlaceholder(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("GET", "/openstack/quotas/", http.StatusOK, viewSnapshotBody)

	// a config without hidden resources exposes nova/security_groups, which
	// no size in the catalog defines
	rows, err := RegionDetail(NewCache(srv.Client()), Config{}, "region-a")
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range rows {
		if row.Service == "nova" && row.Name == "security_groups" {
			assert.DeepEqual(t, "size blob placeholders", row.Sizes, map[string]string{
				"small":  "-",
				"medium": "-",
			})
			return
		}
	}
	t.Fatal("nova/security_groups missing from rows")
}

func TestSizeDetailSkipsUnusedServices(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("GET", "/openstack/quotas/", http.StatusOK, viewSnapshotBody)

	// region-b only uses nova, so the size's cinder and octavia entries are
	// irrelevant there
	rows, err := SizeDetail(NewCache(srv.Client()), DefaultConfig(), "small", "region-b")
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Service+"/"+row.Name)
	}
	assert.DeepEqual(t, "row order", names, []string{"nova/cores", "nova/instances"})

	cores := rows[0]
	assert.DeepEqual(t, "preset value", cores.Value, any(float64(20)))
	assert.DeepEqual(t, "current quota", cores.CurrentQuota, any(float64(100)))
	assert.DeepEqual(t, "percent", cores.Percent.String(), "61.0%")

	// instances has neither quota nor usage in region-b
	assert.DeepEqual(t, "percent without usage", rows[1].Percent.String(), "-")
}

func TestRegionOverview(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("GET", "/openstack/quotas/", http.StatusOK, viewSnapshotBody)

	rows, err := RegionOverview(NewCache(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, "rows", rows, []RegionOverviewRow{
		{Region: "region-a", QuotaSize: "small", PreapprovedSizes: "small, medium"},
		{Region: "region-b", QuotaSize: "large", PreapprovedSizes: ""},
	})
	if !strings.Contains(srv.Requests[0].Path, "include_usage=false") {
		t.Errorf("overview fetch should skip usage: %s", srv.Requests[0].Path)
	}
}

const quotaTaskListBody = `{
	"tasks": [
		{
			"uuid": "5d6d3573-5fa7-49fb-a4e7-e2fe05cb0167",
			"task_type": "update_quota",
			"cancelled": false,
			"created_on": "2022-09-08T01:02:03.456789Z",
			"approved_on": null,
			"completed_on": null,
			"keystone_user": {"username": "alice", "project_name": "demo"},
			"actions": [
				{
					"action": "UpdateProjectQuotas",
					"data": {"regions": ["region-a", "region-b"], "size": "medium"},
					"valid": true
				}
			]
		}
	],
	"has_prev": false,
	"has_more": false
}`

func TestQuotaTasks(t *testing.T) {
	srv := test.NewServer()
	defer srv.Close()
	srv.Handle("GET", "/tasks", http.StatusOK, quotaTaskListBody)

	rows, err := QuotaTasks(srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, "rows", rows, []QuotaTaskRow{{
		ID:      "5d6d3573-5fa7-49fb-a4e7-e2fe05cb0167",
		Regions: "region-a, region-b",
		Size:    "medium",
		User:    "alice",
		Created: "2022-09-08",
		Valid:   true,
		Status:  "Awaiting Approval",
	}})

	requestURL, err := url.Parse(srv.Requests[0].Path)
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, "task type filter",
		requestURL.Query().Get("filters"), `{"task_type":{"exact":"update_quota"}}`)
}
