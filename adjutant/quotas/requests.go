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

// Package quotas implements the quota operations of the Adjutant API.
// Adjutant manages quotas as named size presets (e.g. "small", "large") that
// apply per region; the server reports current quota, current usage and the
// size catalog in one combined snapshot.
package quotas

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gophercloud/gophercloud"

	"github.com/sapcc/go-adjutant/adjutant"
)

// SnapshotOpts restricts which parts of the quota snapshot to fetch.
type SnapshotOpts struct {
	// Regions restricts the snapshot to the given regions; empty means all.
	Regions []string
	// IncludeUsage also reports current usage next to current quota. Views
	// that only need size names can skip it to spare the server the usage
	// collection.
	IncludeUsage bool
}

// ToQuotaQuery formats the opts into the query string expected by
// GET /openstack/quotas/.
func (opts SnapshotOpts) ToQuotaQuery() string {
	q := url.Values{}
	if len(opts.Regions) > 0 {
		q.Set("regions", strings.Join(opts.Regions, ","))
	}
	q.Set("include_usage", strconv.FormatBool(opts.IncludeUsage))
	return "?" + q.Encode()
}

// GetSnapshot fetches the combined quota snapshot. One fetch serves several
// projections (region detail, size detail, region overview); callers that
// render more than one should memoize it per logical request, see
// internal/quotaview.Cache.
func GetSnapshot(c *gophercloud.ServiceClient, opts SnapshotOpts) (Snapshot, error) {
	var snapshot Snapshot
	_, err := c.Get(c.ServiceURL("openstack", "quotas")+"/"+opts.ToQuotaQuery(), &snapshot, nil)
	if err != nil {
		return Snapshot{}, adjutant.ClassifyResponseError(err)
	}
	for _, region := range snapshot.Regions {
		if region.Region == "" {
			return Snapshot{}, adjutant.MappingError{Resource: "quota snapshot", Field: "region"}
		}
	}
	return snapshot, nil
}

// UpdateOpts describes a quota-change request.
type UpdateOpts struct {
	// Size is the name of the quota size preset to change to.
	Size string `json:"size"`
	// Regions restricts the change to the given regions; empty means all.
	Regions []string `json:"regions,omitempty"`
}

// Update submits a quota-change request. Depending on the target size and
// the project's history, the resulting task may require admin approval, so a
// 202 does not mean the quota has changed yet. A 400 response means the
// current usage exceeds the requested size (check with
// adjutant.IsQuotaConflict).
func Update(c *gophercloud.ServiceClient, opts UpdateOpts) error {
	if opts.Size == "" {
		return adjutant.ValidationError{Message: "quota update requires a size name"}
	}
	_, err := c.Post(c.ServiceURL("openstack", "quotas")+"/", opts, nil, &gophercloud.RequestOpts{
		OkCodes: []int{200, 202},
	})
	return adjutant.ClassifyResponseError(err)
}
