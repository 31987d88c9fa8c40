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
	"strconv"
	"strings"

	"github.com/gophercloud/gophercloud"
	"github.com/mohae/deepcopy"

	"github.com/sapcc/go-adjutant/adjutant/quotas"
)

// Cache memoizes quota snapshot fetches, keyed by the (regions,
// include-usage) pair of the request. Several projections of the same
// snapshot are usually rendered together and should not each hit the server.
//
// A Cache is scoped to a single logical request (one CLI invocation, one
// page render). It must not be shared across independent calling contexts,
// or unrelated operations would see stale quota data. It is not safe for
// concurrent use.
type Cache struct {
	client  *gophercloud.ServiceClient
	entries map[string]quotas.Snapshot
}

// NewCache builds a Cache around the given client.
func NewCache(client *gophercloud.ServiceClient) *Cache {
	return &Cache{
		client:  client,
		entries: make(map[string]quotas.Snapshot),
	}
}

// Snapshot fetches (or replays) the snapshot for the given opts. The result
// is a deep copy, so callers may modify it without corrupting later replays.
func (cache *Cache) Snapshot(opts quotas.SnapshotOpts) (quotas.Snapshot, error) {
	key := strings.Join(opts.Regions, ",") + "|" + strconv.FormatBool(opts.IncludeUsage)
	if snapshot, exists := cache.entries[key]; exists {
		return copySnapshot(snapshot), nil
	}

	snapshot, err := quotas.GetSnapshot(cache.client, opts)
	if err != nil {
		return quotas.Snapshot{}, err
	}
	cache.entries[key] = snapshot
	return copySnapshot(snapshot), nil
}

func copySnapshot(snapshot quotas.Snapshot) quotas.Snapshot {
	return deepcopy.Copy(snapshot).(quotas.Snapshot)
}
