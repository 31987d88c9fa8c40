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
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gophercloud/gophercloud"

	"github.com/sapcc/go-adjutant/adjutant"
	"github.com/sapcc/go-adjutant/adjutant/quotas"
	"github.com/sapcc/go-adjutant/adjutant/tasks"
)

// RegionDetailRow compares one resource's current quota and usage in one
// region against the size catalog.
type RegionDetailRow struct {
	Name         string
	Service      string
	CurrentQuota any
	CurrentUsage any
	Percent      Percent
	// Sizes maps every catalog size name to that size's preset value for
	// this resource, formatted for display ("-" when the size does not
	// define the resource).
	Sizes     map[string]string
	Important bool
}

// RegionDetail builds one row per (service, resource) pair in the region's
// current quota, skipping hidden resources. Rows are sorted by service, then
// resource.
func RegionDetail(cache *Cache, cfg Config, region string) ([]RegionDetailRow, error) {
	snapshot, err := cache.Snapshot(quotas.SnapshotOpts{
		Regions:      []string{region},
		IncludeUsage: true,
	})
	if err != nil {
		return nil, err
	}
	regionSnapshot, exists := snapshot.Region(region)
	if !exists {
		return nil, fmt.Errorf("quota snapshot does not contain region %q", region)
	}

	var rows []RegionDetailRow
	for service, resources := range regionSnapshot.CurrentQuota {
		for resource, quota := range resources {
			if cfg.isHidden(service, resource) {
				continue
			}
			usage, _ := regionSnapshot.CurrentUsage.Value(service, resource)
			rows = append(rows, RegionDetailRow{
				Name:         resource,
				Service:      service,
				CurrentQuota: quota,
				CurrentUsage: usage,
				Percent:      PercentOf(usage, quota),
				Sizes:        sizeBlob(snapshot, service, resource),
				Important:    cfg.isImportant(service, resource),
			})
		}
	}
	sortRows(rows, func(row RegionDetailRow) (string, string) { return row.Service, row.Name })
	return rows, nil
}

// SizeDetailRow compares one resource's preset value in a quota size against
// the current quota and usage in one region.
type SizeDetailRow struct {
	Name         string
	Service      string
	Value        any
	CurrentQuota any
	CurrentUsage any
	Percent      Percent
}

// SizeDetail builds one row per (service, resource) pair in the named size's
// catalog entry, skipping services that have no current usage in the region
// as well as hidden resources. Rows are sorted by service, then resource.
func SizeDetail(cache *Cache, cfg Config, size, region string) ([]SizeDetailRow, error) {
	snapshot, err := cache.Snapshot(quotas.SnapshotOpts{
		Regions:      []string{region},
		IncludeUsage: true,
	})
	if err != nil {
		return nil, err
	}
	sizeQuotas, exists := snapshot.Sizes[size]
	if !exists {
		return nil, fmt.Errorf("quota snapshot does not contain size %q", size)
	}
	regionSnapshot, exists := snapshot.Region(region)
	if !exists {
		return nil, fmt.Errorf("quota snapshot does not contain region %q", region)
	}

	var rows []SizeDetailRow
	for service, resources := range sizeQuotas {
		if _, exists := regionSnapshot.CurrentUsage[service]; !exists {
			continue
		}
		for resource, value := range resources {
			if cfg.isHidden(service, resource) {
				continue
			}
			quota, _ := regionSnapshot.CurrentQuota.Value(service, resource)
			usage, _ := regionSnapshot.CurrentUsage.Value(service, resource)
			rows = append(rows, SizeDetailRow{
				Name:         resource,
				Service:      service,
				Value:        value,
				CurrentQuota: quota,
				CurrentUsage: usage,
				Percent:      PercentOf(usage, quota),
			})
		}
	}
	sortRows(rows, func(row SizeDetailRow) (string, string) { return row.Service, row.Name })
	return rows, nil
}

// RegionOverviewRow summarizes one region's quota state.
type RegionOverviewRow struct {
	Region string
	// QuotaSize is the name of the size preset currently applied.
	QuotaSize string
	// PreapprovedSizes is the comma-joined list of size names that require
	// no approval to change to.
	PreapprovedSizes string
}

// RegionOverview builds one row per region in the snapshot. It does not need
// usage data, so the underlying fetch skips it.
func RegionOverview(cache *Cache) ([]RegionOverviewRow, error) {
	snapshot, err := cache.Snapshot(quotas.SnapshotOpts{IncludeUsage: false})
	if err != nil {
		return nil, err
	}

	rows := make([]RegionOverviewRow, 0, len(snapshot.Regions))
	for _, region := range snapshot.Regions {
		rows = append(rows, RegionOverviewRow{
			Region:           region.Region,
			QuotaSize:        region.CurrentQuotaSize,
			PreapprovedSizes: strings.Join(region.PreapprovedSizes, ", "),
		})
	}
	return rows, nil
}

// QuotaTaskRow is one in-flight quota-change request.
type QuotaTaskRow struct {
	ID string
	// Regions is the comma-joined list of regions the change applies to.
	Regions string
	// Size is the requested size preset.
	Size    string
	User    string
	Created string
	Valid   bool
	Status  string
}

// QuotaTasks lists the project's quota-change tasks. Everything is passed
// through from the server; the only client-side work is joining the region
// lists and truncating the creation timestamp to its date portion.
func QuotaTasks(c *gophercloud.ServiceClient) ([]QuotaTaskRow, error) {
	page, err := tasks.List(c, tasks.ListOpts{
		Filters: adjutant.Filters{"task_type": {"exact": "update_quota"}},
	})
	if err != nil {
		return nil, err
	}

	rows := make([]QuotaTaskRow, 0, len(page.Tasks))
	for _, task := range page.Tasks {
		var regions []string
		var size string
		for _, action := range task.Actions {
			if actionRegions, ok := action.Data["regions"].([]any); ok {
				for _, region := range actionRegions {
					if name, ok := region.(string); ok {
						regions = append(regions, name)
					}
				}
			}
			if actionSize, ok := action.Data["size"].(string); ok {
				size = actionSize
			}
		}
		rows = append(rows, QuotaTaskRow{
			ID:      task.ID,
			Regions: strings.Join(regions, ", "),
			Size:    size,
			User:    task.RequestBy,
			Created: dateOnly(task.CreatedOn),
			Valid:   task.Valid,
			Status:  task.Status,
		})
	}
	return rows, nil
}

func sizeBlob(snapshot quotas.Snapshot, service, resource string) map[string]string {
	blob := make(map[string]string, len(snapshot.Sizes))
	for sizeName, sizeQuotas := range snapshot.Sizes {
		value, exists := sizeQuotas.Value(service, resource)
		if exists {
			blob[sizeName] = FormatValue(value)
		} else {
			blob[sizeName] = "-"
		}
	}
	return blob
}

// FormatValue renders a quota value for display. Absent values render as the
// same "-" placeholder that undefined percentages use.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "-"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func dateOnly(timestamp string) string {
	// timestamps look like "2022-09-08T01:02:03.456789Z"; the date is
	// everything before the time separator
	for _, sep := range []string{"T", " "} {
		if idx := strings.Index(timestamp, sep); idx != -1 {
			return timestamp[:idx]
		}
	}
	return timestamp
}

func sortRows[T any](rows []T, key func(T) (string, string)) {
	sort.Slice(rows, func(i, j int) bool {
		iService, iName := key(rows[i])
		jService, jName := key(rows[j])
		if iService != jService {
			return iService < jService
		}
		return iName < jName
	})
}
