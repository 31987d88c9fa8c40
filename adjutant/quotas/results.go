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

package quotas

// ServiceQuotas holds quota values by service and resource, e.g.
// values["nova"]["cores"]. Values are left untyped: quotas are usually
// integral, but the server may report sentinels for resources it cannot
// quantify, and percent computations must degrade instead of panicking.
type ServiceQuotas map[string]map[string]any

// Value looks up one resource value; the second return value is false when
// the service or resource is absent.
func (q ServiceQuotas) Value(service, resource string) (any, bool) {
	resources, exists := q[service]
	if !exists {
		return nil, false
	}
	value, exists := resources[resource]
	return value, exists
}

// Snapshot is the combined quota state as reported by Adjutant: the per-
// region current quota and usage, plus the global catalog of named size
// presets. It is a read-only snapshot constructed fresh per API response.
type Snapshot struct {
	Regions []RegionSnapshot `json:"regions"`
	// Sizes is the catalog of named presets: size name → service →
	// resource → value.
	Sizes map[string]ServiceQuotas `json:"quota_sizes"`
	// SizeOrder lists the size names from smallest to largest.
	SizeOrder []string `json:"quota_size_order"`
}

// Region returns the snapshot entry for the named region, or false.
func (s Snapshot) Region(name string) (RegionSnapshot, bool) {
	for _, region := range s.Regions {
		if region.Region == name {
			return region, true
		}
	}
	return RegionSnapshot{}, false
}

// RegionSnapshot is the quota state of one deployment region.
type RegionSnapshot struct {
	Region       string        `json:"region"`
	CurrentQuota ServiceQuotas `json:"current_quota"`
	CurrentUsage ServiceQuotas `json:"current_usage"`
	// CurrentQuotaSize is the name of the size preset currently applied.
	CurrentQuotaSize string `json:"current_quota_size"`
	// PreapprovedSizes lists the size names that this project may change to
	// without admin approval.
	PreapprovedSizes []string `json:"quota_change_options"`
}
