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

// Package quotaview joins the parts of a quota snapshot into the per-resource
// comparison rows that the quota CLI commands display.
package quotaview

// Config classifies quota resources for display. Both tables map a service
// name to resource names and are configuration, not server data; they can be
// overridden wholesale (e.g. from the CLI config file). Config is injected
// where needed and never lives in a process-wide global.
type Config struct {
	// Hidden lists resources that never appear in detail rows, even if the
	// raw snapshot reports them.
	Hidden map[string][]string `yaml:"hidden_quotas"`
	// Important lists resources to flag for emphasis in region detail rows.
	Important map[string][]string `yaml:"important_quotas"`
}

// DefaultConfig returns the stock classification tables.
func DefaultConfig() Config {
	return Config{
		Hidden: map[string][]string{
			"nova": {
				"security_groups", "security_group_rules",
				"floating_ips", "fixed_ips",
			},
			"cinder": {
				"per_volume_gigabytes", "volumes_lvmdriver-1",
				"gigabytes_lvmdriver-1", "snapshots_lvmdriver-1",
			},
			"neutron": {"subnetpool"},
		},
		Important: map[string][]string{
			"nova":    {"instances", "cores", "ram"},
			"cinder":  {"volumes", "snapshots", "gigabytes"},
			"neutron": {"network", "floatingip", "router", "security_group"},
			"octavia": {"load_balancer"},
		},
	}
}

func (c Config) isHidden(service, resource string) bool {
	return containsName(c.Hidden[service], resource)
}

func (c Config) isImportant(service, resource string) bool {
	return containsName(c.Important[service], resource)
}

func containsName(names []string, name string) bool {
	for _, candidate := range names {
		if candidate == name {
			return true
		}
	}
	return false
}
