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
	"fmt"
	"sort"

	"github.com/gophercloud/gophercloud"
)

// RoleDiff computes which roles to grant and which to revoke to bring a
// user's current role set to the desired one. Roles outside the manageable
// set are left untouched:
//
//	added   = desired − (current ∩ manageable)
//	removed = (current ∩ manageable) − desired
//
// Both result slices are sorted for deterministic request bodies.
func RoleDiff(current, manageable, desired []string) (added, removed []string) {
	currentManageable := intersect(toSet(current), toSet(manageable))
	desiredSet := toSet(desired)
	added = subtract(desiredSet, currentManageable)
	removed = subtract(currentManageable, desiredSet)
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

func toSet(values []string) map[string]bool {
	result := make(map[string]bool, len(values))
	for _, value := range values {
		result[value] = true
	}
	return result
}

func intersect(lhs, rhs map[string]bool) map[string]bool {
	result := make(map[string]bool, len(lhs))
	for value := range lhs {
		if rhs[value] {
			result[value] = true
		}
	}
	return result
}

func subtract(lhs, rhs map[string]bool) []string {
	result := make([]string, 0, len(lhs))
	for value := range lhs {
		if !rhs[value] {
			result = append(result, value)
		}
	}
	return result
}

// SyncRolesOpts describes a role synchronization for SyncRoles.
type SyncRolesOpts struct {
	ProjectID string
	// Desired is the full role set that the user shall end up with (within
	// the manageable roles).
	Desired []string
	// Manageable restricts which roles this operation may touch. When nil,
	// it is fetched via ListRoles.
	Manageable []string
}

// SyncRoles fetches the user's current roles, computes the delta via
// RoleDiff, and applies it. Removals are issued and awaited before additions
// are issued; the server may reject overlapping role changes, so this
// ordering must not be parallelized. The two sub-calls are not transactional:
// if the addition fails after a successful removal, the removal stays
// applied and the whole operation reports failure. Callers must treat a
// failed SyncRoles as potentially partially applied.
func SyncRoles(c *gophercloud.ServiceClient, userID string, opts SyncRolesOpts) error {
	user, err := Get(c, userID)
	if err != nil {
		return fmt.Errorf("cannot get current roles: %w", err)
	}

	manageable := opts.Manageable
	if manageable == nil {
		roles, err := ListRoles(c)
		if err != nil {
			return fmt.Errorf("cannot list manageable roles: %w", err)
		}
		for _, role := range roles {
			manageable = append(manageable, role.Name)
		}
	}

	added, removed := RoleDiff(user.Roles, manageable, opts.Desired)

	if len(removed) > 0 {
		err := RemoveRoles(c, userID, RoleOpts{ProjectID: opts.ProjectID, Roles: removed})
		if err != nil {
			return fmt.Errorf("cannot remove roles: %w", err)
		}
	}
	if len(added) > 0 {
		err := AddRoles(c, userID, RoleOpts{ProjectID: opts.ProjectID, Roles: added})
		if err != nil {
			return fmt.Errorf("cannot add roles: %w", err)
		}
	}
	return nil
}

// DefaultRoleTranslations maps role names to human-readable labels for
// display purposes. Unknown roles fall back to their raw name, so this table
// only needs entries for the dashboard's well-known roles. Deployments
// override it wholesale via configuration.
var DefaultRoleTranslations = map[string]string{
	"project_admin":      "Project Admin",
	"project_mod":        "Project Moderator",
	"_member_":           "Project Member",
	"heat_stack_owner":   "Heat Stack Owner",
	"project_readonly":   "Project Read-only",
	"compute_start_stop": "Compute Start/Stop",
	"object_storage":     "Object Storage",
}

// RoleDisplayName translates a role name using the given table, falling back
// to the raw name.
func RoleDisplayName(translations map[string]string, roleName string) string {
	if label, exists := translations[roleName]; exists {
		return label
	}
	return roleName
}
