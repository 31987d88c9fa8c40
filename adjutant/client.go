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

// Package adjutant contains the common plumbing for talking to an Adjutant
// task-approval service: client construction, the error taxonomy, and the
// filter encoding shared by all list requests. The per-resource call surfaces
// live in the subpackages (tasks, notifications, tokens, users, quotas).
package adjutant

import (
	"strings"

	"github.com/gophercloud/gophercloud"
)

// ServiceType is the catalog service type under which Adjutant registers its
// endpoint in Keystone.
const ServiceType = "registration"

// NewRegistrationV1 locates the Adjutant endpoint in the service catalog of
// the given provider and returns a ServiceClient for it.
func NewRegistrationV1(provider *gophercloud.ProviderClient, eo gophercloud.EndpointOpts) (*gophercloud.ServiceClient, error) {
	eo.ApplyDefaults(ServiceType)
	endpoint, err := provider.EndpointLocator(eo)
	if err != nil {
		return nil, err
	}
	return &gophercloud.ServiceClient{
		ProviderClient: provider,
		Endpoint:       normalizeEndpoint(endpoint),
		Type:           ServiceType,
	}, nil
}

// NewRegistrationV1FromEndpoint is like NewRegistrationV1, but skips the
// catalog lookup in favor of an explicitly configured endpoint URL. This is
// required when the token's catalog does not advertise the registration
// service.
func NewRegistrationV1FromEndpoint(provider *gophercloud.ProviderClient, endpoint string) *gophercloud.ServiceClient {
	return &gophercloud.ServiceClient{
		ProviderClient: provider,
		Endpoint:       normalizeEndpoint(endpoint),
		Type:           ServiceType,
	}
}

// NewUnauthenticatedClient returns a ServiceClient for the endpoints that
// must be called without an auth token (token retrieval/submission, sign-up,
// password reset).
func NewUnauthenticatedClient(endpoint string) *gophercloud.ServiceClient {
	return &gophercloud.ServiceClient{
		ProviderClient: &gophercloud.ProviderClient{},
		Endpoint:       normalizeEndpoint(endpoint),
		Type:           ServiceType,
	}
}

func normalizeEndpoint(endpoint string) string {
	// gophercloud's ServiceURL() joins with the endpoint verbatim, so the
	// trailing slash matters
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	return endpoint
}
