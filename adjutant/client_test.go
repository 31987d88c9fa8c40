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

package adjutant

import (
	"testing"

	"github.com/gophercloud/gophercloud"
	"github.com/sapcc/go-bits/assert"
)

func TestEndpointNormalization(t *testing.T) {
	provider := &gophercloud.ProviderClient{}

	client := NewRegistrationV1FromEndpoint(provider, "https://adjutant.example.com/v1")
	assert.DeepEqual(t, "endpoint without slash", client.Endpoint, "https://adjutant.example.com/v1/")
	assert.DeepEqual(t, "service type", client.Type, ServiceType)

	client = NewRegistrationV1FromEndpoint(provider, "https://adjutant.example.com/v1/")
	assert.DeepEqual(t, "endpoint with slash", client.Endpoint, "https://adjutant.example.com/v1/")

	assert.DeepEqual(t, "resource URL", client.ServiceURL("tasks", "some-id"),
		"https://adjutant.example.com/v1/tasks/some-id")
}
