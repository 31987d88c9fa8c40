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
	"testing"

	"github.com/sapcc/go-bits/assert"
)

func TestPercentOf(t *testing.T) {
	testCases := []struct {
		usage    any
		quota    any
		defined  bool
		rendered string
	}{
		{usage: float64(50), quota: float64(200), defined: true, rendered: "25.0%"},
		{usage: float64(61), quota: float64(100), defined: true, rendered: "61.0%"},
		{usage: float64(1), quota: float64(3), defined: true, rendered: "33.3%"},
		{usage: 0, quota: 200, defined: true, rendered: "0.0%"},
		// zero quota must not divide
		{usage: float64(5), quota: float64(0), defined: false, rendered: "-"},
		// usage not fetched
		{usage: nil, quota: float64(200), defined: false, rendered: "-"},
		// server reported a sentinel instead of a number
		{usage: float64(5), quota: "unlimited", defined: false, rendered: "-"},
		{usage: nil, quota: nil, defined: false, rendered: "-"},
	}

	for _, tc := range testCases {
		percent := PercentOf(tc.usage, tc.quota)
		assert.DeepEqual(t, "defined", percent.Defined(), tc.defined)
		assert.DeepEqual(t, "rendered", percent.String(), tc.rendered)
	}
}

func TestFormatValue(t *testing.T) {
	assert.DeepEqual(t, "nil", FormatValue(nil), "-")
	assert.DeepEqual(t, "integral float", FormatValue(float64(20)), "20")
	assert.DeepEqual(t, "string", FormatValue("unlimited"), "unlimited")
	assert.DeepEqual(t, "bool fallback", FormatValue(true), "true")
}
