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
	"encoding/json"
)

// Filters restricts a list request to records matching all given field
// specifications. The inner map goes from a Django-style match operator to
// the operand, e.g.
//
//	adjutant.Filters{"cancelled": {"exact": false}}
//
// Adjutant receives this as a JSON-encoded "filters" query parameter.
type Filters map[string]map[string]any

// Encode serializes the filter expression into the wire format.
func (f Filters) Encode() (string, error) {
	if len(f) == 0 {
		return "", nil
	}
	buf, err := json.Marshal(f)
	if err != nil {
		return "", ValidationError{Message: "cannot serialize filters: " + err.Error()}
	}
	return string(buf), nil
}
