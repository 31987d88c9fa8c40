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
)

// Percent is a usage/quota ratio that may be undefined. An undefined percent
// renders as "-"; there is no state in which computing it divides by zero.
type Percent struct {
	value   float64
	defined bool
}

// PercentOf computes usage/quota. The result is undefined when either
// operand is not a number (e.g. usage was not fetched, or the server
// reported a sentinel) or when the quota is zero.
func PercentOf(usage, quota any) Percent {
	usageValue, usageOK := asFloat(usage)
	quotaValue, quotaOK := asFloat(quota)
	if !usageOK || !quotaOK || quotaValue == 0 {
		return Percent{}
	}
	return Percent{value: usageValue / quotaValue, defined: true}
}

// Defined reports whether the ratio exists.
func (p Percent) Defined() bool {
	return p.defined
}

// Value returns the ratio, or zero if undefined.
func (p Percent) Value() float64 {
	return p.value
}

// String implements the fmt.Stringer interface.
func (p Percent) String() string {
	if !p.defined {
		return "-"
	}
	return strconv.FormatFloat(100*p.value, 'f', 1, 64) + "%"
}

func asFloat(value any) (float64, bool) {
	// encoding/json decodes all numbers into float64 when the target type
	// is any
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
