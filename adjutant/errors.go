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
	"errors"
	"fmt"
	"strings"

	"github.com/gophercloud/gophercloud"
)

// ClientError is returned when Adjutant rejects a request with a 4xx status.
// The response body is preserved because it often carries a machine-usable
// detail (e.g. the empty-page condition, or field validation messages) that
// callers pattern-match on.
type ClientError struct {
	Status int
	Body   string
}

// Error implements the builtin/error interface.
func (e ClientError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("request rejected with status %d", e.Status)
	}
	return fmt.Sprintf("request rejected with status %d: %s", e.Status, body)
}

// ServerError is returned when Adjutant fails a request with a 5xx status.
type ServerError struct {
	Status int
}

// Error implements the builtin/error interface.
func (e ServerError) Error() string {
	return fmt.Sprintf("server failed with status %d", e.Status)
}

// MappingError is returned when a response body is present, but does not
// contain a field that is required for the requested resource type. Optional
// display fields degrade to placeholders instead; required fields never do.
type MappingError struct {
	Resource string
	Field    string
}

// Error implements the builtin/error interface.
func (e MappingError) Error() string {
	return fmt.Sprintf("cannot map %s record: missing required field %q", e.Resource, e.Field)
}

// ValidationError is returned for locally detected bad input (e.g. a task
// update payload that is not valid JSON). It is always raised before any
// request goes out on the wire.
type ValidationError struct {
	Message string
}

// Error implements the builtin/error interface.
func (e ValidationError) Error() string {
	return "invalid input: " + e.Message
}

// ClassifyResponseError converts gophercloud's unexpected-response-code
// errors into ClientError or ServerError depending on the status class.
// Everything else (connection failures, timeouts, cancelled contexts) passes
// through unchanged and counts as a transport error.
func ClassifyResponseError(err error) error {
	if err == nil {
		return nil
	}
	status, body, ok := unpackResponseError(err)
	if !ok {
		return err
	}
	switch {
	case status >= 500:
		return ServerError{Status: status}
	case status >= 400:
		return ClientError{Status: status, Body: string(body)}
	}
	return err
}

func unpackResponseError(err error) (status int, body []byte, ok bool) {
	// gophercloud wraps each common status code in its own type, all of them
	// embedding ErrUnexpectedResponseCode
	switch e := err.(type) {
	case gophercloud.ErrDefault400:
		return e.Actual, e.Body, true
	case gophercloud.ErrDefault401:
		return e.Actual, e.Body, true
	case gophercloud.ErrDefault403:
		return e.Actual, e.Body, true
	case gophercloud.ErrDefault404:
		return e.Actual, e.Body, true
	case gophercloud.ErrDefault405:
		return e.Actual, e.Body, true
	case gophercloud.ErrDefault408:
		return e.Actual, e.Body, true
	case gophercloud.ErrDefault409:
		return e.Actual, e.Body, true
	case gophercloud.ErrDefault429:
		return e.Actual, e.Body, true
	case gophercloud.ErrDefault500:
		return e.Actual, e.Body, true
	case gophercloud.ErrDefault503:
		return e.Actual, e.Body, true
	case gophercloud.ErrUnexpectedResponseCode:
		return e.Actual, e.Body, true
	}
	return 0, nil, false
}

// IsEmptyPage reports whether this error is Adjutant's rejection of a list
// request for a page beyond the last one. Callers that paginate use this as
// the trigger for the explicit retry-once-at-page-1 fallback.
func IsEmptyPage(err error) bool {
	var cerr ClientError
	if !errors.As(err, &cerr) {
		return false
	}
	return strings.Contains(strings.ToLower(cerr.Body), "empty page")
}

// IsQuotaConflict reports whether a quota update was rejected because the
// current usage exceeds the requested size. This keeps the over-usage
// rejection distinguishable from other 4xx failures.
func IsQuotaConflict(err error) bool {
	var cerr ClientError
	if !errors.As(err, &cerr) {
		return false
	}
	return cerr.Status == 400 && strings.Contains(strings.ToLower(cerr.Body), "usage")
}

// IsEmailInUse reports whether an email-update request was rejected because
// the new address is already taken. The email-update endpoint signals this
// condition with a plain 400.
func IsEmailInUse(err error) bool {
	var cerr ClientError
	return errors.As(err, &cerr) && cerr.Status == 400
}
