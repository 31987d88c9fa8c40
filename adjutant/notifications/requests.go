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

// Package notifications implements the notification operations of the
// Adjutant API.
package notifications

import (
	"net/url"
	"strconv"

	"github.com/gophercloud/gophercloud"

	"github.com/sapcc/go-adjutant/adjutant"
)

// Canned filter sets matching the notification list tabs of the admin
// dashboard.
var (
	UnacknowledgedFilter = adjutant.Filters{
		"acknowledged": {"exact": false},
	}
	AcknowledgedFilter = adjutant.Filters{
		"acknowledged": {"exact": true},
	}
)

// ListOpts describes one page of a filtered notification listing.
type ListOpts struct {
	Filters adjutant.Filters
	// Page is 1-based; zero counts as page 1.
	Page int
	// PerPage is supplied by the caller's display-size policy; zero leaves
	// the page size to the server default.
	PerPage int
}

// ToNotificationListQuery formats the opts into the query string expected by
// GET /notifications.
func (opts ListOpts) ToNotificationListQuery() (string, error) {
	q := url.Values{}
	filters, err := opts.Filters.Encode()
	if err != nil {
		return "", err
	}
	if filters != "" {
		q.Set("filters", filters)
	}
	q.Set("page", strconv.Itoa(opts.pageNumber()))
	if opts.PerPage > 0 {
		q.Set("notifications_per_page", strconv.Itoa(opts.PerPage))
	}
	return "?" + q.Encode(), nil
}

func (opts ListOpts) pageNumber() int {
	if opts.Page < 1 {
		return 1
	}
	return opts.Page
}

// List fetches one page of notifications, in server order.
func List(c *gophercloud.ServiceClient, opts ListOpts) (Page, error) {
	query, err := opts.ToNotificationListQuery()
	if err != nil {
		return Page{}, err
	}

	var data struct {
		Notifications []rawNotification `json:"notifications"`
		HasPrev       bool              `json:"has_prev"`
		HasMore       bool              `json:"has_more"`
	}
	_, err = c.Get(c.ServiceURL("notifications")+query, &data, nil)
	if err != nil {
		return Page{}, adjutant.ClassifyResponseError(err)
	}

	page := Page{
		Notifications: make([]Notification, 0, len(data.Notifications)),
		HasPrev:       data.HasPrev,
		HasMore:       data.HasMore,
		Number:        opts.pageNumber(),
	}
	for _, raw := range data.Notifications {
		n, err := raw.toNotification()
		if err != nil {
			return Page{}, err
		}
		page.Notifications = append(page.Notifications, n)
	}
	return page, nil
}

// ListWithFallback behaves like List, except that, when the server reports
// the empty-page condition for the requested page, the call is reissued for
// page 1 exactly once. Any error from that retry propagates without a second
// fallback attempt.
func ListWithFallback(c *gophercloud.ServiceClient, opts ListOpts) (Page, error) {
	page, err := List(c, opts)
	if err == nil || !adjutant.IsEmptyPage(err) {
		return page, err
	}
	opts.Page = 1
	return List(c, opts)
}

// Get fetches a single notification by ID.
func Get(c *gophercloud.ServiceClient, notificationID string) (Notification, error) {
	var raw rawNotification
	_, err := c.Get(c.ServiceURL("notifications", notificationID)+"/", &raw, nil)
	if err != nil {
		return Notification{}, adjutant.ClassifyResponseError(err)
	}
	return raw.toNotification()
}

// Acknowledge marks a single notification as acknowledged.
func Acknowledge(c *gophercloud.ServiceClient, notificationID string) error {
	_, err := c.Post(c.ServiceURL("notifications", notificationID)+"/", map[string]any{"acknowledged": true}, nil, &gophercloud.RequestOpts{
		OkCodes: []int{200, 202},
	})
	return adjutant.ClassifyResponseError(err)
}

// AcknowledgeMany marks several notifications as acknowledged in one call to
// the collection path.
func AcknowledgeMany(c *gophercloud.ServiceClient, notificationIDs []string) error {
	if len(notificationIDs) == 0 {
		return adjutant.ValidationError{Message: "no notification IDs given"}
	}
	_, err := c.Post(c.ServiceURL("notifications"), map[string]any{"notifications": notificationIDs}, nil, &gophercloud.RequestOpts{
		OkCodes: []int{200, 202},
	})
	return adjutant.ClassifyResponseError(err)
}
