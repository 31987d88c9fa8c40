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

package util

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sapcc/go-bits/logg"
)

var apiRequestCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "adjutant_client_requests_total",
		Help: "Number of HTTP requests issued against the Adjutant API, by method and response status.",
	},
	[]string{"method", "status"},
)

func init() {
	prometheus.MustRegister(apiRequestCounter)
}

// WrapTransport instruments an http.RoundTripper with request counting and
// with logging for excessively long round trips. Install it on
// http.DefaultTransport (or a ProviderClient's HTTPClient) before issuing
// API calls.
func WrapTransport(inner http.RoundTripper) http.RoundTripper {
	if inner == nil {
		inner = http.DefaultTransport
	}
	return observingRoundTripper{inner}
}

// observingRoundTripper provides visibility into slow Adjutant calls, which
// otherwise just look like a hanging CLI.
type observingRoundTripper struct {
	Inner http.RoundTripper
}

// RoundTrip implements the http.RoundTripper interface.
func (rt observingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := rt.Inner.RoundTrip(req)
	duration := time.Since(start)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	apiRequestCounter.With(prometheus.Labels{
		"method": req.Method,
		"status": status,
	}).Inc()

	if err == nil && duration > 1*time.Minute {
		logg.Info("API call has taken excessively long (%s): %s", duration.String(), req.URL.String())
	}

	return resp, err
}
