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

// Package test contains a mock Adjutant server for use in package tests.
package test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gophercloud/gophercloud"
	"github.com/gorilla/mux"
)

// Request records one request that the mock server received.
type Request struct {
	Method string
	// Path includes the query string, if any.
	Path string
	Body string
}

// Server is a mock Adjutant API that records all requests it receives, so
// that tests can assert on request ordering (e.g. role removals being issued
// before role additions).
type Server struct {
	http *httptest.Server
	mux  *mux.Router
	// Requests lists all received requests in order.
	Requests []Request
}

// NewServer builds a Server. The caller must Close() it.
func NewServer() *Server {
	router := mux.NewRouter()
	s := &Server{mux: router}
	s.http = httptest.NewServer(s.record(router))
	return s
}

// Handle registers a canned response for the given method and path pattern.
// An empty responseBody sends no body at all.
func (s *Server) Handle(method, path string, status int, responseBody string) {
	s.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if responseBody != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		if responseBody != "" {
			fmt.Fprint(w, responseBody)
		}
	}).Methods(method)
}

// HandleFunc registers a custom handler for the given method and path
// pattern, for tests that need per-call behavior (e.g. different responses
// for consecutive calls to the same path).
func (s *Server) HandleFunc(method, path string, handler http.HandlerFunc) {
	s.mux.HandleFunc(path, handler).Methods(method)
}

// Client returns a ServiceClient that talks to this server with a dummy auth
// token.
func (s *Server) Client() *gophercloud.ServiceClient {
	provider := &gophercloud.ProviderClient{TokenID: "dummy-token"}
	return &gophercloud.ServiceClient{
		ProviderClient: provider,
		Endpoint:       s.http.URL + "/",
		Type:           "registration",
	}
}

// UnauthenticatedClient returns a ServiceClient that talks to this server
// without an auth token.
func (s *Server) UnauthenticatedClient() *gophercloud.ServiceClient {
	return &gophercloud.ServiceClient{
		ProviderClient: &gophercloud.ProviderClient{},
		Endpoint:       s.http.URL + "/",
		Type:           "registration",
	}
}

// Close shuts the server down.
func (s *Server) Close() {
	s.http.Close()
}

// CountRequests returns how many recorded requests match the given method
// and path prefix.
func (s *Server) CountRequests(method, pathPrefix string) int {
	count := 0
	for _, req := range s.Requests {
		if req.Method == method && strings.HasPrefix(req.Path, pathPrefix) {
			count++
		}
	}
	return count
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(bodyBytes)))

		path := r.URL.Path
		if r.URL.RawQuery != "" {
			path += "?" + r.URL.RawQuery
		}
		s.Requests = append(s.Requests, Request{
			Method: r.Method,
			Path:   path,
			Body:   strings.TrimSpace(string(bodyBytes)),
		})
		next.ServeHTTP(w, r)
	})
}
