// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package leadsnake

import (
	"bytes"
	"io"
	"net/http"
	"regexp"
	"sync"
)

// MockResponse represents a mock HTTP response
type MockResponse struct {
	// StatusCode is the HTTP status code to return (default: 200)
	StatusCode int
	// Body is the response body content
	Body string
	// Headers are the HTTP headers to include in the response
	Headers http.Header
	// Error simulates a network error
	Error error
}

type mockPattern struct {
	pattern  *regexp.Regexp
	response *MockResponse
}

// MockTransport implements http.RoundTripper for tests. It serves canned
// pages for registered URLs, answers 404 for everything else and counts the
// requests made for each URL.
type MockTransport struct {
	responses map[string]*MockResponse
	patterns  []mockPattern
	hits      map[string]int
	order     []string
	mutex     sync.Mutex
}

// NewMockTransport creates a new MockTransport instance
func NewMockTransport() *MockTransport {
	return &MockTransport{
		responses: make(map[string]*MockResponse),
		hits:      make(map[string]int),
	}
}

// Client returns an http.Client using this transport.
func (m *MockTransport) Client() *http.Client {
	return &http.Client{Transport: m}
}

// RegisterResponse registers a mock response for an exact URL match
func (m *MockTransport) RegisterResponse(url string, response *MockResponse) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if response.StatusCode == 0 {
		response.StatusCode = http.StatusOK
	}
	if response.Headers == nil {
		response.Headers = make(http.Header)
	}
	m.responses[url] = response
}

// RegisterHTML registers an HTML page served with status 200
func (m *MockTransport) RegisterHTML(url, html string) {
	headers := make(http.Header)
	headers.Set("Content-Type", "text/html; charset=utf-8")
	m.RegisterResponse(url, &MockResponse{Body: html, Headers: headers})
}

// RegisterStatus registers an empty response with the given status code
func (m *MockTransport) RegisterStatus(url string, status int) {
	m.RegisterResponse(url, &MockResponse{StatusCode: status})
}

// RegisterError registers a transport failure for a URL
func (m *MockTransport) RegisterError(url string, err error) {
	m.RegisterResponse(url, &MockResponse{Error: err})
}

// RegisterPattern registers a mock response for URLs matching a regex pattern
func (m *MockTransport) RegisterPattern(pattern string, response *MockResponse) error {
	regex, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if response.StatusCode == 0 {
		response.StatusCode = http.StatusOK
	}
	if response.Headers == nil {
		response.Headers = make(http.Header)
	}
	m.patterns = append(m.patterns, mockPattern{pattern: regex, response: response})
	return nil
}

// Hits returns how many requests were made for url
func (m *MockTransport) Hits(url string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.hits[url]
}

// Requested returns every requested URL in request order
func (m *MockTransport) Requested() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]string(nil), m.order...)
}

// RoundTrip implements the http.RoundTripper interface
func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	url := req.URL.String()

	m.mutex.Lock()
	m.hits[url]++
	m.order = append(m.order, url)
	mockResp, found := m.responses[url]
	if !found {
		for _, p := range m.patterns {
			if p.pattern.MatchString(url) {
				mockResp = p.response
				found = true
				break
			}
		}
	}
	m.mutex.Unlock()

	if !found {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(bytes.NewBufferString("Not Found")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	}
	if mockResp.Error != nil {
		return nil, mockResp.Error
	}

	header := make(http.Header)
	for key, values := range mockResp.Headers {
		header[key] = append([]string{}, values...)
	}
	return &http.Response{
		StatusCode:    mockResp.StatusCode,
		Body:          io.NopCloser(bytes.NewBufferString(mockResp.Body)),
		Header:        header,
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		ContentLength: int64(len(mockResp.Body)),
	}, nil
}
