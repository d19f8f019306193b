// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// This file includes modifications to code originally developed by Adam Tauber,
// licensed under the Apache License, Version 2.0.
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
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"
)

// rawResponse is what the backend hands back to the fetcher before
// decoding and caching.
type rawResponse struct {
	StatusCode  int
	FinalURL    string
	ContentType string
	Body        []byte
}

type httpBackend struct {
	Client   *http.Client
	Throttle Throttle
	limiter  *rate.Limiter
	sleep    func(time.Duration)
}

func newHTTPBackend(timeout time.Duration, throttle Throttle) *httpBackend {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	h := &httpBackend{
		Client:   &http.Client{Timeout: timeout},
		Throttle: throttle,
		sleep:    time.Sleep,
	}
	h.setThrottle(throttle)
	return h
}

func (h *httpBackend) setThrottle(t Throttle) {
	h.Throttle = t
	h.limiter = nil
	if t.RequestsPerSecond > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(t.RequestsPerSecond), 1)
	}
}

// wait blocks on the optional token bucket before a network call.
func (h *httpBackend) wait(ctx context.Context) error {
	if h.limiter == nil {
		return nil
	}
	return h.limiter.Wait(ctx)
}

// pause sleeps Delay plus a random share of RandomDelay. It runs after
// every network call, successful or not.
func (h *httpBackend) pause() {
	randomDelay := time.Duration(0)
	if h.Throttle.RandomDelay > 0 {
		randomDelay = time.Duration(rand.Int63n(int64(h.Throttle.RandomDelay)))
	}
	if d := h.Throttle.Delay + randomDelay; d > 0 {
		h.sleep(d)
	}
}

// Do performs a single GET with the given identity headers. Redirects are
// followed by the client; FinalURL records where they ended.
func (h *httpBackend) Do(ctx context.Context, rawURL string, id Identity, bodySize int) (*rawResponse, error) {
	if err := h.wait(ctx); err != nil {
		return nil, err
	}
	defer h.pause()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	if id.UserAgent != "" {
		req.Header.Set("User-Agent", id.UserAgent)
	}
	if id.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", id.AcceptLanguage)
	}

	res, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	finalURL := rawURL
	if res.Request != nil && res.Request.URL != nil {
		finalURL = res.Request.URL.String()
	}

	var bodyReader io.Reader = res.Body
	if !res.Uncompressed {
		decoded, closer, err := decodeContent(res.Body, res.Header.Get("Content-Encoding"))
		if err != nil {
			return nil, err
		}
		if closer != nil {
			defer closer.Close()
		}
		bodyReader = decoded
	}
	if bodySize > 0 {
		bodyReader = io.LimitReader(bodyReader, int64(bodySize))
	}
	body, err := io.ReadAll(bodyReader)
	if err != nil {
		return nil, err
	}
	return &rawResponse{
		StatusCode:  res.StatusCode,
		FinalURL:    finalURL,
		ContentType: res.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// decodeContent unwraps a gzip, deflate or brotli response body. Unknown
// encodings are passed through.
func decodeContent(body io.Reader, contentEncoding string) (io.Reader, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(contentEncoding)) {
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip decode: %w", err)
		}
		return gz, gz, nil
	case "br":
		return brotli.NewReader(body), nil, nil
	case "deflate":
		fl := flate.NewReader(body)
		return fl, fl, nil
	}
	return body, nil, nil
}
