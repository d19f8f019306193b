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
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Renderer produces the HTML of a page after its scripts have run. The
// returned status is that of the main document (0 if unknown).
type Renderer interface {
	Render(ctx context.Context, url string) (html string, status int, err error)
}

// RenderingConfig holds the waits used while a page settles.
type RenderingConfig struct {
	InitialWaitMs int
	ScrollWaitMs  int
	FinalWaitMs   int
}

// ChromeRenderer renders pages in headless Chrome. Each ChromeRenderer owns
// one browser allocator; call Close when the session ends.
type ChromeRenderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
	config      RenderingConfig
}

// NewChromeRenderer starts a browser allocator. A zero timeout means 30s.
func NewChromeRenderer(timeout time.Duration) *ChromeRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	r := &ChromeRenderer{
		timeout: timeout,
		config: RenderingConfig{
			InitialWaitMs: 1500,
			ScrollWaitMs:  1000,
			FinalWaitMs:   500,
		},
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

// Close cleans up the renderer resources
func (r *ChromeRenderer) Close() {
	if r.allocCancel != nil {
		r.allocCancel()
	}
}

// Render implements Renderer.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, int, error) {
	tabCtx, cancel := chromedp.NewContext(r.allocCtx)
	defer cancel()
	tabCtx, cancel = context.WithTimeout(tabCtx, r.timeout)
	defer cancel()

	// Stop the tab when the caller gives up.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var (
		htmlContent string
		status      int
		mu          sync.Mutex
	)
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if ev, ok := ev.(*network.EventResponseReceived); ok && ev.Type == network.ResourceTypeDocument {
			mu.Lock()
			if status == 0 {
				status = int(ev.Response.Status)
			}
			mu.Unlock()
		}
	})

	err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(time.Duration(r.config.InitialWaitMs)*time.Millisecond),
		// lazy footers often hold the contact links
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(time.Duration(r.config.ScrollWaitMs)*time.Millisecond),
		chromedp.Sleep(time.Duration(r.config.FinalWaitMs)*time.Millisecond),
		chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", 0, fmt.Errorf("chromedp rendering failed: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	return htmlContent, status, nil
}
