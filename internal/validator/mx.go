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

package validator

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
)

// MXChecker asks a DNS server whether an email domain can receive mail.
// Answers are cached per domain for the checker's lifetime.
type MXChecker struct {
	client *dns.Client
	server string

	mu    sync.Mutex
	cache map[string]bool
}

// NewMXChecker queries server ("host:port"). An empty server means the
// first nameserver of /etc/resolv.conf.
func NewMXChecker(server string) (*MXChecker, error) {
	if server == "" {
		conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil {
			return nil, fmt.Errorf("read resolver config: %w", err)
		}
		if len(conf.Servers) == 0 {
			return nil, fmt.Errorf("no nameserver configured")
		}
		server = net.JoinHostPort(conf.Servers[0], conf.Port)
	}
	return &MXChecker{
		client: &dns.Client{Timeout: 3 * time.Second},
		server: server,
		cache:  make(map[string]bool),
	}, nil
}

// Accepts reports whether domain publishes an MX record, or, lacking one,
// an A record (the implicit MX of RFC 5321). A nonexistent domain is
// rejected. Transport failures are returned as errors and not cached.
func (m *MXChecker) Accepts(ctx context.Context, domain string) (bool, error) {
	domain = strings.ToLower(strings.TrimSuffix(domain, "."))
	m.mu.Lock()
	ok, hit := m.cache[domain]
	m.mu.Unlock()
	if hit {
		return ok, nil
	}

	ok, err := m.lookup(ctx, domain, dns.TypeMX)
	if err == nil && !ok {
		ok, err = m.lookup(ctx, domain, dns.TypeA)
	}
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	m.cache[domain] = ok
	m.mu.Unlock()
	return ok, nil
}

func (m *MXChecker) lookup(ctx context.Context, domain string, qtype uint16) (bool, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), qtype)
	msg.RecursionDesired = true

	in, _, err := m.client.ExchangeContext(ctx, msg, m.server)
	if err != nil {
		return false, err
	}
	switch in.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return false, nil
	default:
		return false, fmt.Errorf("dns %s lookup for %s: %s", dns.TypeToString[qtype], domain, dns.RcodeToString[in.Rcode])
	}
	for _, rr := range in.Answer {
		if rr.Header().Rrtype == qtype {
			return true, nil
		}
	}
	return false, nil
}
