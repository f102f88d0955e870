// Package gatewaytest provides a scripted gateway.Provider for tests.
package gatewaytest

import (
	"context"
	"sync"

	"github.com/Kairi/gemini/internal/gateway"
)

// Reply is one scripted provider answer
type Reply struct {
	Text string
	Err  error
}

// Provider answers from a script and records every request. When the
// script runs out it keeps returning Default.
type Provider struct {
	mu       sync.Mutex
	script   []Reply
	Default  Reply
	requests []gateway.Request
}

// New returns a provider that replies with the given answers in order.
func New(replies ...Reply) *Provider {
	return &Provider{script: replies, Default: Reply{Text: "ok"}}
}

// Generate implements gateway.Provider.
func (p *Provider) Generate(_ context.Context, req gateway.Request) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	reply := p.Default
	if len(p.script) > 0 {
		reply = p.script[0]
		p.script = p.script[1:]
	}
	return reply.Text, reply.Err
}

// Requests returns the requests seen so far.
func (p *Provider) Requests() []gateway.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]gateway.Request(nil), p.requests...)
}

// Calls returns how many times Generate was called.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}
