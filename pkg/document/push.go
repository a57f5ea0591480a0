package document

import (
	"sync"
	"time"
)

// Host is the channel to whatever owns the document text: a language-server
// shim, a webview bridge, or a plain file. The handle is injected where the
// editor session is constructed; there is no process-wide singleton.
type Host interface {
	// PushText hands an immutable serialized document to the host.
	PushText(text string)
}

// HostFunc adapts a function to the Host interface.
type HostFunc func(text string)

// PushText implements Host.
func (f HostFunc) PushText(text string) { f(text) }

// DefaultPushDelay is the debounce window for host pushes.
const DefaultPushDelay = 300 * time.Millisecond

// Pusher debounces document pushes to the host: rapid successive edits
// collapse into a single push of the latest text after the delay elapses.
type Pusher struct {
	host  Host
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	dirty   bool
}

// NewPusher creates a pusher around the injected host channel. A zero delay
// uses DefaultPushDelay.
func NewPusher(host Host, delay time.Duration) *Pusher {
	if delay <= 0 {
		delay = DefaultPushDelay
	}
	return &Pusher{host: host, delay: delay}
}

// Push schedules text for delivery, replacing any not-yet-delivered text.
func (p *Pusher) Push(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = text
	p.dirty = true
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.delay, p.fire)
}

// Flush delivers any pending text immediately and cancels the timer.
func (p *Pusher) Flush() {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()
	p.fire()
}

// Stop cancels any pending delivery without pushing.
func (p *Pusher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.dirty = false
}

func (p *Pusher) fire() {
	p.mu.Lock()
	if !p.dirty {
		p.mu.Unlock()
		return
	}
	text := p.pending
	p.dirty = false
	p.mu.Unlock()
	p.host.PushText(text)
}
