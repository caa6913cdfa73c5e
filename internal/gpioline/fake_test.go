package gpioline

import "sync"

// fakePin implements IRQPin with minimal behaviour for tests, adapted from
// services/hal/internal/gpioirq's fakeIRQPin in the pack this module was
// built from.
type fakePin struct {
	mu      sync.Mutex
	level   bool
	handler func()
}

func (p *fakePin) ConfigureInput(Pull) error  { return nil }
func (p *fakePin) ConfigureOutput(init bool) error {
	p.mu.Lock()
	p.level = init
	p.mu.Unlock()
	return nil
}
func (p *fakePin) Set(b bool) {
	p.mu.Lock()
	p.level = b
	p.mu.Unlock()
}
func (p *fakePin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}
func (p *fakePin) SetIRQ(_ Edge, h func()) error {
	p.mu.Lock()
	p.handler = h
	p.mu.Unlock()
	return nil
}
func (p *fakePin) ClearIRQ() error {
	p.mu.Lock()
	p.handler = nil
	p.mu.Unlock()
	return nil
}

// fire sets the level and invokes the registered handler, simulating an
// edge interrupt firing synchronously on the test goroutine.
func (p *fakePin) fire(level bool) {
	p.Set(level)
	p.mu.Lock()
	h := p.handler
	p.mu.Unlock()
	if h != nil {
		h()
	}
}
