package simulation

import (
	"context"
	"sync"
)

// Pauser es una compuerta cooperativa: MonteCarlo la consulta solo entre
// batches, así que un path nunca se interrumpe a mitad.
// El valor cero está listo para usarse (sin pausar).
type Pauser struct {
	mu     sync.Mutex
	paused bool
	resume chan struct{}
}

// Pause bloquea el siguiente límite de batch hasta Resume.
func (p *Pauser) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		return
	}
	p.paused = true
	p.resume = make(chan struct{})
}

// Resume libera a quien esté esperando en Wait.
func (p *Pauser) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused {
		return
	}
	p.paused = false
	close(p.resume)
}

// Paused indica si la compuerta está cerrada.
func (p *Pauser) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Wait retorna inmediatamente si no hay pausa; si la hay, espera a Resume o
// a que el contexto se cancele.
func (p *Pauser) Wait(ctx context.Context) error {
	p.mu.Lock()
	if !p.paused {
		p.mu.Unlock()
		return nil
	}
	ch := p.resume
	p.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
