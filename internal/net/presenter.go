package net

import (
	"strings"
	"sync"

	"gloamdelve/server/internal/sim"
)

// WirePresenter implements sim.Presenter by broadcasting frames through the
// hub. Combat text is buffered until the engine flushes it, matching the
// engine's batched narration contract.
type WirePresenter struct {
	hub *Hub

	mu     sync.Mutex
	combat []string
}

func NewWirePresenter(hub *Hub) *WirePresenter {
	return &WirePresenter{hub: hub}
}

var _ sim.Presenter = (*WirePresenter)(nil)

func (p *WirePresenter) Message(text string) {
	p.hub.Broadcast("message", map[string]string{"text": text})
}

func (p *WirePresenter) CombatMessage(text string) {
	p.mu.Lock()
	p.combat = append(p.combat, text)
	p.mu.Unlock()
}

func (p *WirePresenter) FlushCombatText() {
	p.mu.Lock()
	buffered := p.combat
	p.combat = nil
	p.mu.Unlock()
	if len(buffered) == 0 {
		return
	}
	p.hub.Broadcast("combat", map[string]string{"text": strings.Join(buffered, " ")})
}

func (p *WirePresenter) RefreshHUD(snapshot sim.HUDSnapshot) {
	p.hub.Broadcast("hud", snapshot)
}

func (p *WirePresenter) RedrawLevel() {
	p.hub.Broadcast("redraw", nil)
}

func (p *WirePresenter) Flare(flare sim.Flare) {
	p.hub.Broadcast("flare", flare)
}

// Pause is advisory only; remote clients cannot interrupt the engine
// mid-turn, so it always reports no interruption.
func (p *WirePresenter) Pause(ticks int) bool {
	p.hub.Broadcast("pause", map[string]int{"ticks": ticks})
	return false
}
