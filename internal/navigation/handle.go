// Package navigation holds the process-wide handle to the live navigation tree.
package navigation

import (
	"log"
	"sync"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

// Controller is the live navigation tree. It exists only while the UI is mounted.
type Controller interface {
	Navigate(screen model.Screen, params model.Params)
	// Reset replaces the whole back-stack.
	Reset(routes []model.Route)
}

// Handle is an indirection to a Controller that may not exist yet.
// Calls made while no controller is attached are dropped, never queued.
type Handle struct {
	mu         sync.RWMutex
	controller Controller
}

// NewHandle returns a handle with nothing attached.
func NewHandle() *Handle {
	return &Handle{}
}

// Attach binds the live tree. A later Attach replaces the earlier one.
func (h *Handle) Attach(c Controller) {
	h.mu.Lock()
	h.controller = c
	h.mu.Unlock()
	log.Printf("[Navigation] Controller attached")
}

// Detach unbinds the tree, e.g. on unmount.
func (h *Handle) Detach() {
	h.mu.Lock()
	h.controller = nil
	h.mu.Unlock()
	log.Printf("[Navigation] Controller detached")
}

// IsReady reports whether a controller is attached.
func (h *Handle) IsReady() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.controller != nil
}

// Navigate pushes screen when ready and reports whether it did.
func (h *Handle) Navigate(screen model.Screen, params model.Params) bool {
	c := h.current()
	if c == nil {
		log.Printf("[Navigation] Navigate(%s) dropped: not ready", screen)
		return false
	}
	c.Navigate(screen, params)
	return true
}

// Reset replaces the back-stack when ready and reports whether it did.
func (h *Handle) Reset(routes []model.Route) bool {
	c := h.current()
	if c == nil {
		log.Printf("[Navigation] Reset dropped: not ready")
		return false
	}
	c.Reset(routes)
	return true
}

func (h *Handle) current() Controller {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.controller
}

// InitialRoute picks the home stack's first screen for a session.
func InitialRoute(s model.Session) model.Screen {
	if s.Authenticated() {
		return model.ScreenProperties
	}
	return model.ScreenLogin
}
