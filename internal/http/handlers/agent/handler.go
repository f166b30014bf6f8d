package agent

import "github.com/bixmobil/vest/internal/provider"

// Handler serves the agent-facing API.
type Handler struct {
	*provider.Container
}

// New creates the agent handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
