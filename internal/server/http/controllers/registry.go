package controllers

import (
	"github.com/go-chi/chi/v5"

	commandsvc "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/services/commands"
)

// ControllerRegistry manages all HTTP controllers.
type ControllerRegistry struct {
	general  *GeneralController
	commands *CommandsController
}

// Options configures the controllers.
type Options struct {
	// ActiveConns reports open protocol connections for /v1/stats.
	ActiveConns func() int
	// MaxBody bounds POST /v1/commands bodies.
	MaxBody int64
}

// NewControllerRegistry creates every controller over svc.
func NewControllerRegistry(svc *commandsvc.Service, opts Options) *ControllerRegistry {
	return &ControllerRegistry{
		general:  NewGeneralController(svc, opts.ActiveConns),
		commands: NewCommandsController(svc, opts.MaxBody),
	}
}

// RegisterAllRoutes registers all controller routes on r.
func (r *ControllerRegistry) RegisterAllRoutes(router chi.Router) {
	r.general.RegisterRoutes(router)
	r.commands.RegisterRoutes(router)
}
