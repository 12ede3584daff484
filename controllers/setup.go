package controllers

import (
	"github.com/HungNM1486/be-iot-farm-ptit/services"
	"github.com/HungNM1486/be-iot-farm-ptit/ws"
)

// Shared collaborators, set once in main before the router starts.
var (
	hub      *ws.Hub
	gateway  *services.Gateway
	pipeline *services.DiseasePipeline
)

// Setup hands the controllers their collaborators.
func Setup(h *ws.Hub, g *services.Gateway, p *services.DiseasePipeline) {
	hub = h
	gateway = g
	pipeline = p
}
