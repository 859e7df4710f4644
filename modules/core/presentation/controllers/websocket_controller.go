package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/simple-lms/console/pkg/application"
)

// WebSocketController exposes the live change feed.
type WebSocketController struct {
	app  application.Application
	path string
}

func NewWebSocketController(app application.Application) application.Controller {
	return &WebSocketController{app: app, path: "/ws"}
}

func (c *WebSocketController) Key() string {
	return c.path
}

func (c *WebSocketController) Register(r *mux.Router) {
	hub := c.app.Hub()
	if hub == nil {
		return
	}
	r.Handle(c.path, hub).Methods(http.MethodGet)
}
