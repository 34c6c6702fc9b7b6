package handlers

import (
	"net/http"

	"kidsmoney/internal/content"
	"kidsmoney/internal/progression"
)

// ConfigHandler serves static reference data for clients
type ConfigHandler struct {
	catalog *content.Catalog
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(catalog *content.Catalog) *ConfigHandler {
	return &ConfigHandler{catalog: catalog}
}

// Levels returns the XP level table
func (h *ConfigHandler) Levels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, progression.Levels())
}

// Avatars returns the selectable kid avatars
func (h *ConfigHandler) Avatars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Avatars())
}
