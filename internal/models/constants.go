// Package models contains data types and constants for the Gemini API client.
package models

// Endpoints for the Gemini API
const (
	EndpointBase = "https://generativelanguage.googleapis.com"
	APIVersion   = "v1beta"
)

// Model represents an available Gemini model
type Model struct {
	Name        string
	DisplayName string
}

// Available models
var (
	Model25Flash = Model{
		Name:        "gemini-2.5-flash",
		DisplayName: "Gemini 2.5 Flash",
	}

	Model25FlashLite = Model{
		Name:        "gemini-2.5-flash-lite",
		DisplayName: "Gemini 2.5 Flash-Lite",
	}

	Model25Pro = Model{
		Name:        "gemini-2.5-pro",
		DisplayName: "Gemini 2.5 Pro",
	}

	// DefaultModel is the model the assistant was tuned against
	DefaultModel = Model25Flash
)

// AllModels returns a list of all known models
func AllModels() []Model {
	return []Model{Model25Flash, Model25FlashLite, Model25Pro}
}

// ModelFromName returns a Model by its name. Unknown names are passed
// through unchanged so newer models work without a release.
func ModelFromName(name string) Model {
	for _, m := range AllModels() {
		if m.Name == name {
			return m
		}
	}
	if name == "" {
		return DefaultModel
	}
	return Model{Name: name, DisplayName: name}
}

// ModelPath returns the REST resource path for a model
func (m Model) ModelPath() string {
	return APIVersion + "/models/" + m.Name
}

// DefaultHeaders returns the default headers for Gemini API requests
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "text/event-stream, application/json",
		"User-Agent":   "healthchat/0.1",
	}
}
