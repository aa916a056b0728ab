// Package tui is the interactive terminal front end. It talks to the core
// only through the driving ports collected in Ports.
package tui

import (
	"errors"

	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

var (
	// ErrInvalidPorts is returned for a nil Ports.
	ErrInvalidPorts = errors.New("tui: invalid ports configuration")
	// ErrMissingRetrievalService is returned when Ports has no retrieval service.
	ErrMissingRetrievalService = errors.New("tui: retrieval service is required")
)

// Ports are the services the TUI drives.
type Ports struct {
	// Retrieval runs searches, questions and store statistics.
	Retrieval driving.RetrievalService

	// Document backs the documents screens. Without it they are hidden.
	Document driving.DocumentService
}

// Validate checks the required services are present.
func (p *Ports) Validate() error {
	switch {
	case p == nil:
		return ErrInvalidPorts
	case p.Retrieval == nil:
		return ErrMissingRetrievalService
	}
	return nil
}

// HasDocuments reports whether document browsing is available.
func (p *Ports) HasDocuments() bool {
	return p != nil && p.Document != nil
}
