// Package tui provides an interactive terminal user interface for browsing
// the textbook index. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Retrieval searches and samples the index.
	Retrieval driving.RetrievalService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(retrieval driving.RetrievalService) *Ports {
	return &Ports{Retrieval: retrieval}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
