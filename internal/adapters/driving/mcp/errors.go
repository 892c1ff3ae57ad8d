// Package mcp provides an MCP (Model Context Protocol) server adapter for HireSense.
// It lets an interviewer agent pull textbook context from the local index.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
