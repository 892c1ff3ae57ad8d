package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for HireSense resources.
	uriScheme = "hiresense://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource describing the loaded index.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "index",
		Name:        "index",
		Description: "Manifest of the loaded textbook index",
		MIMEType:    "application/json",
	}, s.handleIndexResource)

	if s.ports.Interview != nil {
		// Template for topic context.
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "topics/{topic}",
			Name:        "topic-context",
			Description: "Textbook context and its sources for interview questions on a topic",
			MIMEType:    "application/json",
		}, s.handleTopicResource)
	}
}

// handleIndexResource returns the manifest of the loaded index.
func (s *Server) handleIndexResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	manifest, err := s.ports.Retrieval.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling manifest: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleTopicResource returns the question context for a topic as JSON,
// with the sources the passages came from.
func (s *Server) handleTopicResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract topic from URI: hiresense://topics/{topic}
	topic := extractTopic(req.Params.URI)
	if topic == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	ic, err := s.ports.Interview.QuestionContext(ctx, topic, false)
	if err != nil {
		return nil, fmt.Errorf("building context: %w", err)
	}

	data, err := json.MarshalIndent(contextOutput(ic), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling context: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractTopic extracts the unescaped topic from a URI like hiresense://topics/{topic}.
func extractTopic(uri string) string {
	const prefix = uriScheme + "topics/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	topic, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(topic)
}
