package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for FocusCoach resources.
	uriScheme = "focuscoach://"

	// historyLimit caps the evaluations listed by the history resource.
	historyLimit = 20

	timeLayout = time.RFC3339
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "session",
		Name:        "session",
		Description: "The current focus session",
		MIMEType:    "application/json",
	}, s.handleSessionResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recently scored pages and videos",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

func (s *Server) handleSessionResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, sessionOutput(s.ports.Session.Snapshot()))
}

// historyEntry is one evaluation in the history resource.
type historyEntry struct {
	Kind           string `json:"kind"`
	Title          string `json:"title,omitempty"`
	URL            string `json:"url,omitempty"`
	Goal           string `json:"goal"`
	Relevance      int    `json:"relevance"`
	Recommendation string `json:"recommendation"`
	At             string `json:"at"`
}

func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	entries := []historyEntry{}
	if s.ports.History != nil {
		evals, err := s.ports.History.Evaluations(ctx, historyLimit)
		if err != nil {
			return nil, fmt.Errorf("listing evaluations: %w", err)
		}
		for i := range evals {
			entries = append(entries, historyEntry{
				Kind:           evals[i].Kind.String(),
				Title:          evals[i].Title,
				URL:            evals[i].URL,
				Goal:           evals[i].Goal,
				Relevance:      evals[i].Result.Relevance,
				Recommendation: evals[i].Result.Recommendation.String(),
				At:             evals[i].CreatedAt.Format(timeLayout),
			})
		}
	}
	return jsonResource(req.Params.URI, entries)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
