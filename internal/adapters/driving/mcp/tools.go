package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// AnalyzePageInput is the input schema for the analyze_page tool.
type AnalyzePageInput struct {
	URL    string `json:"url,omitempty" jsonschema:"address of the page to fetch and analyze"`
	Text   string `json:"text,omitempty" jsonschema:"page text, when the caller already has it"`
	Title  string `json:"title,omitempty" jsonschema:"page title"`
	Goal   string `json:"goal,omitempty" jsonschema:"goal to judge against (default: the session goal)"`
	MaxLen int    `json:"max_len,omitempty" jsonschema:"characters of page text sent to the model"`
}

// VerdictOutput is the relevance verdict returned by the scoring tools.
type VerdictOutput struct {
	URL            string `json:"url,omitempty"`
	Title          string `json:"title,omitempty"`
	Relevance      int    `json:"relevance"`
	Recommendation string `json:"recommendation"`
	Summary        string `json:"summary,omitempty"`
	Source         string `json:"source,omitempty"`
}

// ScoreVideoInput is the input schema for the score_video tool.
type ScoreVideoInput struct {
	Title   string `json:"title" jsonschema:"video title"`
	Channel string `json:"channel,omitempty" jsonschema:"channel name"`
	Meta    string `json:"meta,omitempty" jsonschema:"view count and age line"`
	Badges  string `json:"badges,omitempty" jsonschema:"badge labels such as LIVE"`
	Snippet string `json:"snippet,omitempty" jsonschema:"description snippet"`
	URL     string `json:"url,omitempty" jsonschema:"video address"`
	Goal    string `json:"goal,omitempty" jsonschema:"goal to judge against (default: the session goal)"`
}

// FocusStatusInput is the (empty) input schema for the focus_status tool.
type FocusStatusInput struct{}

// SessionOutput describes the focus session.
type SessionOutput struct {
	State     string `json:"state"`
	Goal      string `json:"goal"`
	FocusMode bool   `json:"focus_mode"`
	EndAt     string `json:"end_at,omitempty"`
	Remaining string `json:"remaining,omitempty"`
	Enforcing bool   `json:"enforcing"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_page",
		Description: "Judge whether a web page helps the current focus goal",
	}, s.handleAnalyzePage)

	if s.ports.Videos != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "score_video",
			Description: "Score a video by its title and metadata against the focus goal",
		}, s.handleScoreVideo)
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "focus_status",
		Description: "Report the focus session: goal, state and time remaining",
	}, s.handleFocusStatus)
}

func (s *Server) handleAnalyzePage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzePageInput,
) (*mcp.CallToolResult, VerdictOutput, error) {
	reply := s.ports.Analyzer.Handle(ctx, domain.Message{
		Type:   domain.MessageAnalyze,
		Goal:   input.Goal,
		URL:    input.URL,
		Title:  input.Title,
		Text:   input.Text,
		MaxLen: input.MaxLen,
	})
	if reply.Error != "" {
		return nil, VerdictOutput{}, errors.New(reply.Error)
	}

	return nil, VerdictOutput{
		URL:            reply.URL,
		Title:          reply.Title,
		Relevance:      reply.Relevance,
		Recommendation: reply.Recommendation.String(),
		Summary:        reply.Summary,
	}, nil
}

func (s *Server) handleScoreVideo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScoreVideoInput,
) (*mcp.CallToolResult, VerdictOutput, error) {
	res, err := s.ports.Videos.ScoreVideo(ctx, input.Goal, domain.ContentSample{
		Kind:     domain.ContentKindVideo,
		URL:      input.URL,
		Title:    input.Title,
		Channel:  input.Channel,
		MetaLine: input.Meta,
		Badges:   input.Badges,
		Snippet:  input.Snippet,
	})
	if err != nil {
		return nil, VerdictOutput{}, err
	}

	return nil, VerdictOutput{
		URL:            input.URL,
		Title:          input.Title,
		Relevance:      res.Relevance,
		Recommendation: res.Recommendation.String(),
		Summary:        res.Summary,
		Source:         string(res.Source),
	}, nil
}

func (s *Server) handleFocusStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ FocusStatusInput,
) (*mcp.CallToolResult, SessionOutput, error) {
	return nil, sessionOutput(s.ports.Session.Snapshot()), nil
}

func sessionOutput(v domain.SessionView) SessionOutput {
	out := SessionOutput{
		State:     string(v.State),
		Goal:      v.Goal,
		FocusMode: v.FocusMode,
		Remaining: v.Display(),
		Enforcing: v.Enforcing(),
	}
	if v.EndAt != nil {
		out.EndAt = v.EndAt.Format(timeLayout)
	}
	return out
}
