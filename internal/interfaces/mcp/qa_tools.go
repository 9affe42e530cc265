package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskDocumentsInput 文档问答工具输入
type AskDocumentsInput struct {
	SessionID string `json:"session_id" jsonschema:"Session whose documents should be consulted (required)"`
	Question  string `json:"question" jsonschema:"Natural language question, max 1000 characters (required)"`
}

// AskDocumentsOutput 文档问答工具输出
type AskDocumentsOutput struct {
	Answer string `json:"answer" jsonschema:"Answer grounded in the session's documents"`
}

// askDocumentsTool 文档问答工具实现
func (s *MCPServer) askDocumentsTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AskDocumentsInput,
) (*mcp.CallToolResult, AskDocumentsOutput, error) {
	var output AskDocumentsOutput

	if input.SessionID == "" {
		return nil, output, fmt.Errorf("session_id is required")
	}
	if input.Question == "" {
		return nil, output, fmt.Errorf("question is required")
	}

	answer, err := s.chatService.Chat(ctx, input.SessionID, input.Question)
	if err != nil {
		return nil, output, err
	}

	output.Answer = answer
	return nil, output, nil
}

// SearchDocumentsInput 文档检索工具输入
type SearchDocumentsInput struct {
	SessionID string `json:"session_id" jsonschema:"Session whose documents should be searched (required)"`
	Query     string `json:"query" jsonschema:"Natural language search query (required)"`
}

// SearchDocumentsOutput 文档检索工具输出
type SearchDocumentsOutput struct {
	Fragments  []string `json:"fragments" jsonschema:"Relevant document fragments ordered by similarity"`
	TotalCount int      `json:"total_count" jsonschema:"Number of fragments returned"`
}

// searchDocumentsTool 文档检索工具实现
func (s *MCPServer) searchDocumentsTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SearchDocumentsInput,
) (*mcp.CallToolResult, SearchDocumentsOutput, error) {
	output := SearchDocumentsOutput{
		Fragments: []string{},
	}

	if input.SessionID == "" {
		return nil, output, fmt.Errorf("session_id is required")
	}
	if input.Query == "" {
		return nil, output, fmt.Errorf("query is required")
	}

	fragments, err := s.retriever.Retrieve(ctx, input.SessionID, input.Query)
	if err != nil {
		return nil, output, err
	}

	output.Fragments = fragments
	output.TotalCount = len(fragments)
	return nil, output, nil
}
