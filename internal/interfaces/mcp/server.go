package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	appQA "github.com/docqa/backend/internal/application/qa"
)

// MCPServer MCP 服务器
// 把问答与检索能力以 MCP 工具的形式暴露给 AI 客户端
type MCPServer struct {
	server      *mcp.Server
	handler     http.Handler
	chatService *appQA.ChatService
	retriever   *appQA.Retriever
}

// NewServer 创建 MCP 服务器
func NewServer(chatService *appQA.ChatService, retriever *appQA.Retriever) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "docqa-backend",
			Version: "0.1.0",
		},
		nil, // 使用默认能力
	)

	mcpServer := &MCPServer{
		server:      server,
		chatService: chatService,
		retriever:   retriever,
	}

	// 注册工具：ask_documents
	mcp.AddTool(server, &mcp.Tool{
		Name: "ask_documents",
		Description: `Ask a question against the documents uploaded to a session.
Parameters:
- session_id (string, required): Session whose documents should be consulted
- question (string, required): Natural language question, max 1000 characters

Returns: The answer grounded in the session's documents. The conversation history of the session is taken into account and updated.`,
	}, mcpServer.askDocumentsTool)

	// 注册工具：search_documents
	mcp.AddTool(server, &mcp.Tool{
		Name: "search_documents",
		Description: `Retrieve the most relevant document fragments for a query without invoking the LLM.
Parameters:
- session_id (string, required): Session whose documents should be searched
- query (string, required): Natural language search query

Returns: Up to 5 text fragments from documents uploaded within the last 7 days, ordered by similarity.`,
	}, mcpServer.searchDocumentsTool)

	// 创建 SSE Handler
	handler := mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			// 每个请求返回同一个服务器实例
			return server
		},
		nil, // SSEOptions，使用默认值
	)

	mcpServer.handler = handler
	return mcpServer
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}
