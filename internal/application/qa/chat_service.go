package qa

import (
	"context"
	"strings"
	"unicode/utf8"

	"log/slog"

	domainQA "github.com/docqa/backend/internal/domain/qa"
	"github.com/docqa/backend/internal/infrastructure/log"
)

// ChatService 问答服务
// 单次提问的完整管线：读历史、检索、组装提示词、补全、写历史
type ChatService struct {
	retriever *Retriever
	composer  *Composer
	history   *HistoryStore
	logger    *slog.Logger
}

// NewChatService 创建问答服务
func NewChatService(retriever *Retriever, composer *Composer, history *HistoryStore) *ChatService {
	return &ChatService{
		retriever: retriever,
		composer:  composer,
		history:   history,
		logger:    log.NewModuleLogger("qa", "chat_service"),
	}
}

// Chat 处理一次提问并返回回答
// 同一会话的提问严格串行，历史的读与写之间不会插入其他轮次
func (s *ChatService) Chat(ctx context.Context, sessionID, question string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", domainQA.NewValidationError("session_id is required")
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return "", domainQA.NewValidationError("question is required")
	}
	if utf8.RuneCountInString(question) > domainQA.MaxChatQuestionChars {
		return "", domainQA.NewValidationError("question exceeds %d characters", domainQA.MaxChatQuestionChars)
	}

	// 会话级串行锁覆盖整条管线
	s.history.LockSession(sessionID)
	defer s.history.UnlockSession(sessionID)

	turns := s.history.Read(sessionID)

	chunks, err := s.retriever.Retrieve(ctx, sessionID, question)
	if err != nil {
		return "", err
	}

	answer, err := s.composer.Answer(ctx, question, chunks, turns)
	if err != nil {
		return "", err
	}

	s.history.Append(sessionID, question, answer)

	s.logger.Info("Chat completed",
		"session_id", sessionID,
		"context_chunks", len(chunks),
		"history_turns", len(turns),
	)

	return answer, nil
}

// GetHistory 读取会话历史
func (s *ChatService) GetHistory(sessionID string) ([]domainQA.ConversationTurn, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, domainQA.NewValidationError("session_id is required")
	}
	return s.history.Read(sessionID), nil
}
