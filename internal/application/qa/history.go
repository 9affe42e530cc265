package qa

import (
	"hash/fnv"
	"sync"

	domainQA "github.com/docqa/backend/internal/domain/qa"
)

// shardCount 分片数，降低不同会话间的锁竞争
const shardCount = 64

// historyShard 单个分片的数据与数据锁
type historyShard struct {
	mu    sync.RWMutex
	turns map[string][]domainQA.ConversationTurn
}

// HistoryStore 进程内会话历史存储
// 每会话最多保留 MaxHistoryTurns 轮，超出后从最旧一端淘汰
// 另带一张分片锁表用于聊天管线的会话级串行化
type HistoryStore struct {
	shards       [shardCount]*historyShard
	sessionLocks [shardCount]sync.Mutex
}

// NewHistoryStore 创建历史存储
func NewHistoryStore() *HistoryStore {
	s := &HistoryStore{}
	for i := range s.shards {
		s.shards[i] = &historyShard{
			turns: make(map[string][]domainQA.ConversationTurn),
		}
	}
	return s
}

// shardIndex 计算会话的分片下标
func shardIndex(sessionID string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return h.Sum32() % shardCount
}

// LockSession 获取会话级串行锁
// 聊天管线在读历史、检索、补全、写历史的全程持有此锁
// 哈希到同一分片的会话共享一把锁，属于可接受的串行化放大
func (s *HistoryStore) LockSession(sessionID string) {
	s.sessionLocks[shardIndex(sessionID)].Lock()
}

// UnlockSession 释放会话级串行锁
func (s *HistoryStore) UnlockSession(sessionID string) {
	s.sessionLocks[shardIndex(sessionID)].Unlock()
}

// Append 追加一轮对话
// 问题与回答分别截断至 MaxQuestionChars / MaxAnswerChars
func (s *HistoryStore) Append(sessionID, question, answer string) {
	turn := domainQA.ConversationTurn{
		Question: truncateRunes(question, domainQA.MaxQuestionChars),
		Answer:   truncateRunes(answer, domainQA.MaxAnswerChars),
	}

	shard := s.shards[shardIndex(sessionID)]
	shard.mu.Lock()
	defer shard.mu.Unlock()

	turns := append(shard.turns[sessionID], turn)
	if len(turns) > domainQA.MaxHistoryTurns {
		turns = turns[len(turns)-domainQA.MaxHistoryTurns:]
	}
	shard.turns[sessionID] = turns
}

// Read 读取会话历史（按时间先后排序的副本）
func (s *HistoryStore) Read(sessionID string) []domainQA.ConversationTurn {
	shard := s.shards[shardIndex(sessionID)]
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	turns := shard.turns[sessionID]
	if len(turns) == 0 {
		return nil
	}

	out := make([]domainQA.ConversationTurn, len(turns))
	copy(out, turns)
	return out
}

// Clear 清空会话历史
func (s *HistoryStore) Clear(sessionID string) {
	shard := s.shards[shardIndex(sessionID)]
	shard.mu.Lock()
	defer shard.mu.Unlock()

	delete(shard.turns, sessionID)
}

// truncateRunes 按字符数截断
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
