package qa

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// 在包初始化时设置离线加载器，避免运行时联网下载编码文件
func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// TokenCounter 基于 tiktoken 的 Token 计数器
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
}

var (
	tokenCounterInstance *TokenCounter
	tokenCounterOnce     sync.Once
	tokenCounterErr      error
)

// GetTokenCounter 获取 TokenCounter 单例
// 编码文件加载较重，进程内只加载一次
func GetTokenCounter() (*TokenCounter, error) {
	tokenCounterOnce.Do(func() {
		// cl100k_base 编码，兼容主流对话模型
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			tokenCounterErr = err
			return
		}
		tokenCounterInstance = &TokenCounter{encoding: enc}
	})

	if tokenCounterErr != nil {
		return nil, tokenCounterErr
	}
	return tokenCounterInstance, nil
}

// CountTokens 计算文本的 Token 数量
func (c *TokenCounter) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(c.encoding.Encode(text, nil, nil))
}
