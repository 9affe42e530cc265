package singleton

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"
)

// HealthCheckTimeout 健康检查超时时间
const HealthCheckTimeout = 2 * time.Second

// CheckAndLock 通过抢占监听端口实现单实例锁
// 端口可用时返回 listener（由 HTTP 服务复用）
// 已有健康实例在运行时返回 (nil, nil)，调用者应直接退出
// 端口被占用但健康检查失败时返回错误
func CheckAndLock(port string) (net.Listener, error) {
	listener, err := net.Listen("tcp", port)
	if err == nil {
		return listener, nil
	}

	if !isAddrInUse(err) {
		return nil, fmt.Errorf("监听端口失败: %w", err)
	}

	if isInstanceRunning(port) {
		return nil, nil
	}

	return nil, fmt.Errorf("端口 %s 被占用，但健康检查失败，请检查残留进程", port)
}

// isAddrInUse 检查错误是否为地址已被占用
func isAddrInUse(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}

	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}

	var sysErr *os.SyscallError
	if !errors.As(opErr.Err, &sysErr) {
		return false
	}

	// Windows 下错误码为 WSAEADDRINUSE (10048)
	var errno syscall.Errno
	if errors.As(sysErr.Err, &errno) {
		return errno == 10048 || errno == syscall.EADDRINUSE
	}

	return false
}

// isInstanceRunning 对占用端口的进程做健康检查
func isInstanceRunning(port string) bool {
	client := &http.Client{
		Timeout: HealthCheckTimeout,
	}

	url := fmt.Sprintf("http://localhost%s/health", port)
	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
