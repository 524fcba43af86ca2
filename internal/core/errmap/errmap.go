// Package errmap 将平台错误翻译为跨平台错误码
//
// errmap 是唯一查询平台错误号表的地方：传输组件产生的
// 操作系统错误统一经由 Classify 归入 types.ErrorCode 分类，
// 原始错误号保留在 Error.Errno 中用于诊断。
package errmap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"

	"github.com/dep2p/go-socket/pkg/types"
)

// Describe 返回平台错误号的描述文本
//
// 总是成功：未知错误号回退为 "unknown error <n>"。
func Describe(code int) string {
	if msg, ok := errnoText(code); ok {
		return msg
	}
	return fmt.Sprintf("unknown error %d", code)
}

// Errno 提取错误链中的原始平台错误号，无则返回 0
func Errno(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return 0
}

// Classify 将操作系统层错误包装为携带错误码的 *types.Error
//
// 识别不出具体类别时使用 fallback。nil 透传，已经是
// *types.Error 的错误不二次包装。
func Classify(op string, err error, fallback types.ErrorCode) error {
	if err == nil {
		return nil
	}

	var structured *types.Error
	if errors.As(err, &structured) {
		return err
	}

	e := &types.Error{
		Code:  classify(op, err, fallback),
		Errno: Errno(err),
		Op:    op,
		Err:   err,
	}
	return e
}

// classify 判定错误类别
func classify(op string, err error, fallback types.ErrorCode) types.ErrorCode {
	switch {
	case errors.Is(err, syscall.EADDRINUSE):
		return types.CodeAddressInUse
	case errors.Is(err, syscall.ECONNREFUSED):
		return types.CodeConnectRefused
	case errors.Is(err, syscall.ECONNRESET):
		return types.CodeConnectionReset
	case errors.Is(err, syscall.EPIPE):
		return types.CodeBrokenPipe
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return types.CodeNetworkUnreachable
	case errors.Is(err, syscall.EWOULDBLOCK), errors.Is(err, syscall.EAGAIN):
		return types.CodeWouldBlock
	case errors.Is(err, syscall.ETIMEDOUT):
		return timeoutCode(op)
	case errors.Is(err, net.ErrClosed):
		// 句柄被另一 goroutine 关闭，阻塞中的调用以确定错误被唤醒
		return types.CodeInvalidState
	case errors.Is(err, context.DeadlineExceeded):
		return timeoutCode(op)
	case isTimeout(err):
		return timeoutCode(op)
	case errors.Is(err, io.EOF):
		// 调用方负责把有序关闭表示为 0 字节读取，走到这里按 fallback 处理
		return fallback
	default:
		return fallback
	}
}

// timeoutCode 连接建立阶段的超时单列为 ConnectTimeout
func timeoutCode(op string) types.ErrorCode {
	if op == "connect" {
		return types.CodeConnectTimeout
	}
	return types.CodeTimeout
}

// isTimeout 识别 net.Error / os 超时
func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return os.IsTimeout(err)
}
