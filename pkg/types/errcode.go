package types

import (
	"errors"
	"fmt"
)

// ============================================================================
//                              ErrorCode 错误码
// ============================================================================

// ErrorCode 跨平台错误码
//
// 所有传输组件的可失败操作都返回携带 ErrorCode 的 *Error。
// 平台相关的错误号只在 errmap 模块中被翻译为 ErrorCode，
// 传输组件本身不包含平台分支。
type ErrorCode int32

const (
	// CodeUnknown 未知错误（保留原始平台错误号用于诊断）
	CodeUnknown ErrorCode = iota

	// CodeAddressResolutionFailed 地址解析失败
	CodeAddressResolutionFailed

	// CodeInvalidArgument 无效参数（如端口越界）
	CodeInvalidArgument

	// CodeSocketCreateFailed 套接字创建失败
	CodeSocketCreateFailed

	// CodeBindFailed 绑定失败
	CodeBindFailed

	// CodeAddressInUse 地址已被占用
	CodeAddressInUse

	// CodeListenFailed 监听失败
	CodeListenFailed

	// CodeAcceptFailed 接受连接失败
	CodeAcceptFailed

	// CodeConnectRefused 连接被拒绝
	CodeConnectRefused

	// CodeConnectTimeout 连接超时
	CodeConnectTimeout

	// CodeNetworkUnreachable 网络不可达
	CodeNetworkUnreachable

	// CodeConnectionReset 连接被重置
	CodeConnectionReset

	// CodeBrokenPipe 管道破裂（对端已关闭读取方向）
	CodeBrokenPipe

	// CodeWouldBlock 操作将阻塞（非阻塞语义下的瞬态失败）
	CodeWouldBlock

	// CodeTimeout 读写超时
	CodeTimeout

	// CodeInvalidState 当前状态下操作非法
	CodeInvalidState

	// CodeReleaseFailed 释放失败
	CodeReleaseFailed
)

// String 返回错误码名称
func (c ErrorCode) String() string {
	switch c {
	case CodeAddressResolutionFailed:
		return "address_resolution_failed"
	case CodeInvalidArgument:
		return "invalid_argument"
	case CodeSocketCreateFailed:
		return "socket_create_failed"
	case CodeBindFailed:
		return "bind_failed"
	case CodeAddressInUse:
		return "address_in_use"
	case CodeListenFailed:
		return "listen_failed"
	case CodeAcceptFailed:
		return "accept_failed"
	case CodeConnectRefused:
		return "connect_refused"
	case CodeConnectTimeout:
		return "connect_timeout"
	case CodeNetworkUnreachable:
		return "network_unreachable"
	case CodeConnectionReset:
		return "connection_reset"
	case CodeBrokenPipe:
		return "broken_pipe"
	case CodeWouldBlock:
		return "would_block"
	case CodeTimeout:
		return "timeout"
	case CodeInvalidState:
		return "invalid_state"
	case CodeReleaseFailed:
		return "release_failed"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              Error 结构化错误
// ============================================================================

// Error 携带错误码与原始平台错误号的结构化错误
//
// Errno 保留操作系统返回的原始错误号（无则为 0），
// Err 保留底层错误链，支持 errors.Is / errors.As。
type Error struct {
	// Code 跨平台错误码
	Code ErrorCode

	// Errno 原始平台错误号（诊断用，0 表示无）
	Errno int

	// Op 触发错误的操作名，如 "bind"、"recv_from"
	Op string

	// Err 底层错误
	Err error
}

// NewError 创建结构化错误
func NewError(code ErrorCode, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// Errorf 创建带格式化消息的结构化错误
func Errorf(code ErrorCode, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Err: fmt.Errorf(format, args...)}
}

// Error 实现 error 接口
func (e *Error) Error() string {
	msg := fmt.Sprintf("socket: %s: %s", e.Op, e.Code)
	if e.Errno != 0 {
		msg += fmt.Sprintf(" (errno %d)", e.Errno)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap 返回底层错误
func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout 实现 net.Error 的超时判定
func (e *Error) Timeout() bool {
	return e.Code == CodeTimeout || e.Code == CodeConnectTimeout
}

// Temporary 实现 net.Error 的瞬态判定
func (e *Error) Temporary() bool {
	return e.Code == CodeWouldBlock || e.Timeout()
}

// Is 支持按错误码比较：errors.Is(err, &Error{Code: CodeTimeout})
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// ============================================================================
//                              辅助函数
// ============================================================================

// CodeOf 提取错误的错误码
//
// 非 *Error 的错误（含 nil）返回 CodeUnknown。
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// ErrnoOf 提取错误携带的原始平台错误号，无则返回 0
func ErrnoOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Errno
	}
	return 0
}
