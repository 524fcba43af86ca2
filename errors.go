package socket

import "github.com/dep2p/go-socket/pkg/types"

// 公共错误哨兵
//
// 用于 errors.Is 按错误码比较：
//
//	if errors.Is(err, socket.ErrTimeout) { ... }
var (
	// ErrInvalidState 当前状态下操作非法
	ErrInvalidState = &types.Error{Code: types.CodeInvalidState}

	// ErrTimeout 读写超时
	ErrTimeout = &types.Error{Code: types.CodeTimeout}

	// ErrAddressInUse 地址已被占用
	ErrAddressInUse = &types.Error{Code: types.CodeAddressInUse}

	// ErrConnectRefused 连接被拒绝
	ErrConnectRefused = &types.Error{Code: types.CodeConnectRefused}

	// ErrConnectionReset 连接被重置
	ErrConnectionReset = &types.Error{Code: types.CodeConnectionReset}

	// ErrBrokenPipe 管道破裂
	ErrBrokenPipe = &types.Error{Code: types.CodeBrokenPipe}

	// ErrAddressResolutionFailed 地址解析失败
	ErrAddressResolutionFailed = &types.Error{Code: types.CodeAddressResolutionFailed}
)

// CodeOf 提取错误的错误码，非结构化错误返回 CodeUnknown
func CodeOf(err error) ErrorCode {
	return types.CodeOf(err)
}

// ErrnoOf 提取错误携带的原始平台错误号，无则返回 0
func ErrnoOf(err error) int {
	return types.ErrnoOf(err)
}
