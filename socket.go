package socket

import (
	"context"

	"github.com/dep2p/go-socket/internal/core/errmap"
	"github.com/dep2p/go-socket/internal/core/netaddr"
	"github.com/dep2p/go-socket/internal/core/transport/tcp"
	"github.com/dep2p/go-socket/internal/core/transport/udp"
	netaddrif "github.com/dep2p/go-socket/pkg/interfaces/netaddr"
	transportif "github.com/dep2p/go-socket/pkg/interfaces/transport"
	"github.com/dep2p/go-socket/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              版本信息
// ════════════════════════════════════════════════════════════════════════════

// Version 当前版本
const Version = "v0.1.0"

// VersionInfo 返回版本信息字符串
func VersionInfo() string {
	return "go-socket " + Version
}

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

// Address 已解析的平台无关网络地址
type Address = types.Address

// Error 携带错误码与原始平台错误号的结构化错误
type Error = types.Error

// ErrorCode 跨平台错误码
type ErrorCode = types.ErrorCode

// Flags 传输调用的修饰标志
type Flags = transportif.Flags

// DatagramSocket 无连接数据报套接字
type DatagramSocket = transportif.DatagramSocket

// StreamSocket 面向连接的流套接字
type StreamSocket = transportif.StreamSocket

// DatagramState 数据报套接字状态
type DatagramState = transportif.DatagramState

// StreamState 流套接字状态
type StreamState = transportif.StreamState

// Resolver 地址解析器接口
type Resolver = netaddrif.Resolver

// 错误码
const (
	CodeUnknown                 = types.CodeUnknown
	CodeAddressResolutionFailed = types.CodeAddressResolutionFailed
	CodeInvalidArgument         = types.CodeInvalidArgument
	CodeSocketCreateFailed      = types.CodeSocketCreateFailed
	CodeBindFailed              = types.CodeBindFailed
	CodeAddressInUse            = types.CodeAddressInUse
	CodeListenFailed            = types.CodeListenFailed
	CodeAcceptFailed            = types.CodeAcceptFailed
	CodeConnectRefused          = types.CodeConnectRefused
	CodeConnectTimeout          = types.CodeConnectTimeout
	CodeNetworkUnreachable      = types.CodeNetworkUnreachable
	CodeConnectionReset         = types.CodeConnectionReset
	CodeBrokenPipe              = types.CodeBrokenPipe
	CodeWouldBlock              = types.CodeWouldBlock
	CodeTimeout                 = types.CodeTimeout
	CodeInvalidState            = types.CodeInvalidState
	CodeReleaseFailed           = types.CodeReleaseFailed
)

// 传输标志
const (
	FlagPeek    = transportif.FlagPeek
	FlagWaitAll = transportif.FlagWaitAll
)

// 数据报套接字状态
const (
	DatagramUnbound = transportif.DatagramUnbound
	DatagramBound   = transportif.DatagramBound
	DatagramClosed  = transportif.DatagramClosed
)

// 流套接字状态
const (
	StreamFresh      = transportif.StreamFresh
	StreamBound      = transportif.StreamBound
	StreamListening  = transportif.StreamListening
	StreamConnecting = transportif.StreamConnecting
	StreamConnected  = transportif.StreamConnected
	StreamClosed     = transportif.StreamClosed
)

// ════════════════════════════════════════════════════════════════════════════
//                              便捷 API
// ════════════════════════════════════════════════════════════════════════════

// defaultResolver 便捷 API 使用的默认解析器
var defaultResolver = netaddr.New(netaddr.DefaultConfig())

// Resolve 用默认解析器解析主机与端口
func Resolve(ctx context.Context, host string, port int) (*Address, error) {
	return defaultResolver.Resolve(ctx, host, port)
}

// Describe 返回平台错误号的描述文本
//
// 总是成功：未知错误号回退为 "unknown error <n>"。
func Describe(code int) string {
	return errmap.Describe(code)
}

// NewDatagramSocket 创建独立的数据报套接字
//
// 句柄使用默认配置，生命周期完全由调用方管理。
func NewDatagramSocket() DatagramSocket {
	return udp.New(udp.Config{})
}

// NewStreamSocket 创建独立的流套接字
//
// 句柄使用默认配置，生命周期完全由调用方管理。
func NewStreamSocket() StreamSocket {
	return tcp.New(tcp.DefaultConfig())
}
