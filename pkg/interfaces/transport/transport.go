// Package transport 定义传输层接口
//
// 传输模块负责底层网络通信，包括：
// - 无连接数据报传输（UDP）
// - 面向连接的字节流传输（TCP）
// - 套接字生命周期与状态迁移
package transport

import (
	"context"
	"time"

	"github.com/dep2p/go-socket/pkg/types"
)

// ============================================================================
//                              传输标志
// ============================================================================

// Flags 传输调用的修饰标志
//
// 对应平台 MSG_* 标志的可移植子集。平台或协议无法表达的
// 标志组合会返回 CodeInvalidArgument，而不是被静默忽略。
type Flags uint32

const (
	// FlagPeek 读取数据但不从接收队列移除（MSG_PEEK）
	//
	// 为标志集合的完整性而声明。net.TCPConn 不暴露 MSG_PEEK，
	// 当前所有实现都以 CodeInvalidArgument 拒绝该标志。
	FlagPeek Flags = 1 << iota

	// FlagWaitAll 阻塞直到填满整个缓冲区（MSG_WAITALL）
	//
	// 仅流套接字的 Recv 支持。
	FlagWaitAll
)

// ============================================================================
//                              套接字状态
// ============================================================================

// DatagramState 数据报套接字状态
type DatagramState int32

const (
	// DatagramUnbound 已创建，未绑定本地地址
	DatagramUnbound DatagramState = iota

	// DatagramBound 已绑定本地地址，可接收
	DatagramBound

	// DatagramClosed 已关闭（终态）
	DatagramClosed
)

// String 返回状态名称
func (s DatagramState) String() string {
	switch s {
	case DatagramUnbound:
		return "unbound"
	case DatagramBound:
		return "bound"
	case DatagramClosed:
		return "closed"
	default:
		return "invalid"
	}
}

// StreamState 流套接字状态
//
// 迁移路径：
//   - 被动角色：Fresh → Bound → Listening →（派生）Connected
//   - 主动角色：Fresh → Connecting → Connected
//   - 任意状态 → Closed（终态）
//
// 状态表之外的操作立即失败于 CodeInvalidState，状态不变，
// 不会下传到操作系统。
type StreamState int32

const (
	// StreamFresh 刚创建，未绑定也未连接
	StreamFresh StreamState = iota

	// StreamBound 已绑定本地地址
	StreamBound

	// StreamListening 正在监听入站连接
	StreamListening

	// StreamConnecting 正在建立出站连接
	StreamConnecting

	// StreamConnected 已连接（主动或被动）
	StreamConnected

	// StreamClosed 已关闭（终态）
	StreamClosed
)

// String 返回状态名称
func (s StreamState) String() string {
	switch s {
	case StreamFresh:
		return "fresh"
	case StreamBound:
		return "bound"
	case StreamListening:
		return "listening"
	case StreamConnecting:
		return "connecting"
	case StreamConnected:
		return "connected"
	case StreamClosed:
		return "closed"
	default:
		return "invalid"
	}
}

// ============================================================================
//                              DatagramSocket 接口
// ============================================================================

// DatagramSocket 无连接数据报套接字
//
// 每个 DatagramSocket 独占一个底层套接字资源，由持有方负责
// 恰好一次 Close。本层不提供跨 goroutine 并发使用同一句柄的
// 安全保证，调用方需外部串行化；从另一 goroutine 关闭句柄
// 会以确定的错误唤醒阻塞中的调用。
type DatagramSocket interface {
	// Bind 绑定本地地址，仅在 Unbound 状态合法
	//
	// 重复绑定返回 CodeInvalidState。
	Bind(local *types.Address) error

	// SendTo 向目的地址发送数据报，Unbound 与 Bound 状态均合法
	//
	// 未绑定时隐式获取临时本地端口。返回操作系统受理的字节数，
	// 不提供超出该值的投递保证。
	SendTo(dest *types.Address, payload []byte, flags Flags) (int, error)

	// RecvFrom 接收数据报，仅在 Bound 状态合法
	//
	// 阻塞直到数据报到达、配置的读超时到期（CodeTimeout）
	// 或出错。返回字节数与来源地址。协议本身不保证投递与
	// 顺序，本层不做补偿。
	RecvFrom(buf []byte, flags Flags) (int, *types.Address, error)

	// LocalAddr 返回绑定的本地地址，未绑定时为 nil
	LocalAddr() *types.Address

	// State 返回当前状态
	State() DatagramState

	// SetReadTimeout 设置 RecvFrom 的阻塞上限，0 表示无限等待
	SetReadTimeout(d time.Duration)

	// SetWriteTimeout 设置 SendTo 的阻塞上限，0 表示无限等待
	SetWriteTimeout(d time.Duration)

	// Close 释放底层套接字
	//
	// 释放不保证幂等：所有权模型要求恰好一次释放，
	// 重复 Close 返回 CodeInvalidState。
	Close() error
}

// ============================================================================
//                              StreamSocket 接口
// ============================================================================

// StreamSocket 面向连接的流套接字
//
// 监听句柄通过 Accept 派生出独立所有权的已连接句柄：
// 关闭监听器不影响子句柄，反之亦然。Accept 派生的句柄
// 无需 Connect 即可收发；Connect 建立的句柄无需 Bind/Listen。
type StreamSocket interface {
	// Bind 绑定本地地址：Fresh → Bound
	Bind(local *types.Address) error

	// Listen 开始监听：Bound → Listening
	//
	// backlog 是配置上界而非本层强制的硬上限，超出部分由
	// 操作系统排队或拒绝。
	Listen(backlog int) error

	// Accept 接受入站连接，仅在 Listening 状态合法
	//
	// 阻塞直到对端连入或 accept 超时到期。返回处于
	// Connected 状态的新句柄及对端地址，自身保持 Listening。
	Accept() (StreamSocket, *types.Address, error)

	// Connect 建立出站连接：Fresh → Connecting → Connected
	Connect(ctx context.Context, remote *types.Address) error

	// Send 发送字节流，仅在 Connected 状态合法
	//
	// 返回实际传输的字节数，可能小于请求值（流套接字的
	// 部分写是正常现象）。本层不内部循环，是否重试由
	// 调用方决定。
	Send(payload []byte, flags Flags) (int, error)

	// Recv 接收字节流，仅在 Connected 状态合法
	//
	// 返回 (0, nil) 表示对端有序关闭，区别于错误，
	// 也区别于成功的非零读取。
	Recv(buf []byte, flags Flags) (int, error)

	// LocalAddr 返回本地地址，未绑定 / 未连接时为 nil
	LocalAddr() *types.Address

	// RemoteAddr 返回对端地址，未连接时为 nil
	RemoteAddr() *types.Address

	// State 返回当前状态
	State() StreamState

	// SetReadTimeout 设置 Recv 的阻塞上限，0 表示无限等待
	SetReadTimeout(d time.Duration)

	// SetWriteTimeout 设置 Send 的阻塞上限，0 表示无限等待
	SetWriteTimeout(d time.Duration)

	// SetAcceptTimeout 设置 Accept 的阻塞上限，0 表示无限等待
	SetAcceptTimeout(d time.Duration)

	// Close 关闭套接字：任意状态 → Closed
	//
	// 尽力而为：失败会被报告，但句柄随后一律视为不可用。
	// 重复 Close 返回 CodeInvalidState。
	Close() error
}

// ============================================================================
//                              选项
// ============================================================================

// DialOptions 拨号选项
type DialOptions struct {
	// Timeout 连接超时
	Timeout time.Duration

	// KeepAlive 保活间隔
	KeepAlive time.Duration

	// NoDelay 禁用 Nagle 算法
	NoDelay bool
}

// DefaultDialOptions 返回默认拨号选项
func DefaultDialOptions() DialOptions {
	return DialOptions{
		Timeout:   30 * time.Second,
		KeepAlive: 15 * time.Second,
		NoDelay:   true,
	}
}

// ListenOptions 监听选项
type ListenOptions struct {
	// Backlog 连接队列大小
	Backlog int

	// AcceptTimeout Accept 阻塞上限，0 表示无限等待
	AcceptTimeout time.Duration
}

// DefaultListenOptions 返回默认监听选项
func DefaultListenOptions() ListenOptions {
	return ListenOptions{
		Backlog: 128,
	}
}
