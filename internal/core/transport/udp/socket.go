// Package udp 提供无连接数据报套接字实现
//
// 状态：Unbound → Bound → Closed。未绑定的套接字可以直接
// 发送（隐式获取临时本地端口，符合标准数据报语义），
// 接收则要求已绑定。
//
// Go 的 net 包在创建时即完成绑定，因此底层描述符在 Bind
// 或首次 SendTo 时获取；对调用方可见的生命周期契约与
// 先创建后绑定的模型一致。
package udp

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dep2p/go-socket/internal/core/errmap"
	"github.com/dep2p/go-socket/internal/core/stats"
	transportif "github.com/dep2p/go-socket/pkg/interfaces/transport"
	"github.com/dep2p/go-socket/pkg/types"
)

// Config 数据报套接字配置
type Config struct {
	// ReadTimeout RecvFrom 阻塞上限，0 表示无限等待
	ReadTimeout time.Duration

	// WriteTimeout SendTo 阻塞上限，0 表示无限等待
	WriteTimeout time.Duration

	// Stats 流量记录器，nil 表示不统计
	Stats stats.Recorder
}

// ============================================================================
//                              Socket 实现
// ============================================================================

// Socket 数据报套接字
//
// 独占一个底层 UDP 套接字，由持有方恰好一次 Close。
// 跨 goroutine 并发使用同一句柄需调用方外部串行化；
// 从另一 goroutine 关闭会以确定的错误唤醒阻塞中的 RecvFrom。
type Socket struct {
	mu    sync.Mutex
	state atomic.Int32 // transportif.DatagramState

	conn  *net.UDPConn
	local *types.Address

	readTimeout  atomic.Int64 // 纳秒
	writeTimeout atomic.Int64

	rec stats.Recorder
}

// 确保实现接口
var _ transportif.DatagramSocket = (*Socket)(nil)

// New 创建数据报套接字，初始为 Unbound 状态
func New(cfg Config) *Socket {
	s := &Socket{rec: cfg.Stats}
	s.readTimeout.Store(int64(cfg.ReadTimeout))
	s.writeTimeout.Store(int64(cfg.WriteTimeout))
	return s
}

// ============================================================================
//                              状态迁移操作
// ============================================================================

// Bind 绑定本地地址：Unbound → Bound
//
// 重复绑定失败于 CodeInvalidState，状态不变。
func (s *Socket) Bind(local *types.Address) error {
	if local == nil {
		return types.Errorf(types.CodeInvalidArgument, "bind", "nil local address")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if st := s.stateLocked(); st != transportif.DatagramUnbound {
		return types.Errorf(types.CodeInvalidState, "bind", "bind in state %s", st)
	}
	if s.conn != nil {
		// 已经隐式获取了临时本地端口，无法再次绑定
		return types.Errorf(types.CodeBindFailed, "bind", "ephemeral local address already acquired")
	}

	conn, err := net.ListenUDP("udp", local.UDPAddr())
	if err != nil {
		return errmap.Classify("bind", err, types.CodeBindFailed)
	}

	s.conn = conn
	s.local, _ = types.FromUDPAddr(conn.LocalAddr().(*net.UDPAddr))
	s.state.Store(int32(transportif.DatagramBound))
	return nil
}

// SendTo 向目的地址发送数据报
//
// Unbound 与 Bound 状态均合法；未绑定时隐式获取临时本地
// 端口。返回操作系统受理的字节数。
func (s *Socket) SendTo(dest *types.Address, payload []byte, flags transportif.Flags) (int, error) {
	if dest == nil {
		return 0, types.Errorf(types.CodeInvalidArgument, "send_to", "nil destination address")
	}
	if flags != 0 {
		return 0, types.Errorf(types.CodeInvalidArgument, "send_to", "flags %#x not supported for datagram sockets", flags)
	}

	s.mu.Lock()
	if s.stateLocked() == transportif.DatagramClosed {
		s.mu.Unlock()
		return 0, types.Errorf(types.CodeInvalidState, "send_to", "socket closed")
	}
	if s.conn == nil {
		// 隐式获取临时本地端口
		conn, err := net.ListenUDP("udp", nil)
		if err != nil {
			s.mu.Unlock()
			return 0, errmap.Classify("send_to", err, types.CodeSocketCreateFailed)
		}
		s.conn = conn
		s.local, _ = types.FromUDPAddr(conn.LocalAddr().(*net.UDPAddr))
	}
	conn := s.conn
	s.mu.Unlock()

	if err := applyDeadline(&s.writeTimeout, conn.SetWriteDeadline); err != nil {
		return 0, err
	}

	n, err := conn.WriteToUDP(payload, dest.UDPAddr())
	if err != nil {
		return n, errmap.Classify("send_to", err, types.CodeUnknown)
	}
	if s.rec != nil {
		s.rec.LogSent(int64(n))
	}
	return n, nil
}

// RecvFrom 接收数据报，仅在 Bound 状态合法
//
// 阻塞直到数据报到达、读超时到期（CodeTimeout）或出错。
// 协议不保证投递与顺序，本层不做补偿。
func (s *Socket) RecvFrom(buf []byte, flags transportif.Flags) (int, *types.Address, error) {
	if flags != 0 {
		return 0, nil, types.Errorf(types.CodeInvalidArgument, "recv_from", "flags %#x not supported for datagram sockets", flags)
	}

	s.mu.Lock()
	if st := s.stateLocked(); st != transportif.DatagramBound {
		s.mu.Unlock()
		return 0, nil, types.Errorf(types.CodeInvalidState, "recv_from", "recv_from in state %s", st)
	}
	conn := s.conn
	s.mu.Unlock()

	if err := applyDeadline(&s.readTimeout, conn.SetReadDeadline); err != nil {
		return 0, nil, err
	}

	n, raddr, err := conn.ReadFromUDP(buf)
	if err != nil {
		return 0, nil, errmap.Classify("recv_from", err, types.CodeUnknown)
	}

	src, err := types.FromUDPAddr(raddr)
	if err != nil {
		return n, nil, err
	}
	if s.rec != nil {
		s.rec.LogRecv(int64(n))
	}
	return n, src, nil
}

// Close 释放底层套接字
//
// 所有权模型要求恰好一次释放；重复 Close 返回确定的
// CodeInvalidState 错误而不是崩溃。
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stateLocked() == transportif.DatagramClosed {
		return types.Errorf(types.CodeInvalidState, "close", "socket already closed")
	}

	s.state.Store(int32(transportif.DatagramClosed))
	if s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return errmap.Classify("close", err, types.CodeReleaseFailed)
	}
	return nil
}

// ============================================================================
//                              访问器
// ============================================================================

// LocalAddr 返回本地地址
//
// 绑定或隐式获取临时端口之前为 nil。
func (s *Socket) LocalAddr() *types.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local
}

// State 返回当前状态
func (s *Socket) State() transportif.DatagramState {
	return transportif.DatagramState(s.state.Load())
}

// SetReadTimeout 设置 RecvFrom 的阻塞上限
func (s *Socket) SetReadTimeout(d time.Duration) {
	s.readTimeout.Store(int64(d))
}

// SetWriteTimeout 设置 SendTo 的阻塞上限
func (s *Socket) SetWriteTimeout(d time.Duration) {
	s.writeTimeout.Store(int64(d))
}

// ============================================================================
//                              内部方法
// ============================================================================

// stateLocked 返回当前状态，调用方持锁
func (s *Socket) stateLocked() transportif.DatagramState {
	return transportif.DatagramState(s.state.Load())
}

// applyDeadline 按配置的超时设置绝对截止时间
func applyDeadline(timeout *atomic.Int64, set func(time.Time) error) error {
	d := time.Duration(timeout.Load())
	var deadline time.Time
	if d > 0 {
		deadline = time.Now().Add(d)
	}
	if err := set(deadline); err != nil {
		return errmap.Classify("set_deadline", err, types.CodeUnknown)
	}
	return nil
}
