package tcp

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dep2p/go-socket/internal/core/errmap"
	"github.com/dep2p/go-socket/internal/core/stats"
	transportif "github.com/dep2p/go-socket/pkg/interfaces/transport"
	"github.com/dep2p/go-socket/pkg/types"
)

// Config 流套接字配置
type Config struct {
	// ReadTimeout Recv 阻塞上限，0 表示无限等待
	ReadTimeout time.Duration

	// WriteTimeout Send 阻塞上限，0 表示无限等待
	WriteTimeout time.Duration

	// AcceptTimeout Accept 阻塞上限，0 表示无限等待
	AcceptTimeout time.Duration

	// Dial 拨号选项
	Dial transportif.DialOptions

	// Stats 流量记录器，nil 表示不统计
	Stats stats.Recorder
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Dial: transportif.DefaultDialOptions(),
	}
}

// ============================================================================
//                              Socket 实现
// ============================================================================

// Socket 流套接字
//
// 独占一个底层 TCP 资源（监听器或连接），携带显式状态标签。
// 由持有方恰好一次 Close；跨 goroutine 并发使用同一句柄需
// 外部串行化，从另一 goroutine 关闭会以确定的错误唤醒阻塞
// 中的 Accept/Recv/Send。
type Socket struct {
	mu    sync.Mutex
	state atomic.Int32 // transportif.StreamState

	laddr  *types.Address // Bind 记录的请求地址
	local  *types.Address // 实际本地地址
	remote *types.Address

	ln   *net.TCPListener
	conn *net.TCPConn

	dial transportif.DialOptions

	readTimeout   atomic.Int64 // 纳秒
	writeTimeout  atomic.Int64
	acceptTimeout atomic.Int64

	rec stats.Recorder
}

// 确保实现接口
var _ transportif.StreamSocket = (*Socket)(nil)

// New 创建流套接字，初始为 Fresh 状态
func New(cfg Config) *Socket {
	s := &Socket{
		dial: cfg.Dial,
		rec:  cfg.Stats,
	}
	if s.dial == (transportif.DialOptions{}) {
		s.dial = transportif.DefaultDialOptions()
	}
	s.readTimeout.Store(int64(cfg.ReadTimeout))
	s.writeTimeout.Store(int64(cfg.WriteTimeout))
	s.acceptTimeout.Store(int64(cfg.AcceptTimeout))
	return s
}

// newAccepted 从已接受的连接派生子句柄
//
// 子句柄直接处于 Connected 状态，持有自己的默认配置，
// 不继承监听器的超时设置。流量记录器是管理层的记账设施，
// 随派生传递。
func newAccepted(conn *net.TCPConn, rec stats.Recorder) *Socket {
	s := &Socket{
		conn: conn,
		dial: transportif.DefaultDialOptions(),
		rec:  rec,
	}
	s.local, _ = types.FromTCPAddr(conn.LocalAddr().(*net.TCPAddr))
	s.remote, _ = types.FromTCPAddr(conn.RemoteAddr().(*net.TCPAddr))
	s.state.Store(int32(transportif.StreamConnected))
	return s
}

// ============================================================================
//                              被动角色
// ============================================================================

// Bind 绑定本地地址：Fresh → Bound
func (s *Socket) Bind(local *types.Address) error {
	if local == nil {
		return types.Errorf(types.CodeInvalidArgument, "bind", "nil local address")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if st := s.stateLocked(); st != transportif.StreamFresh {
		return types.Errorf(types.CodeInvalidState, "bind", "bind in state %s", st)
	}

	s.laddr = local
	s.local = local
	s.state.Store(int32(transportif.StreamBound))
	return nil
}

// Listen 开始监听：Bound → Listening
//
// backlog 是配置上界而非本层强制的硬上限，超出部分由
// 操作系统排队或拒绝。地址占用在此处以 CodeAddressInUse 返回。
func (s *Socket) Listen(backlog int) error {
	if backlog < 0 {
		return types.Errorf(types.CodeInvalidArgument, "listen", "negative backlog %d", backlog)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if st := s.stateLocked(); st != transportif.StreamBound {
		return types.Errorf(types.CodeInvalidState, "listen", "listen in state %s", st)
	}

	ln, err := net.ListenTCP("tcp", s.laddr.TCPAddr())
	if err != nil {
		return errmap.Classify("listen", err, types.CodeListenFailed)
	}

	s.ln = ln
	s.local, _ = types.FromTCPAddr(ln.Addr().(*net.TCPAddr))
	s.state.Store(int32(transportif.StreamListening))
	return nil
}

// Accept 接受入站连接，仅在 Listening 状态合法
//
// 阻塞直到对端连入、accept 超时到期或出错。返回处于
// Connected 状态的独立子句柄与对端地址，自身保持 Listening。
func (s *Socket) Accept() (transportif.StreamSocket, *types.Address, error) {
	s.mu.Lock()
	if st := s.stateLocked(); st != transportif.StreamListening {
		s.mu.Unlock()
		return nil, nil, types.Errorf(types.CodeInvalidState, "accept", "accept in state %s", st)
	}
	ln := s.ln
	s.mu.Unlock()

	if d := time.Duration(s.acceptTimeout.Load()); d > 0 {
		if err := ln.SetDeadline(time.Now().Add(d)); err != nil {
			return nil, nil, errmap.Classify("accept", err, types.CodeAcceptFailed)
		}
	} else {
		if err := ln.SetDeadline(time.Time{}); err != nil {
			return nil, nil, errmap.Classify("accept", err, types.CodeAcceptFailed)
		}
	}

	conn, err := ln.AcceptTCP()
	if err != nil {
		return nil, nil, errmap.Classify("accept", err, types.CodeAcceptFailed)
	}

	conn.SetNoDelay(true)
	conn.SetKeepAlive(true)

	peer, err := types.FromTCPAddr(conn.RemoteAddr().(*net.TCPAddr))
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	return newAccepted(conn, s.rec), peer, nil
}

// ============================================================================
//                              主动角色
// ============================================================================

// Connect 建立出站连接：Fresh → Connecting → Connected
//
// 失败时状态回退到 Fresh，句柄可重新尝试连接。
func (s *Socket) Connect(ctx context.Context, remote *types.Address) error {
	if remote == nil {
		return types.Errorf(types.CodeInvalidArgument, "connect", "nil remote address")
	}

	s.mu.Lock()
	if st := s.stateLocked(); st != transportif.StreamFresh {
		s.mu.Unlock()
		return types.Errorf(types.CodeInvalidState, "connect", "connect in state %s", st)
	}
	s.state.Store(int32(transportif.StreamConnecting))
	opts := s.dial
	s.mu.Unlock()

	dialer := &net.Dialer{
		Timeout:   opts.Timeout,
		KeepAlive: opts.KeepAlive,
	}
	conn, err := dialer.DialContext(ctx, "tcp", remote.TCPAddr().String())

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stateLocked() != transportif.StreamConnecting {
		// 拨号期间被并发关闭
		if conn != nil {
			_ = conn.Close()
		}
		return types.Errorf(types.CodeInvalidState, "connect", "socket closed during connect")
	}

	if err != nil {
		s.state.Store(int32(transportif.StreamFresh))
		return errmap.Classify("connect", err, types.CodeUnknown)
	}

	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		_ = conn.Close()
		s.state.Store(int32(transportif.StreamFresh))
		return types.Errorf(types.CodeSocketCreateFailed, "connect", "unexpected connection type %T", conn)
	}

	if opts.NoDelay {
		tcpConn.SetNoDelay(true)
	}

	s.conn = tcpConn
	s.local, _ = types.FromTCPAddr(tcpConn.LocalAddr().(*net.TCPAddr))
	s.remote, _ = types.FromTCPAddr(tcpConn.RemoteAddr().(*net.TCPAddr))
	s.state.Store(int32(transportif.StreamConnected))
	return nil
}

// ============================================================================
//                              数据传输
// ============================================================================

// Send 发送字节流，仅在 Connected 状态合法
//
// 返回实际传输的字节数，可能小于请求值；本层不内部循环，
// 是否补发由调用方决定。
func (s *Socket) Send(payload []byte, flags transportif.Flags) (int, error) {
	if flags != 0 {
		return 0, types.Errorf(types.CodeInvalidArgument, "send", "flags %#x not supported for send", flags)
	}

	conn, err := s.connected("send")
	if err != nil {
		return 0, err
	}

	if err := applyDeadline(&s.writeTimeout, conn.SetWriteDeadline); err != nil {
		return 0, err
	}

	n, err := conn.Write(payload)
	if err != nil {
		return n, errmap.Classify("send", err, types.CodeUnknown)
	}
	if s.rec != nil {
		s.rec.LogSent(int64(n))
	}
	return n, nil
}

// Recv 接收字节流，仅在 Connected 状态合法
//
// 返回 (0, nil) 表示对端有序关闭，区别于错误。
// FlagWaitAll 阻塞直到填满缓冲区（对应 MSG_WAITALL）。
func (s *Socket) Recv(buf []byte, flags transportif.Flags) (int, error) {
	if flags&^transportif.FlagWaitAll != 0 {
		return 0, types.Errorf(types.CodeInvalidArgument, "recv", "flags %#x not supported for recv", flags)
	}

	conn, err := s.connected("recv")
	if err != nil {
		return 0, err
	}

	if err := applyDeadline(&s.readTimeout, conn.SetReadDeadline); err != nil {
		return 0, err
	}

	var n int
	if flags&transportif.FlagWaitAll != 0 {
		n, err = io.ReadFull(conn, buf)
		if errors.Is(err, io.ErrUnexpectedEOF) {
			// 填满前对端关闭：返回已读字节，下一次 Recv 报告有序关闭
			err = nil
		}
	} else {
		n, err = conn.Read(buf)
	}

	if errors.Is(err, io.EOF) {
		// 对端有序关闭，不是错误
		return 0, nil
	}
	if err != nil {
		return n, errmap.Classify("recv", err, types.CodeUnknown)
	}
	if s.rec != nil {
		s.rec.LogRecv(int64(n))
	}
	return n, nil
}

// ============================================================================
//                              关闭
// ============================================================================

// Close 关闭套接字：任意状态 → Closed
//
// 尽力而为：失败以 CodeReleaseFailed 报告，但句柄随后一律
// 视为不可用。重复 Close 返回确定的 CodeInvalidState 错误。
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stateLocked() == transportif.StreamClosed {
		return types.Errorf(types.CodeInvalidState, "close", "socket already closed")
	}

	s.state.Store(int32(transportif.StreamClosed))

	var err error
	if s.ln != nil {
		err = s.ln.Close()
	}
	if s.conn != nil {
		err = s.conn.Close()
	}
	if err != nil {
		return errmap.Classify("close", err, types.CodeReleaseFailed)
	}
	return nil
}

// ============================================================================
//                              访问器
// ============================================================================

// LocalAddr 返回本地地址，未绑定 / 未连接时为 nil
func (s *Socket) LocalAddr() *types.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local
}

// RemoteAddr 返回对端地址，未连接时为 nil
func (s *Socket) RemoteAddr() *types.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remote
}

// State 返回当前状态
func (s *Socket) State() transportif.StreamState {
	return transportif.StreamState(s.state.Load())
}

// SetReadTimeout 设置 Recv 的阻塞上限
func (s *Socket) SetReadTimeout(d time.Duration) {
	s.readTimeout.Store(int64(d))
}

// SetWriteTimeout 设置 Send 的阻塞上限
func (s *Socket) SetWriteTimeout(d time.Duration) {
	s.writeTimeout.Store(int64(d))
}

// SetAcceptTimeout 设置 Accept 的阻塞上限
func (s *Socket) SetAcceptTimeout(d time.Duration) {
	s.acceptTimeout.Store(int64(d))
}

// ============================================================================
//                              内部方法
// ============================================================================

// stateLocked 返回当前状态，调用方持锁
func (s *Socket) stateLocked() transportif.StreamState {
	return transportif.StreamState(s.state.Load())
}

// connected 校验 Connected 状态并返回底层连接
func (s *Socket) connected(op string) (*net.TCPConn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.stateLocked(); st != transportif.StreamConnected {
		return nil, types.Errorf(types.CodeInvalidState, op, "%s in state %s", op, st)
	}
	return s.conn, nil
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
