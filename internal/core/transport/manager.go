// Package transport 实现传输层的装配与记账
//
// Manager 负责创建数据报 / 流套接字并跟踪存活句柄，
// 关闭时统一释放。套接字本身的所有权仍在调用方：
// 调用方正常 Close 后，Manager 中的登记在下次清理时移除；
// Manager.Close 是兜底，保证进程退出时不泄漏描述符。
package transport

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/dep2p/go-socket/config"
	"github.com/dep2p/go-socket/internal/core/stats"
	"github.com/dep2p/go-socket/internal/core/transport/tcp"
	"github.com/dep2p/go-socket/internal/core/transport/udp"
	transportif "github.com/dep2p/go-socket/pkg/interfaces/transport"
	"github.com/dep2p/go-socket/pkg/lib/log"
	"github.com/dep2p/go-socket/pkg/types"
)

var logger = log.Logger("core/transport")

// ============================================================================
//                              配置
// ============================================================================

// Config 传输层配置
type Config struct {
	// DialTimeout 出站连接建立超时
	DialTimeout time.Duration

	// ReadTimeout 读阻塞上限，0 表示无限等待
	ReadTimeout time.Duration

	// WriteTimeout 写阻塞上限，0 表示无限等待
	WriteTimeout time.Duration

	// AcceptTimeout Accept 阻塞上限，0 表示无限等待
	AcceptTimeout time.Duration

	// KeepAlive TCP 保活间隔
	KeepAlive time.Duration

	// NoDelay 禁用 Nagle 算法
	NoDelay bool
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{
		DialTimeout: 30 * time.Second,
		KeepAlive:   15 * time.Second,
		NoDelay:     true,
	}
}

// ConfigFromUnified 从统一配置创建传输配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return NewConfig()
	}
	return Config{
		DialTimeout:   cfg.Transport.DialTimeout.Duration(),
		ReadTimeout:   cfg.Transport.ReadTimeout.Duration(),
		WriteTimeout:  cfg.Transport.WriteTimeout.Duration(),
		AcceptTimeout: cfg.Transport.AcceptTimeout.Duration(),
		KeepAlive:     cfg.Transport.KeepAlive.Duration(),
		NoDelay:       cfg.Transport.NoDelay,
	}
}

// dialOptions 将传输配置转换为拨号选项
func (c Config) dialOptions() transportif.DialOptions {
	return transportif.DialOptions{
		Timeout:   c.DialTimeout,
		KeepAlive: c.KeepAlive,
		NoDelay:   c.NoDelay,
	}
}

// ============================================================================
//                              Manager 实现
// ============================================================================

// Manager 传输管理器
type Manager struct {
	cfg Config
	rec stats.Recorder

	mu        sync.Mutex
	datagrams map[string]transportif.DatagramSocket
	streams   map[string]transportif.StreamSocket

	closed atomic.Bool
}

// NewManager 创建传输管理器
func NewManager(cfg Config, rec stats.Recorder) *Manager {
	logger.Debug("创建传输管理器",
		"dialTimeout", cfg.DialTimeout,
		"keepAlive", cfg.KeepAlive)
	return &Manager{
		cfg:       cfg,
		rec:       rec,
		datagrams: make(map[string]transportif.DatagramSocket),
		streams:   make(map[string]transportif.StreamSocket),
	}
}

// NewDatagram 创建数据报套接字并登记
func (m *Manager) NewDatagram() (transportif.DatagramSocket, error) {
	if m.closed.Load() {
		return nil, types.Errorf(types.CodeInvalidState, "new_datagram", "manager closed")
	}

	s := udp.New(udp.Config{
		ReadTimeout:  m.cfg.ReadTimeout,
		WriteTimeout: m.cfg.WriteTimeout,
		Stats:        m.rec,
	})

	id := uuid.New().String()
	m.mu.Lock()
	m.datagrams[id] = s
	m.mu.Unlock()

	logger.Debug("数据报套接字已创建", "id", id)
	return s, nil
}

// NewStream 创建流套接字并登记
func (m *Manager) NewStream() (transportif.StreamSocket, error) {
	if m.closed.Load() {
		return nil, types.Errorf(types.CodeInvalidState, "new_stream", "manager closed")
	}

	s := tcp.New(tcp.Config{
		ReadTimeout:   m.cfg.ReadTimeout,
		WriteTimeout:  m.cfg.WriteTimeout,
		AcceptTimeout: m.cfg.AcceptTimeout,
		Dial:          m.cfg.dialOptions(),
		Stats:         m.rec,
	})

	id := uuid.New().String()
	m.mu.Lock()
	m.streams[id] = s
	m.mu.Unlock()

	logger.Debug("流套接字已创建", "id", id)
	return s, nil
}

// DatagramCount 返回登记中的数据报套接字数量
func (m *Manager) DatagramCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	return len(m.datagrams)
}

// StreamCount 返回登记中的流套接字数量
func (m *Manager) StreamCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	return len(m.streams)
}

// IsClosed 检查管理器是否已关闭
func (m *Manager) IsClosed() bool {
	return m.closed.Load()
}

// Close 关闭管理器并兜底释放所有仍登记的套接字
//
// 已由调用方正常关闭的句柄跳过，剩余句柄的关闭错误聚合后
// 一并返回。
func (m *Manager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var errs error
	for id, s := range m.datagrams {
		if s.State() != transportif.DatagramClosed {
			errs = multierr.Append(errs, s.Close())
		}
		delete(m.datagrams, id)
	}
	for id, s := range m.streams {
		if s.State() != transportif.StreamClosed {
			errs = multierr.Append(errs, s.Close())
		}
		delete(m.streams, id)
	}

	if errs != nil {
		logger.Warn("传输管理器关闭时部分套接字释放失败", "error", errs)
	}
	return errs
}

// pruneLocked 移除已被调用方关闭的登记项，调用方持锁
func (m *Manager) pruneLocked() {
	for id, s := range m.datagrams {
		if s.State() == transportif.DatagramClosed {
			delete(m.datagrams, id)
		}
	}
	for id, s := range m.streams {
		if s.State() == transportif.StreamClosed {
			delete(m.streams, id)
		}
	}
}
