package socket

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-socket/internal/core/netaddr"
	"github.com/dep2p/go-socket/internal/core/stats"
	"github.com/dep2p/go-socket/internal/core/transport"
	netaddrif "github.com/dep2p/go-socket/pkg/interfaces/netaddr"
	"github.com/dep2p/go-socket/pkg/lib/log"
)

// ════════════════════════════════════════════════════════════════════════════
//                              Stack 装配
// ════════════════════════════════════════════════════════════════════════════

// Stack 装配完整的套接字栈
//
// 把解析器、传输管理器与流量统计装配在统一配置之下。
// Stop 时传输管理器兜底释放所有仍登记的套接字。
//
// 不需要统一装配的调用方可以直接使用 NewDatagramSocket /
// NewStreamSocket 独立句柄。
type Stack struct {
	app *fx.App

	resolver netaddrif.Resolver
	manager  *transport.Manager
	counter  *stats.TrafficCounter
}

// StatsSnapshot 流量统计快照
type StatsSnapshot struct {
	// TotalIn 累计入站字节数
	TotalIn int64

	// TotalOut 累计出站字节数
	TotalOut int64

	// PacketsIn 累计入站传输次数
	PacketsIn int64

	// PacketsOut 累计出站传输次数
	PacketsOut int64

	// RateIn 最近 60 秒入站平均速率（字节/秒）
	RateIn float64

	// RateOut 最近 60 秒出站平均速率（字节/秒）
	RateOut float64
}

// New 创建并装配 Stack
func New(opts ...Option) (*Stack, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	cfg, err := o.buildConfig()
	if err != nil {
		return nil, err
	}

	if o.logger != nil {
		log.SetDefault(o.logger)
	}

	st := &Stack{}
	app := fx.New(
		fx.Supply(cfg),

		netaddr.Module(),
		stats.Module,
		transport.Module(),

		fx.Populate(&st.resolver, &st.manager, &st.counter),
		fx.WithLogger(func() fxevent.Logger {
			if o.fxDebug {
				l, _ := zap.NewDevelopment()
				return &fxevent.ZapLogger{Logger: l}
			}
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("socket: assemble stack: %w", err)
	}

	st.app = app
	return st, nil
}

// Start 启动 Stack
func (s *Stack) Start(ctx context.Context) error {
	return s.app.Start(ctx)
}

// Stop 停止 Stack 并兜底释放所有仍登记的套接字
func (s *Stack) Stop(ctx context.Context) error {
	return s.app.Stop(ctx)
}

// ════════════════════════════════════════════════════════════════════════════
//                              Stack API
// ════════════════════════════════════════════════════════════════════════════

// Resolve 解析主机与端口
func (s *Stack) Resolve(ctx context.Context, host string, port int) (*Address, error) {
	return s.resolver.Resolve(ctx, host, port)
}

// NewDatagram 创建数据报套接字并登记到管理器
func (s *Stack) NewDatagram() (DatagramSocket, error) {
	return s.manager.NewDatagram()
}

// NewStream 创建流套接字并登记到管理器
func (s *Stack) NewStream() (StreamSocket, error) {
	return s.manager.NewStream()
}

// Stats 返回流量统计快照
//
// 统计被禁用时返回零值快照。
func (s *Stack) Stats() StatsSnapshot {
	if s.counter == nil {
		return StatsSnapshot{}
	}
	snap := s.counter.Snapshot()
	return StatsSnapshot{
		TotalIn:    snap.TotalIn,
		TotalOut:   snap.TotalOut,
		PacketsIn:  snap.PacketsIn,
		PacketsOut: snap.PacketsOut,
		RateIn:     snap.RateIn,
		RateOut:    snap.RateOut,
	}
}
