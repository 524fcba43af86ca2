package transport

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-socket/config"
	"github.com/dep2p/go-socket/internal/core/stats"
)

// Params 传输模块依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Counter    *stats.TrafficCounter
}

// NewManagerFromParams 从参数创建传输管理器
func NewManagerFromParams(p Params) *Manager {
	var rec stats.Recorder
	if p.Counter != nil {
		rec = p.Counter
	}
	return NewManager(ConfigFromUnified(p.UnifiedCfg), rec)
}

// Module 返回传输层 fx 模块
func Module() fx.Option {
	return fx.Module("transport",
		fx.Provide(NewManagerFromParams),
		fx.Invoke(registerLifecycle),
	)
}

// registerLifecycle 注册生命周期钩子
func registerLifecycle(lc fx.Lifecycle, m *Manager) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// 套接字按需创建，启动时无事可做
			return nil
		},
		OnStop: func(_ context.Context) error {
			return m.Close()
		},
	})
}
