package stats

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-socket/config"
)

// Params 统计模块依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// NewTrafficCounterFromParams 从参数创建流量计数器
//
// 统计被禁用时返回 nil，传输层对 nil Recorder 做空操作处理。
func NewTrafficCounterFromParams(p Params) *TrafficCounter {
	if p.UnifiedCfg != nil && !p.UnifiedCfg.Stats.Enabled {
		return nil
	}
	return NewTrafficCounter(clock.New())
}

// Module 是 stats 的 fx 模块
var Module = fx.Module("stats",
	fx.Provide(NewTrafficCounterFromParams),
)
