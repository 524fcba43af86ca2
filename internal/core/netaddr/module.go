package netaddr

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-socket/config"
	netaddrif "github.com/dep2p/go-socket/pkg/interfaces/netaddr"
	"github.com/dep2p/go-socket/pkg/lib/log"
)

var logger = log.Logger("core/netaddr")

// ConfigFromUnified 从统一配置创建解析器配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		DNSServer: cfg.Resolver.DNSServer,
		Timeout:   cfg.Resolver.Timeout.Duration(),
	}
}

// Params 解析器依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// NewFromParams 从参数创建解析器
func NewFromParams(p Params) *SystemResolver {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	if cfg.DNSServer != "" {
		logger.Debug("使用显式 DNS 服务器", "server", cfg.DNSServer)
	}
	return New(cfg)
}

// Module 返回 netaddr fx 模块
func Module() fx.Option {
	return fx.Module("netaddr",
		fx.Provide(
			fx.Annotate(
				NewFromParams,
				fx.As(new(netaddrif.Resolver)),
			),
		),
	)
}
