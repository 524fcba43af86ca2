package socket

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dep2p/go-socket/config"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 统一配置（显式传入时跳过逐项覆盖）
	cfg *config.Config

	// 解析配置
	dnsServer string

	// 传输配置
	dialTimeout   *time.Duration
	readTimeout   *time.Duration
	writeTimeout  *time.Duration
	acceptTimeout *time.Duration

	// 统计开关
	statsDisabled bool

	// 日志
	logger *slog.Logger

	// fx 事件日志（调试用）
	fxDebug bool
}

// defaultOptions 返回默认选项
func defaultOptions() *options {
	return &options{}
}

// buildConfig 把选项落成统一配置
func (o *options) buildConfig() (*config.Config, error) {
	cfg := o.cfg
	if cfg == nil {
		cfg = config.NewConfig()
	}

	if o.dnsServer != "" {
		cfg.Resolver.DNSServer = o.dnsServer
	}
	if o.dialTimeout != nil {
		cfg.Transport.DialTimeout = config.Duration(*o.dialTimeout)
	}
	if o.readTimeout != nil {
		cfg.Transport.ReadTimeout = config.Duration(*o.readTimeout)
	}
	if o.writeTimeout != nil {
		cfg.Transport.WriteTimeout = config.Duration(*o.writeTimeout)
	}
	if o.acceptTimeout != nil {
		cfg.Transport.AcceptTimeout = config.Duration(*o.acceptTimeout)
	}
	if o.statsDisabled {
		cfg.Stats.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithConfig 使用完整的统一配置
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("socket: nil config")
		}
		o.cfg = cfg
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载统一配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		o.cfg = cfg
		return nil
	}
}

// WithDNSServer 使用显式 DNS 服务器（host:port，端口缺省为 53）
func WithDNSServer(server string) Option {
	return func(o *options) error {
		o.dnsServer = server
		return nil
	}
}

// WithDialTimeout 设置出站连接建立超时
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("socket: negative dial timeout %s", d)
		}
		o.dialTimeout = &d
		return nil
	}
}

// WithReadTimeout 设置读阻塞上限
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("socket: negative read timeout %s", d)
		}
		o.readTimeout = &d
		return nil
	}
}

// WithWriteTimeout 设置写阻塞上限
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("socket: negative write timeout %s", d)
		}
		o.writeTimeout = &d
		return nil
	}
}

// WithAcceptTimeout 设置 Accept 阻塞上限
func WithAcceptTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("socket: negative accept timeout %s", d)
		}
		o.acceptTimeout = &d
		return nil
	}
}

// WithStatsDisabled 关闭流量统计
func WithStatsDisabled() Option {
	return func(o *options) error {
		o.statsDisabled = true
		return nil
	}
}

// WithLogger 设置进程级日志输出
func WithLogger(l *slog.Logger) Option {
	return func(o *options) error {
		if l == nil {
			return fmt.Errorf("socket: nil logger")
		}
		o.logger = l
		return nil
	}
}

// WithFxDebug 打开 fx 装配事件日志（调试用）
func WithFxDebug() Option {
	return func(o *options) error {
		o.fxDebug = true
		return nil
	}
}
