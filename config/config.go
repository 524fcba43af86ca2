// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立小节中定义
//   - 支持从 JSON 加载与保存
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Transport.DialTimeout = config.Duration(10 * time.Second)
//
//	cfg, err := config.FromJSON(data)
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config 是 go-socket 的完整配置结构
//
// 配置按照功能模块组织：
//   - Resolver: 地址解析
//   - Transport: 数据报与流传输
//   - Stats: 流量统计
type Config struct {
	// Resolver 地址解析配置
	Resolver ResolverConfig `json:"resolver"`

	// Transport 传输配置
	Transport TransportConfig `json:"transport"`

	// Stats 流量统计配置
	Stats StatsConfig `json:"stats"`
}

// ResolverConfig 地址解析配置
type ResolverConfig struct {
	// DNSServer 显式 DNS 服务器地址（host:port）
	//
	// 为空时使用系统解析器。非空时解析器直接向该服务器
	// 发起 DNS 查询。
	DNSServer string `json:"dns_server"`

	// Timeout 单次解析的超时
	Timeout Duration `json:"timeout"`
}

// TransportConfig 传输配置
type TransportConfig struct {
	// DialTimeout 出站连接建立超时
	DialTimeout Duration `json:"dial_timeout"`

	// ReadTimeout 读阻塞上限，0 表示无限等待
	ReadTimeout Duration `json:"read_timeout"`

	// WriteTimeout 写阻塞上限，0 表示无限等待
	WriteTimeout Duration `json:"write_timeout"`

	// AcceptTimeout Accept 阻塞上限，0 表示无限等待
	AcceptTimeout Duration `json:"accept_timeout"`

	// Backlog 监听队列的默认配置上界
	Backlog int `json:"backlog"`

	// KeepAlive TCP 保活间隔
	KeepAlive Duration `json:"keep_alive"`

	// NoDelay 禁用 Nagle 算法
	NoDelay bool `json:"no_delay"`
}

// StatsConfig 流量统计配置
type StatsConfig struct {
	// Enabled 是否启用流量统计
	Enabled bool `json:"enabled"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Resolver: ResolverConfig{
			Timeout: Duration(5 * time.Second),
		},
		Transport: TransportConfig{
			DialTimeout: Duration(30 * time.Second),
			Backlog:     128,
			KeepAlive:   Duration(15 * time.Second),
			NoDelay:     true,
		},
		Stats: StatsConfig{
			Enabled: true,
		},
	}
}

// FromJSON 从 JSON 数据解析配置
//
// 在默认配置的基础上覆盖，未出现的字段保持默认值。
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile 从 JSON 文件加载配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return FromJSON(data)
}

// ToJSON 序列化为 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
