package config

import "fmt"

// Validate 校验配置的一致性
//
// 在构建 Stack 前调用，避免非法配置下传到运行期。
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config: nil config")
	}

	if c.Resolver.Timeout < 0 {
		return fmt.Errorf("config: resolver.timeout must be >= 0, got %s", c.Resolver.Timeout)
	}

	t := &c.Transport
	for name, d := range map[string]Duration{
		"transport.dial_timeout":   t.DialTimeout,
		"transport.read_timeout":   t.ReadTimeout,
		"transport.write_timeout":  t.WriteTimeout,
		"transport.accept_timeout": t.AcceptTimeout,
		"transport.keep_alive":     t.KeepAlive,
	} {
		if d < 0 {
			return fmt.Errorf("config: %s must be >= 0, got %s", name, d)
		}
	}

	if t.Backlog < 0 {
		return fmt.Errorf("config: transport.backlog must be >= 0, got %d", t.Backlog)
	}

	return nil
}
