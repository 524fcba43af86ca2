// Package netaddr 提供地址解析的核心实现
//
// 本模块对应 pkg/interfaces/netaddr 接口包。解析器接受 IP 字面量
// 或 DNS 名称，产出不可变的 *types.Address。netaddr 位于依赖
// 层次的底层，只依赖 errmap。
package netaddr

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/dep2p/go-socket/internal/core/errmap"
	netaddrif "github.com/dep2p/go-socket/pkg/interfaces/netaddr"
	"github.com/dep2p/go-socket/pkg/types"
)

// ============================================================================
//                              配置
// ============================================================================

// Config 解析器配置
type Config struct {
	// DNSServer 显式 DNS 服务器（host:port，端口缺省为 53）
	//
	// 为空时走系统解析器。
	DNSServer string

	// Timeout 单次解析超时，0 表示不限制
	Timeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Timeout: 5 * time.Second,
	}
}

// ============================================================================
//                              Resolver 实现
// ============================================================================

// SystemResolver 地址解析器
//
// IP 字面量走快速路径，不触发任何网络 I/O；DNS 名称经由
// 系统解析器或配置的显式 DNS 服务器解析，失败立即上抛，
// 不做内部重试。
type SystemResolver struct {
	cfg    Config
	sys    *net.Resolver
	client *dns.Client
}

// 确保实现接口
var _ netaddrif.Resolver = (*SystemResolver)(nil)

// New 创建解析器
func New(cfg Config) *SystemResolver {
	return &SystemResolver{
		cfg:    cfg,
		sys:    net.DefaultResolver,
		client: &dns.Client{Timeout: cfg.Timeout},
	}
}

// Resolve 解析主机与端口
//
// 端口在任何解析动作发生前校验，越界快速失败于
// CodeInvalidArgument。DNS 返回多条记录时取底层解析器
// 给出的第一条可用记录。
func (r *SystemResolver) Resolve(ctx context.Context, host string, port int) (*types.Address, error) {
	if port < 0 || port > 65535 {
		return nil, types.Errorf(types.CodeInvalidArgument, "resolve", "port %d out of range [0, 65535]", port)
	}
	if host == "" {
		return nil, types.Errorf(types.CodeInvalidArgument, "resolve", "empty host")
	}

	// IP 字面量快速路径
	if ip := net.ParseIP(host); ip != nil {
		return types.NewAddress(ip, port)
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	ip, err := r.lookup(ctx, host)
	if err != nil {
		return nil, &types.Error{
			Code:  types.CodeAddressResolutionFailed,
			Errno: errmap.Errno(err),
			Op:    "resolve",
			Err:   err,
		}
	}

	return types.NewAddress(ip, port)
}

// lookup 执行名称解析，返回第一条可用记录
func (r *SystemResolver) lookup(ctx context.Context, host string) (net.IP, error) {
	if r.cfg.DNSServer != "" {
		return r.lookupDirect(ctx, host)
	}

	ips, err := r.sys.LookupIP(ctx, "ip", host)
	if err != nil {
		return nil, err
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("no addresses for %s", host)
	}
	return ips[0], nil
}

// lookupDirect 直接向配置的 DNS 服务器查询
//
// 先查 A 记录，无结果再查 AAAA。
func (r *SystemResolver) lookupDirect(ctx context.Context, host string) (net.IP, error) {
	server := withDefaultPort(r.cfg.DNSServer)

	if ip, err := r.query(ctx, server, host, dns.TypeA); err == nil {
		return ip, nil
	}

	ip, err := r.query(ctx, server, host, dns.TypeAAAA)
	if err != nil {
		return nil, fmt.Errorf("no address records for %s via %s: %w", host, server, err)
	}
	return ip, nil
}

// query 发起单次 DNS 查询并取第一条地址记录
func (r *SystemResolver) query(ctx context.Context, server, host string, qtype uint16) (net.IP, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), qtype)

	in, _, err := r.client.ExchangeContext(ctx, m, server)
	if err != nil {
		return nil, err
	}
	if in.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("dns rcode %s", dns.RcodeToString[in.Rcode])
	}

	for _, rr := range in.Answer {
		switch rec := rr.(type) {
		case *dns.A:
			return rec.A, nil
		case *dns.AAAA:
			return rec.AAAA, nil
		}
	}
	return nil, fmt.Errorf("empty answer")
}

// withDefaultPort 补全缺省的 DNS 端口
func withDefaultPort(server string) string {
	if _, _, err := net.SplitHostPort(server); err != nil {
		return net.JoinHostPort(server, "53")
	}
	return server
}
