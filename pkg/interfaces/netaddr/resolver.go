// Package netaddr 定义地址解析的基础接口
//
// 本包提供无依赖的 Resolver 接口，可被 transport 等包引用，
// 避免循环依赖问题。
package netaddr

import (
	"context"

	"github.com/dep2p/go-socket/pkg/types"
)

// Resolver 地址解析器接口
//
// Resolver 将主机字符串与端口号解析为平台无关的 *types.Address。
// 主机可以是 IP 字面量（v4 或 v6），也可以是 DNS 名称。
type Resolver interface {
	// Resolve 解析主机与端口
	//
	// 端口在解析前校验，越界立即返回 CodeInvalidArgument。
	// DNS 返回多条记录时，确定性地选取底层解析器给出的
	// 第一条可用记录。解析失败立即返回
	// CodeAddressResolutionFailed，内部不做重试，重试策略
	// 留给调用方。
	//
	// 可能阻塞在网络 / DNS I/O 上，通过 ctx 控制取消与超时。
	Resolve(ctx context.Context, host string, port int) (*types.Address, error)
}
