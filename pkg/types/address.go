// Package types 定义跨组件共享的基础类型
//
// types 位于依赖层次的底层，不依赖其他包，
// 可被 netaddr、transport 等接口包和实现包引用。
package types

import (
	"net"
	"strconv"
)

// ============================================================================
//                              地址族
// ============================================================================

// Family 地址族
type Family uint8

const (
	// FamilyUnspec 未指定
	FamilyUnspec Family = iota

	// FamilyIPv4 IPv4
	FamilyIPv4

	// FamilyIPv6 IPv6
	FamilyIPv6
)

// String 返回地址族名称
func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ip4"
	case FamilyIPv6:
		return "ip6"
	default:
		return "unspec"
	}
}

// ============================================================================
//                              Address 已解析地址
// ============================================================================

// Address 平台无关的已解析网络地址
//
// Address 由解析器产出后不可变：要么解析成功得到完整填充的值，
// 要么调用方收到错误，不存在部分填充的 Address。
//
// 解析是单向的：Host 返回数字形式的可打印地址，而非原始主机名。
type Address struct {
	family Family
	ip     net.IP
	port   int
	host   string // 可打印地址缓存
}

// NewAddress 从 IP 和端口创建地址
//
// 端口越界返回 CodeInvalidArgument 错误。
func NewAddress(ip net.IP, port int) (*Address, error) {
	if port < 0 || port > 65535 {
		return nil, Errorf(CodeInvalidArgument, "new_address", "port %d out of range [0, 65535]", port)
	}
	if ip == nil {
		return nil, Errorf(CodeInvalidArgument, "new_address", "nil ip")
	}

	family := FamilyIPv6
	if ip.To4() != nil {
		family = FamilyIPv4
	}

	return &Address{
		family: family,
		ip:     ip,
		port:   port,
		host:   ip.String(),
	}, nil
}

// FromUDPAddr 从 net.UDPAddr 创建地址
func FromUDPAddr(addr *net.UDPAddr) (*Address, error) {
	if addr == nil {
		return nil, Errorf(CodeInvalidArgument, "from_udp_addr", "nil addr")
	}
	return NewAddress(addr.IP, addr.Port)
}

// FromTCPAddr 从 net.TCPAddr 创建地址
func FromTCPAddr(addr *net.TCPAddr) (*Address, error) {
	if addr == nil {
		return nil, Errorf(CodeInvalidArgument, "from_tcp_addr", "nil addr")
	}
	return NewAddress(addr.IP, addr.Port)
}

// FromNetAddr 从 net.Addr 创建地址
func FromNetAddr(addr net.Addr) (*Address, error) {
	switch a := addr.(type) {
	case *net.UDPAddr:
		return FromUDPAddr(a)
	case *net.TCPAddr:
		return FromTCPAddr(a)
	default:
		return nil, Errorf(CodeInvalidArgument, "from_net_addr", "unsupported addr type %T", addr)
	}
}

// ============================================================================
//                              读访问器
// ============================================================================

// populated 检查地址是否经由解析器完整填充
//
// 按所有权模型此检查应当不可达，仅防御零值 Address。
func (a *Address) populated() bool {
	return a != nil && a.ip != nil
}

// Host 返回可打印的数字地址（非原始主机名）
func (a *Address) Host() (string, error) {
	if !a.populated() {
		return "", Errorf(CodeInvalidArgument, "host", "address not populated")
	}
	return a.host, nil
}

// Port 返回端口号
func (a *Address) Port() (int, error) {
	if !a.populated() {
		return 0, Errorf(CodeInvalidArgument, "port", "address not populated")
	}
	return a.port, nil
}

// Family 返回地址族
func (a *Address) Family() Family {
	if !a.populated() {
		return FamilyUnspec
	}
	return a.family
}

// IP 返回 IP 的副本
func (a *Address) IP() net.IP {
	if !a.populated() {
		return nil
	}
	ip := make(net.IP, len(a.ip))
	copy(ip, a.ip)
	return ip
}

// Network 返回网络类型，"ip4" 或 "ip6"
func (a *Address) Network() string {
	return a.Family().String()
}

// String 返回 host:port 格式字符串，用于日志和调试
func (a *Address) String() string {
	if !a.populated() {
		return "<nil>"
	}
	return net.JoinHostPort(a.host, strconv.Itoa(a.port))
}

// Equal 比较两个地址是否相等
func (a *Address) Equal(other *Address) bool {
	if !a.populated() || !other.populated() {
		return false
	}
	return a.ip.Equal(other.ip) && a.port == other.port
}

// IsLoopback 是否是回环地址
func (a *Address) IsLoopback() bool {
	return a.populated() && a.ip.IsLoopback()
}

// IsPrivate 是否是私网地址
func (a *Address) IsPrivate() bool {
	return a.populated() && a.ip.IsPrivate()
}

// IsPublic 是否是公网地址
func (a *Address) IsPublic() bool {
	if !a.populated() {
		return false
	}
	return !a.ip.IsLoopback() && !a.ip.IsPrivate() && !a.ip.IsLinkLocalUnicast() && !a.ip.IsUnspecified()
}

// ============================================================================
//                              net 转换
// ============================================================================

// UDPAddr 转换为 net.UDPAddr
func (a *Address) UDPAddr() *net.UDPAddr {
	if !a.populated() {
		return nil
	}
	return &net.UDPAddr{IP: a.IP(), Port: a.port}
}

// TCPAddr 转换为 net.TCPAddr
func (a *Address) TCPAddr() *net.TCPAddr {
	if !a.populated() {
		return nil
	}
	return &net.TCPAddr{IP: a.IP(), Port: a.port}
}
