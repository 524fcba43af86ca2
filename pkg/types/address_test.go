package types

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewAddress 测试地址创建
func TestNewAddress(t *testing.T) {
	t.Run("IPv4", func(t *testing.T) {
		addr, err := NewAddress(net.ParseIP("192.168.1.10"), 8080)
		require.NoError(t, err)

		host, err := addr.Host()
		require.NoError(t, err)
		assert.Equal(t, "192.168.1.10", host)

		port, err := addr.Port()
		require.NoError(t, err)
		assert.Equal(t, 8080, port)

		assert.Equal(t, FamilyIPv4, addr.Family())
	})

	t.Run("IPv6", func(t *testing.T) {
		addr, err := NewAddress(net.ParseIP("::1"), 443)
		require.NoError(t, err)

		assert.Equal(t, FamilyIPv6, addr.Family())
		assert.Equal(t, "[::1]:443", addr.String())
	})

	t.Run("PortOutOfRange", func(t *testing.T) {
		_, err := NewAddress(net.ParseIP("127.0.0.1"), 65536)
		require.Error(t, err)
		assert.Equal(t, CodeInvalidArgument, CodeOf(err))

		_, err = NewAddress(net.ParseIP("127.0.0.1"), -1)
		require.Error(t, err)
		assert.Equal(t, CodeInvalidArgument, CodeOf(err))
	})

	t.Run("NilIP", func(t *testing.T) {
		_, err := NewAddress(nil, 80)
		require.Error(t, err)
		assert.Equal(t, CodeInvalidArgument, CodeOf(err))
	})
}

// TestAddress_FromNetAddr 测试从 net.Addr 转换
func TestAddress_FromNetAddr(t *testing.T) {
	t.Run("UDP", func(t *testing.T) {
		addr, err := FromNetAddr(&net.UDPAddr{IP: net.ParseIP("10.0.0.1"), Port: 53})
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.1:53", addr.String())
	})

	t.Run("TCP", func(t *testing.T) {
		addr, err := FromNetAddr(&net.TCPAddr{IP: net.ParseIP("10.0.0.2"), Port: 80})
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.2:80", addr.String())
	})

	t.Run("Unsupported", func(t *testing.T) {
		_, err := FromNetAddr(&net.UnixAddr{Name: "/tmp/x.sock", Net: "unix"})
		require.Error(t, err)
		assert.Equal(t, CodeInvalidArgument, CodeOf(err))
	})
}

// TestAddress_ZeroValue 测试零值地址的防御行为
func TestAddress_ZeroValue(t *testing.T) {
	var addr Address

	_, err := addr.Host()
	assert.Equal(t, CodeInvalidArgument, CodeOf(err))

	_, err = addr.Port()
	assert.Equal(t, CodeInvalidArgument, CodeOf(err))

	assert.Equal(t, FamilyUnspec, addr.Family())
	assert.Nil(t, addr.IP())
	assert.Nil(t, addr.UDPAddr())
	assert.Nil(t, addr.TCPAddr())
	assert.Equal(t, "<nil>", addr.String())
}

// TestAddress_Equal 测试地址比较
func TestAddress_Equal(t *testing.T) {
	a, err := NewAddress(net.ParseIP("127.0.0.1"), 9000)
	require.NoError(t, err)
	b, err := NewAddress(net.ParseIP("127.0.0.1"), 9000)
	require.NoError(t, err)
	c, err := NewAddress(net.ParseIP("127.0.0.1"), 9001)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

// TestAddress_IPCopy 测试 IP 访问器返回副本
func TestAddress_IPCopy(t *testing.T) {
	addr, err := NewAddress(net.ParseIP("127.0.0.1"), 80)
	require.NoError(t, err)

	ip := addr.IP()
	ip[0] = 0

	// 修改副本不影响原地址
	assert.Equal(t, "127.0.0.1:80", addr.String())
}

// TestAddress_Classification 测试地址分类
func TestAddress_Classification(t *testing.T) {
	loop, _ := NewAddress(net.ParseIP("127.0.0.1"), 0)
	assert.True(t, loop.IsLoopback())
	assert.False(t, loop.IsPublic())

	private, _ := NewAddress(net.ParseIP("192.168.0.1"), 0)
	assert.True(t, private.IsPrivate())
	assert.False(t, private.IsPublic())

	public, _ := NewAddress(net.ParseIP("8.8.8.8"), 0)
	assert.True(t, public.IsPublic())
	assert.False(t, public.IsLoopback())

	t.Log("✅ 地址类型测试通过")
}
