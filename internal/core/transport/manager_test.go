package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-socket/config"
	transportif "github.com/dep2p/go-socket/pkg/interfaces/transport"
	"github.com/dep2p/go-socket/pkg/types"
)

// TestNewManager 测试管理器创建与计数
func TestNewManager(t *testing.T) {
	m := NewManager(NewConfig(), nil)
	defer m.Close()

	assert.False(t, m.IsClosed())
	assert.Equal(t, 0, m.DatagramCount())
	assert.Equal(t, 0, m.StreamCount())

	d, err := m.NewDatagram()
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 1, m.DatagramCount())

	s, err := m.NewStream()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 1, m.StreamCount())
}

// TestManager_PruneClosed 测试调用方关闭后登记项被清理
func TestManager_PruneClosed(t *testing.T) {
	m := NewManager(NewConfig(), nil)
	defer m.Close()

	d, err := m.NewDatagram()
	require.NoError(t, err)
	require.NoError(t, d.Close())

	// 调用方已关闭的句柄在下次计数时被移除
	assert.Equal(t, 0, m.DatagramCount())
}

// TestManager_CloseReleasesAll 测试兜底释放
func TestManager_CloseReleasesAll(t *testing.T) {
	m := NewManager(NewConfig(), nil)

	local, err := types.NewAddress(net.ParseIP("127.0.0.1"), 0)
	require.NoError(t, err)

	d, err := m.NewDatagram()
	require.NoError(t, err)
	require.NoError(t, d.Bind(local))

	s, err := m.NewStream()
	require.NoError(t, err)
	require.NoError(t, s.Bind(local))
	require.NoError(t, s.Listen(8))

	require.NoError(t, m.Close())
	assert.True(t, m.IsClosed())

	// 登记中的套接字被兜底关闭
	assert.Equal(t, transportif.DatagramClosed, d.State())
	assert.Equal(t, transportif.StreamClosed, s.State())
}

// TestManager_CloseIdempotent 测试重复关闭与关闭后创建
func TestManager_CloseIdempotent(t *testing.T) {
	m := NewManager(NewConfig(), nil)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	_, err := m.NewDatagram()
	assert.Equal(t, types.CodeInvalidState, types.CodeOf(err))

	_, err = m.NewStream()
	assert.Equal(t, types.CodeInvalidState, types.CodeOf(err))
}

// TestManager_SkipsCallerClosed 测试兜底释放跳过已关闭句柄
func TestManager_SkipsCallerClosed(t *testing.T) {
	m := NewManager(NewConfig(), nil)

	d, err := m.NewDatagram()
	require.NoError(t, err)
	require.NoError(t, d.Close())

	// 调用方已恰好一次关闭，管理器不重复释放
	require.NoError(t, m.Close())
}

// TestManager_ConfigPropagation 测试配置下发到套接字
func TestManager_ConfigPropagation(t *testing.T) {
	cfg := NewConfig()
	cfg.ReadTimeout = 50 * time.Millisecond

	m := NewManager(cfg, nil)
	defer m.Close()

	local, err := types.NewAddress(net.ParseIP("127.0.0.1"), 0)
	require.NoError(t, err)

	d, err := m.NewDatagram()
	require.NoError(t, err)
	require.NoError(t, d.Bind(local))

	// 读超时生效
	_, _, err = d.RecvFrom(make([]byte, 16), 0)
	require.Error(t, err)
	assert.Equal(t, types.CodeTimeout, types.CodeOf(err))
}

// TestConfigFromUnified 测试统一配置映射
func TestConfigFromUnified(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		cfg := ConfigFromUnified(nil)
		assert.Equal(t, 30*time.Second, cfg.DialTimeout)
		assert.True(t, cfg.NoDelay)
	})

	t.Run("FromUnified", func(t *testing.T) {
		unified := config.NewConfig()
		unified.Transport.DialTimeout = config.Duration(9 * time.Second)
		unified.Transport.NoDelay = false

		cfg := ConfigFromUnified(unified)
		assert.Equal(t, 9*time.Second, cfg.DialTimeout)
		assert.False(t, cfg.NoDelay)
	})

	t.Log("✅ 传输管理器测试通过")
}
