package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-socket/config"
)

// TestRateMeter 测试速率计算
func TestRateMeter(t *testing.T) {
	mock := clock.NewMock()
	r := NewRateMeter(mock)

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, 0.0, r.Rate())
	})

	t.Run("SteadyTraffic", func(t *testing.T) {
		// 每秒 600 字节，窗口平均应为 600 字节/秒
		for i := 0; i < 60; i++ {
			r.Add(600)
			mock.Add(time.Second)
		}
		assert.InDelta(t, 600.0, r.Rate(), 11.0)
	})

	t.Run("DecayAfterIdle", func(t *testing.T) {
		// 超过 60 秒无数据后窗口清空
		mock.Add(61 * time.Second)
		assert.Equal(t, 0.0, r.Rate())
	})

	t.Run("Reset", func(t *testing.T) {
		r.Add(1000)
		r.Reset()
		assert.Equal(t, 0.0, r.Rate())
	})
}

// TestTrafficCounter 测试流量计数
func TestTrafficCounter(t *testing.T) {
	mock := clock.NewMock()
	tc := NewTrafficCounter(mock)

	tc.LogSent(100)
	tc.LogSent(50)
	tc.LogRecv(30)

	snap := tc.Snapshot()
	assert.Equal(t, int64(150), snap.TotalOut)
	assert.Equal(t, int64(30), snap.TotalIn)
	assert.Equal(t, int64(2), snap.PacketsOut)
	assert.Equal(t, int64(1), snap.PacketsIn)
}

// TestTrafficCounter_Concurrent 测试并发记录
func TestTrafficCounter_Concurrent(t *testing.T) {
	tc := NewTrafficCounter(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tc.LogSent(10)
				tc.LogRecv(5)
			}
		}()
	}
	wg.Wait()

	snap := tc.Snapshot()
	assert.Equal(t, int64(8000), snap.TotalOut)
	assert.Equal(t, int64(4000), snap.TotalIn)
	assert.Equal(t, int64(800), snap.PacketsOut)
	assert.Equal(t, int64(800), snap.PacketsIn)

	t.Log("✅ 流量统计测试通过")
}

// TestNewTrafficCounterFromParams 测试统计开关
func TestNewTrafficCounterFromParams(t *testing.T) {
	t.Run("DefaultEnabled", func(t *testing.T) {
		tc := NewTrafficCounterFromParams(Params{})
		require.NotNil(t, tc)
	})

	t.Run("Disabled", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.Stats.Enabled = false
		tc := NewTrafficCounterFromParams(Params{UnifiedCfg: cfg})
		assert.Nil(t, tc)
	})
}
