// Package stats 提供套接字流量统计
//
// TrafficCounter 跟踪本地端点发送和接收的数据量，
// 使用原子操作实现并发安全的计数器。统计由传输层的
// 收发路径喂入，可通过配置整体关闭。
package stats

import (
	"sync/atomic"

	"github.com/benbjohnson/clock"
)

// Recorder 流量记录接口
//
// 传输套接字持有 Recorder 记录每次成功传输的字节数。
type Recorder interface {
	// LogSent 记录出站传输的字节数
	LogSent(n int64)

	// LogRecv 记录入站传输的字节数
	LogRecv(n int64)
}

// ============================================================================
//                              TrafficCounter
// ============================================================================

// TrafficCounter 流量计数器
type TrafficCounter struct {
	totalIn    atomic.Int64
	totalOut   atomic.Int64
	packetsIn  atomic.Int64
	packetsOut atomic.Int64

	inRate  *RateMeter
	outRate *RateMeter
}

// 确保实现接口
var _ Recorder = (*TrafficCounter)(nil)

// NewTrafficCounter 创建流量计数器
func NewTrafficCounter(clk clock.Clock) *TrafficCounter {
	return &TrafficCounter{
		inRate:  NewRateMeter(clk),
		outRate: NewRateMeter(clk),
	}
}

// LogSent 记录出站传输的字节数
func (tc *TrafficCounter) LogSent(n int64) {
	tc.totalOut.Add(n)
	tc.packetsOut.Add(1)
	tc.outRate.Add(n)
}

// LogRecv 记录入站传输的字节数
func (tc *TrafficCounter) LogRecv(n int64) {
	tc.totalIn.Add(n)
	tc.packetsIn.Add(1)
	tc.inRate.Add(n)
}

// ============================================================================
//                              快照
// ============================================================================

// Snapshot 统计快照
type Snapshot struct {
	// TotalIn 累计入站字节数
	TotalIn int64

	// TotalOut 累计出站字节数
	TotalOut int64

	// PacketsIn 累计入站传输次数
	PacketsIn int64

	// PacketsOut 累计出站传输次数
	PacketsOut int64

	// RateIn 最近 60 秒入站平均速率（字节/秒）
	RateIn float64

	// RateOut 最近 60 秒出站平均速率（字节/秒）
	RateOut float64
}

// Snapshot 返回当前统计快照
func (tc *TrafficCounter) Snapshot() Snapshot {
	return Snapshot{
		TotalIn:    tc.totalIn.Load(),
		TotalOut:   tc.totalOut.Load(),
		PacketsIn:  tc.packetsIn.Load(),
		PacketsOut: tc.packetsOut.Load(),
		RateIn:     tc.inRate.Rate(),
		RateOut:    tc.outRate.Rate(),
	}
}
