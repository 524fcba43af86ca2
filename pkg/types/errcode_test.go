package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrorCode_String 测试错误码的字符串表示
func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected string
	}{
		{CodeUnknown, "unknown"},
		{CodeAddressResolutionFailed, "address_resolution_failed"},
		{CodeInvalidArgument, "invalid_argument"},
		{CodeSocketCreateFailed, "socket_create_failed"},
		{CodeBindFailed, "bind_failed"},
		{CodeAddressInUse, "address_in_use"},
		{CodeListenFailed, "listen_failed"},
		{CodeAcceptFailed, "accept_failed"},
		{CodeConnectRefused, "connect_refused"},
		{CodeConnectTimeout, "connect_timeout"},
		{CodeNetworkUnreachable, "network_unreachable"},
		{CodeConnectionReset, "connection_reset"},
		{CodeBrokenPipe, "broken_pipe"},
		{CodeWouldBlock, "would_block"},
		{CodeTimeout, "timeout"},
		{CodeInvalidState, "invalid_state"},
		{CodeReleaseFailed, "release_failed"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.code.String())
	}

	// 越界的错误码退化为 unknown
	assert.Equal(t, "unknown", ErrorCode(999).String())
}

// TestError_ErrorMessage 测试错误消息格式
func TestError_ErrorMessage(t *testing.T) {
	t.Run("WithWrapped", func(t *testing.T) {
		inner := errors.New("connection refused")
		err := NewError(CodeConnectRefused, "connect", inner)
		assert.Contains(t, err.Error(), "connect")
		assert.Contains(t, err.Error(), "connect_refused")
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("WithoutWrapped", func(t *testing.T) {
		err := Errorf(CodeInvalidArgument, "bind", "port %d out of range", 70000)
		assert.Contains(t, err.Error(), "invalid_argument")
		assert.Contains(t, err.Error(), "port 70000 out of range")
	})
}

// TestError_Unwrap 测试错误链展开
func TestError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := NewError(CodeBindFailed, "bind", inner)

	assert.True(t, errors.Is(err, inner))
	assert.Equal(t, inner, errors.Unwrap(err))
}

// TestError_Is 测试按错误码匹配
func TestError_Is(t *testing.T) {
	err := NewError(CodeTimeout, "recv", errors.New("i/o timeout"))
	target := &Error{Code: CodeTimeout}

	assert.True(t, errors.Is(err, target))
	assert.False(t, errors.Is(err, &Error{Code: CodeBrokenPipe}))
}

// TestError_TimeoutTemporary 测试超时与临时性判定
func TestError_TimeoutTemporary(t *testing.T) {
	timeout := NewError(CodeTimeout, "recv", nil)
	assert.True(t, timeout.Timeout())
	assert.True(t, timeout.Temporary())

	connTimeout := NewError(CodeConnectTimeout, "connect", nil)
	assert.True(t, connTimeout.Timeout())

	wouldBlock := NewError(CodeWouldBlock, "send", nil)
	assert.False(t, wouldBlock.Timeout())
	assert.True(t, wouldBlock.Temporary())

	refused := NewError(CodeConnectRefused, "connect", nil)
	assert.False(t, refused.Timeout())
	assert.False(t, refused.Temporary())
}

// TestCodeOf 测试从错误链中提取错误码
func TestCodeOf(t *testing.T) {
	err := NewError(CodeAddressInUse, "listen", errors.New("address already in use"))
	wrapped := fmt.Errorf("listen loopback: %w", err)

	assert.Equal(t, CodeAddressInUse, CodeOf(wrapped))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
	assert.Equal(t, CodeUnknown, CodeOf(nil))
}

// TestErrnoOf 测试从错误链中提取平台错误号
func TestErrnoOf(t *testing.T) {
	err := &Error{Code: CodeConnectionReset, Errno: 104, Op: "recv"}
	require.Equal(t, 104, ErrnoOf(err))
	assert.Equal(t, 0, ErrnoOf(errors.New("plain")))

	t.Log("✅ 错误码类型测试通过")
}
