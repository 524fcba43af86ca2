//go:build windows

package errmap

import (
	"strings"

	"golang.org/x/sys/windows"
)

// errnoText 查询 Windows 错误号表
//
// FormatMessage 查不到的错误号返回 ok == false，
// 由调用方生成回退文本。
func errnoText(code int) (string, bool) {
	if code <= 0 {
		return "", false
	}
	msg := windows.Errno(code).Error()
	// FormatMessage 失败时 Errno.Error 自身会回退为 "winapi error #..."
	if strings.HasPrefix(msg, "winapi error") {
		return "", false
	}
	return msg, true
}
