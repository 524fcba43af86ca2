//go:build !windows

package errmap

import "golang.org/x/sys/unix"

// errnoText 查询 Unix 错误号表
//
// 无对应表项的错误号返回 ok == false，由调用方生成回退文本。
func errnoText(code int) (string, bool) {
	if code <= 0 {
		return "", false
	}
	e := unix.Errno(code)
	if unix.ErrnoName(e) == "" {
		return "", false
	}
	return e.Error(), true
}
