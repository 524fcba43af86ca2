// Package tcp 提供面向连接的流套接字实现
//
// 状态机：
//
//	被动角色: Fresh → Bind → Bound → Listen → Listening ─(Accept 派生)→ Connected
//	主动角色: Fresh → Connect → Connecting → Connected
//	任意状态 → Close → Closed（终态）
//
// 只有一条角色路径能到达 Connected：经由 Connect 的句柄不能
// 再 Bind/Listen，经由 Bind 的句柄不能再 Connect。状态表之外
// 的操作立即失败于 CodeInvalidState，不会下传到操作系统，
// 句柄状态保持不变。
//
// Accept 派生的子句柄是独立所有权的资源，持有自己的默认
// 配置：关闭监听器不影响子句柄，反之亦然。
//
// Go 的 net 包将绑定与监听/拨号耦合在一起，因此 Bind 只记录
// 并校验本地地址，操作系统层的 bind 在 Listen 时发生；
// 地址占用（CodeAddressInUse）相应地在 Listen 返回。
package tcp
