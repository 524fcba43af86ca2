// Package socket 提供跨平台的套接字抽象
//
// socket 在操作系统套接字 API 之上提供一个正确性与可移植层：
// 统一的地址解析、无连接数据报传输（UDP）与面向连接的
// 字节流传输（TCP），屏蔽平台间在套接字表示、错误码和
// 关闭语义上的差异。
//
// 三个入口：
//
//	// 地址解析
//	addr, err := socket.Resolve(ctx, "example.com", 80)
//
//	// 独立句柄（调用方自行管理生命周期）
//	s := socket.NewStreamSocket()
//	defer s.Close()
//
//	// 装配完整的 Stack（统一配置、流量统计、兜底释放）
//	st, err := socket.New(socket.WithDialTimeout(10 * time.Second))
//
// 本包不是完整的网络栈：不做拥塞控制、TLS 或事件循环，
// 只忠实保留操作系统套接字栈与 DNS 解析器的语义。
package socket
