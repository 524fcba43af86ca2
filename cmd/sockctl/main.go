// Package main 提供 sockctl 命令行入口
//
// sockctl 是 go-socket 的诊断工具，用于快速验证地址解析与
// 数据报 / 流传输：
//
//	sockctl -mode resolve -host example.com -port 80
//	sockctl -mode udp-echo -port 9000
//	sockctl -mode udp-send -host 127.0.0.1 -port 9000 -payload ping
//	sockctl -mode tcp-echo -port 9001
//	sockctl -mode tcp-send -host 127.0.0.1 -port 9001 -payload hello
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	socket "github.com/dep2p/go-socket"
	"github.com/dep2p/go-socket/pkg/lib/log"
)

var logger = log.Logger("sockctl")

var (
	mode    = flag.String("mode", "resolve", "运行模式 (resolve/udp-echo/udp-send/tcp-echo/tcp-send)")
	host    = flag.String("host", "127.0.0.1", "目标主机或绑定地址")
	port    = flag.Int("port", 0, "端口号")
	payload = flag.String("payload", "ping", "发送的数据")
	dns     = flag.String("dns", "", "显式 DNS 服务器 (host:port)")
	timeout = flag.Duration("timeout", 10*time.Second, "操作超时")
	version = flag.Bool("version", false, "打印版本信息")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println(socket.VersionInfo())
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := []socket.Option{
		socket.WithDialTimeout(*timeout),
		socket.WithReadTimeout(*timeout),
	}
	if *dns != "" {
		opts = append(opts, socket.WithDNSServer(*dns))
	}

	st, err := socket.New(opts...)
	if err != nil {
		logger.Error("装配失败", "error", err)
		os.Exit(1)
	}
	if err := st.Start(ctx); err != nil {
		logger.Error("启动失败", "error", err)
		os.Exit(1)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		_ = st.Stop(stopCtx)
	}()

	var runErr error
	switch *mode {
	case "resolve":
		runErr = runResolve(ctx, st)
	case "udp-echo":
		runErr = runUDPEcho(ctx, st)
	case "udp-send":
		runErr = runUDPSend(ctx, st)
	case "tcp-echo":
		runErr = runTCPEcho(ctx, st)
	case "tcp-send":
		runErr = runTCPSend(ctx, st)
	default:
		runErr = fmt.Errorf("unknown mode %q", *mode)
	}

	if runErr != nil {
		logger.Error("执行失败", "mode", *mode, "error", runErr,
			"code", socket.CodeOf(runErr), "errno", socket.ErrnoOf(runErr))
		if errno := socket.ErrnoOf(runErr); errno != 0 {
			logger.Error("平台错误描述", "describe", socket.Describe(errno))
		}
		os.Exit(1)
	}
}

// runResolve 解析并打印地址
func runResolve(ctx context.Context, st *socket.Stack) error {
	addr, err := st.Resolve(ctx, *host, *port)
	if err != nil {
		return err
	}
	h, _ := addr.Host()
	p, _ := addr.Port()
	fmt.Printf("%s -> %s (family=%s port=%d)\n", *host, h, addr.Family(), p)
	return nil
}

// runUDPEcho 绑定并回显收到的每个数据报
func runUDPEcho(ctx context.Context, st *socket.Stack) error {
	local, err := st.Resolve(ctx, *host, *port)
	if err != nil {
		return err
	}

	s, err := st.NewDatagram()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Bind(local); err != nil {
		return err
	}
	logger.Info("数据报回显已启动", "local", s.LocalAddr())

	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	buf := make([]byte, 64*1024)
	for {
		n, src, err := s.RecvFrom(buf, 0)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		logger.Info("收到数据报", "from", src, "bytes", n)
		if _, err := s.SendTo(src, buf[:n], 0); err != nil {
			return err
		}
	}
}

// runUDPSend 发送一个数据报并等待回显
func runUDPSend(ctx context.Context, st *socket.Stack) error {
	dest, err := st.Resolve(ctx, *host, *port)
	if err != nil {
		return err
	}

	s, err := st.NewDatagram()
	if err != nil {
		return err
	}
	defer s.Close()

	// 先绑定临时端口以便接收回显
	wildcard, err := st.Resolve(ctx, "0.0.0.0", 0)
	if err != nil {
		return err
	}
	if err := s.Bind(wildcard); err != nil {
		return err
	}

	if _, err := s.SendTo(dest, []byte(*payload), 0); err != nil {
		return err
	}

	buf := make([]byte, 64*1024)
	n, src, err := s.RecvFrom(buf, 0)
	if err != nil {
		return err
	}
	fmt.Printf("echo from %s: %s\n", src, buf[:n])
	return nil
}

// runTCPEcho 监听并为每个连接回显字节流
func runTCPEcho(ctx context.Context, st *socket.Stack) error {
	local, err := st.Resolve(ctx, *host, *port)
	if err != nil {
		return err
	}

	ln, err := st.NewStream()
	if err != nil {
		return err
	}
	defer ln.Close()

	if err := ln.Bind(local); err != nil {
		return err
	}
	if err := ln.Listen(128); err != nil {
		return err
	}
	logger.Info("流回显已启动", "local", ln.LocalAddr())

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, peer, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		logger.Info("接受连接", "peer", peer)

		go func(c socket.StreamSocket) {
			defer c.Close()
			buf := make([]byte, 32*1024)
			for {
				n, err := c.Recv(buf, 0)
				if err != nil || n == 0 {
					return
				}
				// 部分写由调用方补发
				sent := 0
				for sent < n {
					w, err := c.Send(buf[sent:n], 0)
					if err != nil {
						return
					}
					sent += w
				}
			}
		}(conn)
	}
}

// runTCPSend 连接、发送并等待回显
func runTCPSend(ctx context.Context, st *socket.Stack) error {
	remote, err := st.Resolve(ctx, *host, *port)
	if err != nil {
		return err
	}

	s, err := st.NewStream()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Connect(ctx, remote); err != nil {
		return err
	}

	data := []byte(*payload)
	sent := 0
	for sent < len(data) {
		n, err := s.Send(data[sent:], 0)
		if err != nil {
			return err
		}
		sent += n
	}

	buf := make([]byte, len(data))
	n, err := s.Recv(buf, socket.FlagWaitAll)
	if err != nil {
		return err
	}
	fmt.Printf("echo from %s: %s\n", s.RemoteAddr(), buf[:n])

	snap := st.Stats()
	logger.Info("流量统计", "in", snap.TotalIn, "out", snap.TotalOut)
	return nil
}
