package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/adrianmross/regionsel/internal/metrics"
	ipcmsg "github.com/adrianmross/regionsel/pkg/ipc"
	"k8s.io/klog/v2"
)

// HandlerFunc processes a request and returns a response payload or error.
type HandlerFunc func(req ipcmsg.Request) (interface{}, error)

// Listen removes a stale socket and listens on socketPath.
func Listen(socketPath string) (net.Listener, error) {
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	if err := os.Chmod(socketPath, 0o600); err != nil {
		ln.Close()
		return nil, fmt.Errorf("chmod socket: %w", err)
	}
	return ln, nil
}

// Serve starts a Unix socket server and handles requests with the provided handler.
func Serve(socketPath string, handler HandlerFunc) error {
	ln, err := Listen(socketPath)
	if err != nil {
		return err
	}
	return ServeListener(ln, handler)
}

// ServeListener accepts connections on ln until it is closed.
func ServeListener(ln net.Listener, handler HandlerFunc) error {
	defer ln.Close()
	klog.InfoS("IPC server listening", "addr", ln.Addr().String())
	for {
		conn, err := ln.Accept()
		if errors.Is(err, net.ErrClosed) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		go handleConn(conn, handler)
	}
}

func handleConn(c net.Conn, handler HandlerFunc) {
	defer c.Close()
	rw := bufio.NewReadWriter(bufio.NewReader(c), bufio.NewWriter(c))
	for {
		line, err := rw.ReadBytes('\n')
		if err != nil {
			return
		}
		var req ipcmsg.Request
		if err := json.Unmarshal(line, &req); err != nil {
			klog.V(2).InfoS("Rejecting malformed IPC request", "err", err)
			metrics.RequestsTotal.WithLabelValues("ipc", "invalid", "error").Inc()
			writeResp(rw, ipcmsg.Response{OK: false, Error: "invalid request"})
			continue
		}
		start := time.Now()
		data, err := handler(req)
		metrics.RequestDuration.WithLabelValues("ipc", req.Method).Observe(time.Since(start).Seconds())
		if err != nil {
			klog.V(2).InfoS("IPC request failed", "method", req.Method, "err", err)
			metrics.RequestsTotal.WithLabelValues("ipc", req.Method, "error").Inc()
			writeResp(rw, ipcmsg.Response{OK: false, Error: err.Error()})
			continue
		}
		metrics.RequestsTotal.WithLabelValues("ipc", req.Method, "ok").Inc()
		writeResp(rw, ipcmsg.Response{OK: true, Data: data})
	}
}

func writeResp(w *bufio.ReadWriter, resp ipcmsg.Response) {
	b, err := json.Marshal(resp)
	if err != nil {
		klog.ErrorS(err, "Encoding IPC response")
		return
	}
	b = append(b, '\n')
	_, _ = w.Write(b)
	_ = w.Flush()
}

// ErrNotImplemented is returned for unknown methods.
var ErrNotImplemented = errors.New("method not implemented")
