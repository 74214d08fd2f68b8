// Package safe_close coordinates the shutdown of cooperating goroutines.
// Package safe_close 协调多个协程的有序关闭。
package safe_close

import (
	"sync"
)

// SafeClose broadcasts a close signal to attached goroutines and waits
// until every one of them reports done.
// SafeClose 向挂载的协程广播关闭信号，并等待它们全部完成。
type SafeClose struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	closed chan struct{}
	err    error
}

// NewSafeClose 创建 SafeClose 实例
func NewSafeClose() *SafeClose {
	return &SafeClose{
		closed: make(chan struct{}),
	}
}

// Attach runs f in a new goroutine.
// Attach 在新协程中运行 f。
// f must call done() exactly once when it has finished its cleanup, and
// should start shutting down as soon as closeSignal is readable.
// f 必须在清理完成后恰好调用一次 done()，并在 closeSignal 可读时开始关闭。
func (s *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var once sync.Once
	done := func() {
		once.Do(s.wg.Done)
	}
	go f(done, s.closed)
}

// SendCloseSignal signals all attached goroutines to shut down.
// SendCloseSignal 通知所有挂载的协程开始关闭。
// The first non-nil err wins, repeated calls are no-ops.
// 第一个非 nil 的 err 生效，重复调用无效果。
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.closed:
		return
	default:
	}
	s.err = err
	close(s.closed)
}

// CloseSignal 返回关闭信号通道
func (s *SafeClose) CloseSignal() <-chan struct{} {
	return s.closed
}

// WaitClosed blocks until every attached goroutine has called done,
// and returns the error passed to SendCloseSignal, if any.
// WaitClosed 阻塞直到所有挂载协程完成，返回 SendCloseSignal 传入的错误。
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
