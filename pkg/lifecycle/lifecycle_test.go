package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/scriba-dms/scriba/pkg/lifecycle"
)

func TestReadyAfterStartup(t *testing.T) {
	lc := lifecycle.New()

	var ran atomic.Bool
	lc.OnStartup(func() { ran.Store(true) })

	if lc.Ready() {
		t.Fatal("coordinator ready before WaitForStartup")
	}

	lc.WaitForStartup()

	if !ran.Load() {
		t.Error("startup hook did not run")
	}
	if !lc.Ready() {
		t.Error("coordinator not ready after WaitForStartup")
	}
}

func TestShutdownRunsHooks(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}
	if !cleaned.Load() {
		t.Error("shutdown hook did not run")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	block := make(chan struct{})
	lc.OnShutdown(func() { <-block })

	if err := lc.Shutdown(10 * time.Millisecond); err == nil {
		t.Error("Shutdown() = nil, want timeout error")
	}
	close(block)
}
