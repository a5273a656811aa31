package pensel

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/holmestyler/pensel/internal/logging"
)

func TestFatalHandlerDebugVariantPetsWatchdog(t *testing.T) {
	logCfg := logging.DefaultConfig()
	logCfg.Output = io.Discard
	wdg := &StubWatchdog{}
	h := NewFatalHandler(logging.NewLogger(logCfg), wdg, true)

	done := make(chan struct{})
	go func() {
		h.Fatal(ComError, NewError("system.start", ComError, "port gone"))
		close(done)
	}()

	<-h.Halted()
	h.Release()
	<-done

	assert.GreaterOrEqual(t, wdg.Pets(), uint64(1))
}

func TestFatalHandlerReleaseIsIdempotent(t *testing.T) {
	h := NewFatalHandler(nil, nil, false)
	h.Release()
	h.Release()

	done := make(chan struct{})
	go func() {
		h.Fatal(GenError, nil)
		close(done)
	}()
	<-done
	<-h.Halted()
}

func TestStubWatchdogCounts(t *testing.T) {
	var w StubWatchdog
	w.Pet()
	w.Pet()
	assert.EqualValues(t, 2, w.Pets())
}
