package observability

import (
	"errors"
	"testing"
	"time"
)

type recordingEngine struct {
	NoopEngineHooks
	starts    int
	skipped   []string
	processed []string
	failures  int
	completes int
}

func (r *recordingEngine) OnRunStart(int)            { r.starts++ }
func (r *recordingEngine) OnNodeSkipped(_, n string) { r.skipped = append(r.skipped, n) }
func (r *recordingEngine) OnNodeProcessed(_, n string, _ time.Duration, err error) {
	r.processed = append(r.processed, n)
	if err != nil {
		r.failures++
	}
}
func (r *recordingEngine) OnRunComplete(time.Duration, int, int) { r.completes++ }

type recordingCache struct {
	NoopCacheHooks
	hits, misses, sets int
}

func (r *recordingCache) OnCacheHit(string)       { r.hits++ }
func (r *recordingCache) OnCacheMiss(string)      { r.misses++ }
func (r *recordingCache) OnCacheSet(string, int)  { r.sets++ }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()

	// Must not panic.
	Engine().OnRunStart(1)
	Engine().OnNodeSkipped("blur", "soften")
	Engine().OnNodeProcessed("blur", "soften", time.Millisecond, nil)
	Engine().OnRunComplete(time.Millisecond, 1, 0)
	Cache().OnCacheHit("run")
	Cache().OnCacheMiss("run")
	Cache().OnCacheSet("run", 10)
}

func TestSetAndReset(t *testing.T) {
	defer Reset()

	eng := &recordingEngine{}
	ch := &recordingCache{}
	SetEngineHooks(eng)
	SetCacheHooks(ch)

	Engine().OnRunStart(3)
	Engine().OnNodeSkipped("source", "in")
	Engine().OnNodeProcessed("blur", "soften", time.Millisecond, nil)
	Engine().OnNodeProcessed("sink", "out", time.Millisecond, errors.New("boom"))
	Engine().OnRunComplete(time.Millisecond, 1, 1)

	if eng.starts != 1 || eng.completes != 1 {
		t.Errorf("starts=%d completes=%d", eng.starts, eng.completes)
	}
	if len(eng.skipped) != 1 || eng.skipped[0] != "in" {
		t.Errorf("skipped = %v", eng.skipped)
	}
	if len(eng.processed) != 2 || eng.failures != 1 {
		t.Errorf("processed=%v failures=%d", eng.processed, eng.failures)
	}

	Cache().OnCacheHit("run")
	Cache().OnCacheMiss("artifact")
	Cache().OnCacheSet("run", 128)
	if ch.hits != 1 || ch.misses != 1 || ch.sets != 1 {
		t.Errorf("cache hooks = %+v", ch)
	}

	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset should restore noop engine hooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset should restore noop cache hooks")
	}
}

func TestSetNilIsIgnored(t *testing.T) {
	defer Reset()

	eng := &recordingEngine{}
	SetEngineHooks(eng)
	SetEngineHooks(nil)
	Engine().OnRunStart(1)
	if eng.starts != 1 {
		t.Error("nil registration should not replace existing hooks")
	}

	ch := &recordingCache{}
	SetCacheHooks(ch)
	SetCacheHooks(nil)
	Cache().OnCacheHit("run")
	if ch.hits != 1 {
		t.Error("nil registration should not replace existing hooks")
	}
}
