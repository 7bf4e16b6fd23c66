package webnode

import (
	"testing"

	"github.com/cwbudde/algo-limiter/dsp/limiter"
)

func TestCreateIssuesDistinctHandles(t *testing.T) {
	r := NewRegistry()

	h1 := r.Create(48000)
	h2 := r.Create(44100)

	if h1 == InvalidHandle || h2 == InvalidHandle {
		t.Fatal("Create must never issue the invalid handle")
	}

	if h1 == h2 {
		t.Fatal("handles must be distinct")
	}

	if r.Limiter(h1).SampleRate() != 48000 || r.Limiter(h2).SampleRate() != 44100 {
		t.Error("handles resolve to wrong instances")
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	r := NewRegistry()

	h := r.Create(48000)
	r.Destroy(h)

	if r.Limiter(h) != nil {
		t.Fatal("destroyed handle still resolves")
	}

	// Double destroy and absent handles are no-ops.
	r.Destroy(h)
	r.Destroy(InvalidHandle)
	r.Destroy(9999)
}

func TestDestroyDoesNotResurrect(t *testing.T) {
	r := NewRegistry()

	h := r.Create(48000)
	r.Destroy(h)

	// A later Create must not hand back a live instance under the old handle.
	h2 := r.Create(48000)
	if h2 == h {
		t.Fatal("handle reuse resurrected a destroyed instance")
	}
}

func TestOperationsOnAbsentHandleAreNoOps(t *testing.T) {
	r := NewRegistry()

	out := []float32{5, 5}
	r.Process(1234, out, []float32{2, 2}, 1, 2)

	if out[0] != 5 || out[1] != 5 {
		t.Error("Process on absent handle wrote output")
	}

	r.SetParams(1234, limiter.DefaultParams()) // must not panic
}

func TestProcessThroughRegistry(t *testing.T) {
	r := NewRegistry()
	h := r.Create(48000)

	out := make([]float32, 2)
	r.Process(h, out, []float32{2, 2}, 1, 2)

	ceiling := r.Limiter(h).CeilingLinear()
	if out[0] > ceiling || out[1] > ceiling {
		t.Errorf("registry processing did not limit: %v", out)
	}

	r.SetParams(h, limiter.Params{CeilingDB: -12, ReleaseMs: 50, StereoLink: true})
	if got := r.Limiter(h).Params().CeilingDB; got != -12 {
		t.Errorf("SetParams not forwarded: ceiling = %v", got)
	}
}
