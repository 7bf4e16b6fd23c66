//go:build js && wasm

// Command wasm exposes the limiter node to a JavaScript host as a global
// AlgoLimiter object. Handles are plain integers; 0 means "absent" and every
// call on an absent handle is a no-op, mirroring the registry contract.
package main

import (
	"syscall/js"

	"github.com/cwbudde/algo-limiter/dsp/buffer"
	"github.com/cwbudde/algo-limiter/dsp/limiter"
	"github.com/cwbudde/algo-limiter/internal/webnode"
)

var (
	registry = webnode.NewRegistry()
	blocks   = buffer.NewPool()
	funcs    []js.Func
)

func main() {
	api := js.Global().Get("Object").New()

	api.Set("create", export(func(args []js.Value) any {
		sr := 48000.0
		if len(args) > 0 {
			sr = args[0].Float()
		}
		return int(registry.Create(sr))
	}))

	api.Set("destroy", export(func(args []js.Value) any {
		if len(args) < 1 {
			return js.Null()
		}
		registry.Destroy(uint32(args[0].Int()))
		return js.Null()
	}))

	api.Set("setParams", export(func(args []js.Value) any {
		if len(args) < 6 {
			return js.Null()
		}
		registry.SetParams(uint32(args[0].Int()), limiter.Params{
			CeilingDB: args[1].Float(),
			ReleaseMs: args[2].Float(),
			MakeupDB:  args[3].Float(),
			// Hosts pass integer flags; any nonzero value means true.
			Bypass:     args[4].Int() != 0,
			StereoLink: args[5].Int() != 0,
		})
		return js.Null()
	}))

	api.Set("process", export(func(args []js.Value) any {
		if len(args) < 4 {
			return js.Global().Get("Float32Array").New(0)
		}

		handle := uint32(args[0].Int())
		input := args[1]
		frames := args[2].Int()
		channels := args[3].Int()

		n := input.Length()
		in := blocks.Get(n)
		out := blocks.Get(n)
		defer blocks.Put(in)
		defer blocks.Put(out)

		for i := 0; i < n; i++ {
			in.Samples()[i] = float32(input.Index(i).Float())
		}

		registry.Process(handle, out.Samples(), in.Samples(), frames, channels)

		result := js.Global().Get("Float32Array").New(n)
		for i, v := range out.Samples() {
			result.SetIndex(i, v)
		}
		return result
	}))

	api.Set("allocBytes", export(func(args []js.Value) any {
		if len(args) < 1 {
			return int(webnode.InvalidHandle)
		}
		return int(registry.AllocBytes(args[0].Int()))
	}))

	api.Set("freeBytes", export(func(args []js.Value) any {
		if len(args) < 2 {
			return js.Null()
		}
		registry.FreeBytes(uint32(args[0].Int()), args[1].Int())
		return js.Null()
	}))

	js.Global().Set("AlgoLimiter", api)
	select {}
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
