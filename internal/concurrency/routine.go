package concurrency

import (
	"log/slog"
	"runtime/debug"
	"sync"
)

// SafeGo runs a function in a goroutine with panic recovery.
func SafeGo(name string, fn func(), onPanic func(any)) {
	go run(name, fn, onPanic)
}

func run(name string, fn func(), onPanic func(any)) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic recovered", "routine", name, "panic", r, "stack", string(debug.Stack()))
			if onPanic != nil {
				onPanic(r)
			}
		}
	}()
	fn()
}

// Group tracks goroutines started with Go so an owner can wait for all of
// them to return after cancelling their context.
type Group struct {
	wg sync.WaitGroup
}

// Go starts fn with the same panic recovery as SafeGo.
func (g *Group) Go(name string, fn func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		run(name, fn, nil)
	}()
}

func (g *Group) Wait() {
	g.wg.Wait()
}
