package bind

import (
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
	"github.com/zoobzio/sexpr"
)

var (
	shapes  = make(map[reflect.Type]sexpr.Shape)
	plans   = make(map[reflect.Type]*structPlan)
	shapeMu sync.RWMutex

	processors  = make(map[reflect.Type]*sexpr.Processor)
	processorMu sync.RWMutex
)

// ShapeOf returns the shape of T.
func ShapeOf[T any]() (sexpr.Shape, error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() == reflect.Struct {
		sentinel.Scan[T]()
	}
	return ShapeFor(rt)
}

// ShapeFor returns the shape of rt. Shapes are built once per type and
// cached; pointer types share the shape of their element.
func ShapeFor(rt reflect.Type) (sexpr.Shape, error) {
	// Fast path: read-lock cache check
	shapeMu.RLock()
	if s, ok := shapes[rt]; ok {
		shapeMu.RUnlock()
		return s, nil
	}
	shapeMu.RUnlock()

	// Slow path: build and cache with write-lock
	shapeMu.Lock()
	defer shapeMu.Unlock()

	// Double-check pattern
	if s, ok := shapes[rt]; ok {
		return s, nil
	}

	b := &builder{plans: plans, building: make(map[reflect.Type]*structPlan)}
	s, err := b.shapeOf(rt)
	if err != nil {
		return nil, err
	}
	for t, p := range b.building {
		plans[t] = p
	}
	shapes[rt] = s
	return s, nil
}

// planFor returns the binding of struct type rt, building it if needed.
func planFor(rt reflect.Type) (*structPlan, error) {
	shapeMu.RLock()
	p, ok := plans[rt]
	shapeMu.RUnlock()
	if ok {
		return p, nil
	}

	if _, err := ShapeFor(rt); err != nil {
		return nil, err
	}
	shapeMu.RLock()
	defer shapeMu.RUnlock()
	return plans[rt], nil
}

// Use returns a cached processor for T or builds a new one.
// Options only apply when the processor is first built.
func Use[T any](opts ...sexpr.ProcessorOption) (*sexpr.Processor, error) {
	rt := reflect.TypeFor[T]()

	processorMu.RLock()
	if cached, ok := processors[rt]; ok {
		processorMu.RUnlock()
		return cached, nil
	}
	processorMu.RUnlock()

	s, err := ShapeOf[T]()
	if err != nil {
		return nil, err
	}

	processorMu.Lock()
	defer processorMu.Unlock()

	if cached, ok := processors[rt]; ok {
		return cached, nil
	}

	proc, err := sexpr.NewProcessor(s, opts...)
	if err != nil {
		return nil, err
	}
	processors[rt] = proc
	return proc, nil
}

// Reset clears the shape and processor caches.
// This is primarily useful for test isolation.
func Reset() {
	shapeMu.Lock()
	shapes = make(map[reflect.Type]sexpr.Shape)
	plans = make(map[reflect.Type]*structPlan)
	shapeMu.Unlock()

	processorMu.Lock()
	processors = make(map[reflect.Type]*sexpr.Processor)
	processorMu.Unlock()
}
