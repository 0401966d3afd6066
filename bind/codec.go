package bind

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/zoobzio/sexpr"
)

// bindCodec implements sexpr.Codec for Go values bound by struct tags.
type bindCodec struct {
	opts []sexpr.ProcessorOption

	mu    sync.RWMutex
	procs map[reflect.Type]*sexpr.Processor
}

// New returns a codec that reads and writes Go values as S-expression
// documents. Processor options apply to every type the codec handles.
func New(opts ...sexpr.ProcessorOption) sexpr.Codec {
	return &bindCodec{
		opts:  opts,
		procs: make(map[reflect.Type]*sexpr.Processor),
	}
}

var defaultCodec = New(sexpr.WithQuotePolicy(sexpr.QuoteStrings))

// Marshal writes v as a compact document, quoting every string that is not
// a plain identifier.
func Marshal(v any) ([]byte, error) {
	return defaultCodec.Marshal(v)
}

// Unmarshal reads data into the value v points to.
func Unmarshal(data []byte, v any) error {
	return defaultCodec.Unmarshal(data, v)
}

// ContentType returns the MIME type of S-expression documents.
func (c *bindCodec) ContentType() string {
	return sexpr.ContentType
}

// Marshal encodes v.
func (c *bindCodec) Marshal(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedType)
	}
	proc, err := c.processor(rv.Type())
	if err != nil {
		return nil, err
	}
	val, err := toValue(rv)
	if err != nil {
		return nil, err
	}
	return proc.Encode(context.Background(), val)
}

// Unmarshal decodes data into the value v points to.
func (c *bindCodec) Unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotPointer
	}
	proc, err := c.processor(rv.Type().Elem())
	if err != nil {
		return err
	}
	val, err := proc.Decode(context.Background(), data)
	if err != nil {
		return err
	}
	return fromValue(val, rv.Elem())
}

func (c *bindCodec) processor(rt reflect.Type) (*sexpr.Processor, error) {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	c.mu.RLock()
	if proc, ok := c.procs[rt]; ok {
		c.mu.RUnlock()
		return proc, nil
	}
	c.mu.RUnlock()

	s, err := ShapeFor(rt)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if proc, ok := c.procs[rt]; ok {
		return proc, nil
	}
	proc, err := sexpr.NewProcessor(s, c.opts...)
	if err != nil {
		return nil, err
	}
	c.procs[rt] = proc
	return proc, nil
}
