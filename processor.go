package sexpr

import (
	"bytes"
	"context"
	"fmt"
	"time"
)

// ContentType is the MIME type of S-expression documents.
const ContentType = "application/x-sexpr"

// Processor reads and writes documents of one shape, emitting capitan
// events around every operation.
//
// Processors hold only immutable configuration and are safe for concurrent use.
type Processor struct {
	shape    Shape
	name     string
	parser   *Parser
	encoder  Encoder
	decoder  Decoder
	pretty   bool
	indent   string
	hasher   Hasher
	hashAlgo HashAlgo
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithMaxDepth limits list nesting in parsed documents. Zero means unbounded.
func WithMaxDepth(n int) ProcessorOption {
	return func(p *Processor) {
		p.parser = NewParser(WithParseMaxDepth(n))
	}
}

// WithPretty writes encoded documents with nested lists on indented lines.
func WithPretty() ProcessorOption {
	return func(p *Processor) {
		p.pretty = true
	}
}

// WithPrettyIndent is like WithPretty with a custom per-level indent.
func WithPrettyIndent(indent string) ProcessorOption {
	return func(p *Processor) {
		p.pretty = true
		p.indent = indent
	}
}

// WithQuotePolicy selects when encoded strings are quoted.
func WithQuotePolicy(q QuotePolicy) ProcessorOption {
	return func(p *Processor) {
		p.encoder.Quote = q
	}
}

// WithAllowUnknown ignores unconsumed record children while decoding.
func WithAllowUnknown() ProcessorOption {
	return func(p *Processor) {
		p.decoder.AllowUnknown = true
	}
}

// WithHasher sets the hasher used by Fingerprint.
func WithHasher(h Hasher) ProcessorOption {
	return func(p *Processor) {
		p.hasher = h
	}
}

// WithHashAlgo selects a builtin hasher for Fingerprint.
func WithHashAlgo(algo HashAlgo) ProcessorOption {
	return func(p *Processor) {
		p.hashAlgo = algo
	}
}

// NewProcessor creates a Processor for documents of shape s.
// Lazy shapes are resolved here so that later calls see a settled shape.
func NewProcessor(s Shape, opts ...ProcessorOption) (*Processor, error) {
	if s == nil {
		return nil, ErrNilShape
	}
	rs := resolve(s)
	if err := checkShape(rs); err != nil {
		return nil, err
	}

	p := &Processor{
		shape:    rs,
		name:     rs.Name(),
		parser:   defaultParser,
		indent:   "  ",
		hashAlgo: HashSHA256,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.hasher == nil {
		if !IsValidHashAlgo(p.hashAlgo) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownHashAlgo, p.hashAlgo)
		}
		p.hasher = builtinHashers()[p.hashAlgo]
	}

	emitProcessorCreated(context.Background(), p.name)
	return p, nil
}

// Shape returns the processor's shape.
func (p *Processor) Shape() Shape {
	return p.shape
}

// Decode parses data and reads it as the processor's shape.
func (p *Processor) Decode(ctx context.Context, data []byte) (Value, error) {
	start := time.Now()
	emitDecodeStart(ctx, p.name, ContentType)

	var retErr error
	defer func() {
		emitDecodeComplete(ctx, p.name, ContentType, len(data), time.Since(start), retErr)
	}()

	v, err := p.decode(data)
	if err != nil {
		retErr = err
		return nil, err
	}
	return v, nil
}

// Encode renders v as a document of the processor's shape.
func (p *Processor) Encode(ctx context.Context, v Value) ([]byte, error) {
	start := time.Now()
	emitEncodeStart(ctx, p.name, ContentType)

	var (
		out    []byte
		retErr error
	)
	defer func() {
		emitEncodeComplete(ctx, p.name, ContentType, len(out), time.Since(start), retErr)
	}()

	out, retErr = p.encode(v)
	if retErr != nil {
		return nil, retErr
	}
	return out, nil
}

// Export decodes an S-expression document and re-encodes it with codec to,
// e.g. JSON or YAML.
func (p *Processor) Export(ctx context.Context, data []byte, to Codec) ([]byte, error) {
	start := time.Now()
	emitExportStart(ctx, p.name, to.ContentType())

	var (
		out    []byte
		retErr error
	)
	defer func() {
		emitExportComplete(ctx, p.name, to.ContentType(), len(out), time.Since(start), retErr)
	}()

	v, err := p.decode(data)
	if err != nil {
		retErr = err
		return nil, err
	}
	x, err := ToInterface(v, p.shape)
	if err != nil {
		retErr = err
		return nil, err
	}
	out, err = to.Marshal(x)
	if err != nil {
		retErr = fmt.Errorf("marshal failed: %w", err)
		return nil, retErr
	}
	return out, nil
}

// Import decodes data with codec from and renders it as an S-expression
// document of the processor's shape.
func (p *Processor) Import(ctx context.Context, data []byte, from Codec) ([]byte, error) {
	start := time.Now()
	emitImportStart(ctx, p.name, from.ContentType())

	var (
		out    []byte
		retErr error
	)
	defer func() {
		emitImportComplete(ctx, p.name, from.ContentType(), len(out), time.Since(start), retErr)
	}()

	var x any
	if err := from.Unmarshal(data, &x); err != nil {
		retErr = fmt.Errorf("unmarshal failed: %w", err)
		return nil, retErr
	}
	v, err := FromInterface(x, p.shape)
	if err != nil {
		retErr = err
		return nil, err
	}
	out, err = p.encode(v)
	if err != nil {
		retErr = err
		return nil, err
	}
	return out, nil
}

// Fingerprint parses data and hashes its canonical rendering.
// The document must also decode as the processor's shape.
func (p *Processor) Fingerprint(_ context.Context, data []byte) (string, error) {
	n, err := p.parser.Parse(string(data))
	if err != nil {
		return "", err
	}
	if _, err := p.decoder.Decode(n, p.shape); err != nil {
		return "", err
	}
	return Fingerprint(n, p.hasher)
}

func (p *Processor) decode(data []byte) (Value, error) {
	n, err := p.parser.Parse(string(data))
	if err != nil {
		return nil, err
	}
	return p.decoder.Decode(n, p.shape)
}

func (p *Processor) encode(v Value) ([]byte, error) {
	n, err := p.encoder.Encode(v, p.shape)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	opts := []WriteOption{WithIndent(p.indent)}
	if p.pretty {
		opts = append(opts, WithPrettyOutput())
	}
	if err := NewWriter(&buf, opts...).WriteNode(n); err != nil {
		return nil, fmt.Errorf("write failed: %w", err)
	}
	return buf.Bytes(), nil
}
