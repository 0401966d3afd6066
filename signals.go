package sexpr

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for processor events.
var (
	SignalProcessorCreated = capitan.NewSignal("sexpr.processor.created", "Processor instantiated")
	SignalDecodeStart      = capitan.NewSignal("sexpr.decode.start", "Decode operation beginning")
	SignalDecodeComplete   = capitan.NewSignal("sexpr.decode.complete", "Decode operation finished")
	SignalEncodeStart      = capitan.NewSignal("sexpr.encode.start", "Encode operation beginning")
	SignalEncodeComplete   = capitan.NewSignal("sexpr.encode.complete", "Encode operation finished")
	SignalExportStart      = capitan.NewSignal("sexpr.export.start", "Export operation beginning")
	SignalExportComplete   = capitan.NewSignal("sexpr.export.complete", "Export operation finished")
	SignalImportStart      = capitan.NewSignal("sexpr.import.start", "Import operation beginning")
	SignalImportComplete   = capitan.NewSignal("sexpr.import.complete", "Import operation finished")
)

// Keys for typed event data.
var (
	KeyShape       = capitan.NewStringKey("shape")
	KeyContentType = capitan.NewStringKey("content_type")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitProcessorCreated emits an event when a processor is created.
func emitProcessorCreated(ctx context.Context, shape string) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyShape.Field(shape),
	)
}

// emitDecodeStart emits an event when decode begins.
func emitDecodeStart(ctx context.Context, shape, contentType string) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeyShape.Field(shape),
		KeyContentType.Field(contentType),
	)
}

// emitDecodeComplete emits an event when decode finishes.
func emitDecodeComplete(ctx context.Context, shape, contentType string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyShape.Field(shape),
		KeyContentType.Field(contentType),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}

// emitEncodeStart emits an event when encode begins.
func emitEncodeStart(ctx context.Context, shape, contentType string) {
	capitan.Emit(ctx, SignalEncodeStart,
		KeyShape.Field(shape),
		KeyContentType.Field(contentType),
	)
}

// emitEncodeComplete emits an event when encode finishes.
func emitEncodeComplete(ctx context.Context, shape, contentType string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyShape.Field(shape),
		KeyContentType.Field(contentType),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}

// emitExportStart emits an event when export begins.
func emitExportStart(ctx context.Context, shape, contentType string) {
	capitan.Emit(ctx, SignalExportStart,
		KeyShape.Field(shape),
		KeyContentType.Field(contentType),
	)
}

// emitExportComplete emits an event when export finishes.
func emitExportComplete(ctx context.Context, shape, contentType string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyShape.Field(shape),
		KeyContentType.Field(contentType),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalExportComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalExportComplete, fields...)
	}
}

// emitImportStart emits an event when import begins.
func emitImportStart(ctx context.Context, shape, contentType string) {
	capitan.Emit(ctx, SignalImportStart,
		KeyShape.Field(shape),
		KeyContentType.Field(contentType),
	)
}

// emitImportComplete emits an event when import finishes.
func emitImportComplete(ctx context.Context, shape, contentType string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyShape.Field(shape),
		KeyContentType.Field(contentType),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalImportComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalImportComplete, fields...)
	}
}
