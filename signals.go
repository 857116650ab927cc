package itemserial

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for serial and catalog events.
var (
	SignalCatalogLoaded     = capitan.NewSignal("itemserial.catalog.loaded", "Catalog document loaded")
	SignalBatchStart        = capitan.NewSignal("itemserial.batch.start", "Batch operation beginning")
	SignalBatchComplete     = capitan.NewSignal("itemserial.batch.complete", "Batch operation finished")
	SignalSerialFailed      = capitan.NewSignal("itemserial.serial.failed", "Serial could not be processed")
	SignalSerialUnsupported = capitan.NewSignal("itemserial.serial.unsupported", "Serial format newer than catalog")
)

// Keys for typed event data.
var (
	KeyContentType = capitan.NewStringKey("content_type")
	KeyCompression = capitan.NewStringKey("compression")
	KeyOperation   = capitan.NewStringKey("operation")
	KeySize        = capitan.NewIntKey("size")
	KeyCategories  = capitan.NewIntKey("categories")
	KeyMaxVersion  = capitan.NewIntKey("max_version")
	KeyVersion     = capitan.NewIntKey("version")
	KeyIndex       = capitan.NewIntKey("index")
	KeyCount       = capitan.NewIntKey("count")
	KeyFailed      = capitan.NewIntKey("failed")
	KeyUnsupported = capitan.NewIntKey("unsupported")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitCatalogLoaded emits an event when a catalog load finishes.
func emitCatalogLoaded(ctx context.Context, contentType string, compression Compression, size int, duration time.Duration, catalog *Catalog, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyCompression.Field(string(compression)),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if catalog != nil {
		fields = append(fields,
			KeyCategories.Field(len(catalog.order)),
			KeyMaxVersion.Field(catalog.MaxVersion()),
		)
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalCatalogLoaded, fields...)
	} else {
		capitan.Emit(ctx, SignalCatalogLoaded, fields...)
	}
}

// emitBatchStart emits an event when a batch begins.
func emitBatchStart(ctx context.Context, operation string, count int) {
	capitan.Emit(ctx, SignalBatchStart,
		KeyOperation.Field(operation),
		KeyCount.Field(count),
	)
}

// emitBatchComplete emits an event when a batch finishes.
func emitBatchComplete(ctx context.Context, operation string, count, failed, unsupported int, duration time.Duration) {
	capitan.Emit(ctx, SignalBatchComplete,
		KeyOperation.Field(operation),
		KeyCount.Field(count),
		KeyFailed.Field(failed),
		KeyUnsupported.Field(unsupported),
		KeyDuration.Field(duration),
	)
}

// emitSerialFailed emits an error event for one failed item.
func emitSerialFailed(ctx context.Context, operation string, index int, err error) {
	capitan.Error(ctx, SignalSerialFailed,
		KeyOperation.Field(operation),
		KeyIndex.Field(index),
		KeyError.Field(err),
	)
}

// emitSerialUnsupported emits an event for one item newer than the catalog.
func emitSerialUnsupported(ctx context.Context, operation string, index, version int) {
	capitan.Emit(ctx, SignalSerialUnsupported,
		KeyOperation.Field(operation),
		KeyIndex.Field(index),
		KeyVersion.Field(version),
	)
}
