package bootstrap

import (
	"context"

	"github.com/oshokin/pmd-bootstrap/internal/logger"
	"github.com/oshokin/pmd-bootstrap/internal/service/fetch"
)

const (
	// progressStepPercent is how often a transfer with known size is logged.
	progressStepPercent = 10
	// progressStepBytes is how often a transfer with unknown size is logged.
	progressStepBytes = 1 << 20
)

// progressLogger returns a fetch.ProgressFunc that logs at debug level in coarse steps.
// A new transfer is detected when the written counter goes back or the total changes.
func progressLogger(ctx context.Context) fetch.ProgressFunc {
	var lastWritten, lastTotal, lastMark int64

	return func(written, total int64) {
		if written < lastWritten || total != lastTotal {
			lastMark = 0
		}

		lastWritten, lastTotal = written, total

		if total > 0 {
			percent := written * 100 / total
			if percent/progressStepPercent > lastMark || written == total {
				lastMark = percent / progressStepPercent
				logger.DebugKV(ctx, "Downloading", "percent", percent, "bytes", written)
			}

			return
		}

		if written/progressStepBytes > lastMark {
			lastMark = written / progressStepBytes
			logger.DebugKV(ctx, "Downloading", "bytes", written)
		}
	}
}
