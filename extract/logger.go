// SPDX-License-Identifier: EPL-2.0

package extract

import (
	"log/slog"
	"sync/atomic"

	"github.com/go-logr/logr"
)

var globalLog atomic.Pointer[slog.Logger]

func getLogger() *slog.Logger {
	if l := globalLog.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// SetLogger overrides the package logger used by extractors created without
// WithLogger. Any logr compatible logger works; the zero logr.Logger restores
// slog.Default.
func SetLogger(l logr.Logger) {
	if l.GetSink() == nil {
		globalLog.Store(nil)
		return
	}
	globalLog.Store(slog.New(logr.ToSlogHandler(l)))
}
