// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x11

import (
	"fmt"
	"log"
	"os"
)

// PrintLog controls whether the x11 package emits diagnostics to stderr.
// By default, it is enabled.
var PrintLog = true

// Logger is the package's diagnostic logger. Only best-effort failures and
// protocol noise that nobody waits for end up here; real failures are
// returned as errors.
var Logger = newLogger()

// xlog is a wrapper around a log.Logger so we can control whether it should
// output anything.
type xlog struct {
	*log.Logger
}

func newLogger() xlog {
	return xlog{log.New(os.Stderr, "alerta: ", log.Lshortfile)}
}

func (lg xlog) Print(v ...interface{}) {
	if PrintLog {
		lg.Logger.Output(2, fmt.Sprint(v...))
	}
}

func (lg xlog) Printf(format string, v ...interface{}) {
	if PrintLog {
		lg.Logger.Output(2, fmt.Sprintf(format, v...))
	}
}
