// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x11

import (
	"bytes"
	"regexp"
	"runtime"
	"strconv"
	"testing"
	"time"
)

// stack returns a formatted stack trace of all goroutines.
// It calls runtime.Stack with a large enough buffer to capture the entire trace.
func stack() []byte {
	buf := make([]byte, 1024)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			return buf[:n]
		}
		buf = make([]byte, 2*len(buf))
	}
}

var regexpId = regexp.MustCompile(`^\s*goroutine\s*(\d+)`)

// goroutines maps goroutine ids to their stacks.
func goroutines() map[int][]byte {
	res := make(map[int][]byte)
	for _, st := range bytes.Split(stack(), []byte{'\n', '\n'}) {
		m := regexpId.FindSubmatch(st)
		if len(m) < 2 {
			continue
		}
		id, err := strconv.Atoi(string(m[1]))
		if err != nil {
			continue
		}
		res[id] = st
	}
	return res
}

type leaks struct {
	name       string
	goroutines map[int][]byte
}

func leaksMonitor(name string) leaks {
	return leaks{name, goroutines()}
}

// leakingGoroutines returns the goroutines started since the monitor was
// created that are still running.
func (l leaks) leakingGoroutines() [][]byte {
	var res [][]byte
	for id, st := range goroutines() {
		if _, ok := l.goroutines[id]; !ok {
			res = append(res, st)
		}
	}
	return res
}

// checkTesting reports goroutines that are still running after a grace
// period.
func (l leaks) checkTesting(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for {
		lgrs := l.leakingGoroutines()
		if len(lgrs) == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Errorf("%s: %d goroutine leaks", l.name, len(lgrs))
			for _, st := range lgrs {
				t.Log(string(st))
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}
