// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x11

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
)

// As per /usr/include/X11/Xauth.h.
const (
	familyLocal = 256
	familyWild  = 65535
)

// authEntry is one record of an Xauthority file.
type authEntry struct {
	family  uint16
	address string
	display string
	name    string
	data    []byte
}

func getU16BE(r io.Reader, b []byte) (uint16, error) {
	if _, err := io.ReadFull(r, b[0:2]); err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 + uint16(b[1]), nil
}

// getBytes reads a length-prefixed counted string into a fresh slice.
func getBytes(r io.Reader, scratch []byte) ([]byte, error) {
	n, err := getU16BE(r, scratch)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func readAuthEntry(r io.Reader) (*authEntry, error) {
	var scratch [2]byte
	family, err := getU16BE(r, scratch[:])
	if err != nil {
		return nil, err
	}
	var fields [4][]byte
	for i := range fields {
		if fields[i], err = getBytes(r, scratch[:]); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}
	return &authEntry{
		family:  family,
		address: string(fields[0]),
		display: string(fields[1]),
		name:    string(fields[2]),
		data:    fields[3],
	}, nil
}

// authorityFile returns the path of the Xauthority file.
func authorityFile() (string, error) {
	if fname := os.Getenv("XAUTHORITY"); fname != "" {
		return fname, nil
	}
	home := os.Getenv("HOME")
	if home == "" {
		return "", errors.New("Xauthority not found: $XAUTHORITY, $HOME not set")
	}
	return filepath.Join(home, ".Xauthority"), nil
}

// readAuthority reads the X authority file for the display number.
// If hostname == "" or hostname == "localhost", readAuthority uses the
// system's hostname (as returned by os.Hostname) instead.
func readAuthority(hostname, display string) (name string, data []byte, err error) {
	fname, err := authorityFile()
	if err != nil {
		return "", nil, err
	}
	r, err := os.Open(fname)
	if err != nil {
		return "", nil, err
	}
	defer r.Close()
	return findAuthority(bufio.NewReader(r), hostname, display)
}

func findAuthority(r io.Reader, hostname, display string) (string, []byte, error) {
	if hostname == "" || hostname == "localhost" {
		var err error
		if hostname, err = os.Hostname(); err != nil {
			return "", nil, err
		}
	}
	for {
		e, err := readAuthEntry(r)
		if err != nil {
			return "", nil, err
		}
		if e.display != "" && e.display != display {
			continue
		}
		if e.family == familyWild || (e.family == familyLocal && e.address == hostname) {
			return e.name, e.data, nil
		}
	}
}
