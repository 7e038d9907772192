// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errNumber = errors.New("number syntax error")

// parseNumber parses a number with an optional base prefix: '$' or "0x"
// for hexadecimal, "0b" for binary and "0d" for decimal. Unprefixed
// numbers are decimal, or hexadecimal when hexMode is set. A leading '-'
// negates the value.
func parseNumber(s string, hexMode bool) (int64, error) {
	num, neg := s, false
	if strings.HasPrefix(num, "-") {
		num, neg = num[1:], true
	}

	base := 10
	if hexMode {
		base = 16
	}

	switch {
	case strings.HasPrefix(num, "$"):
		base, num = 16, num[1:]
	case len(num) > 2 && num[0] == '0':
		switch num[1] {
		case 'x', 'X':
			base, num = 16, num[2:]
		case 'b', 'B':
			if !hexMode {
				base, num = 2, num[2:]
			}
		case 'd', 'D':
			if !hexMode {
				base, num = 10, num[2:]
			}
		}
	}

	if num == "" {
		return 0, fmt.Errorf("%w: '%s'", errNumber, s)
	}
	v, err := strconv.ParseInt(num, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: '%s'", errNumber, s)
	}
	if neg {
		v = -v
	}
	return v, nil
}

func stringToBool(s string) (bool, error) {
	s = strings.ToLower(s)
	switch s {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value '%s'", s)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var hexString = "0123456789ABCDEF"

func addrToBuf(addr uint16, b []byte) {
	b[0] = hexString[(addr>>12)&0xf]
	b[1] = hexString[(addr>>8)&0xf]
	b[2] = hexString[(addr>>4)&0xf]
	b[3] = hexString[addr&0xf]
}

func byteToBuf(v byte, b []byte) {
	b[0] = hexString[(v>>4)&0xf]
	b[1] = hexString[v&0xf]
}

func toPrintableChar(v byte) byte {
	switch {
	case v >= 32 && v < 127:
		return v
	case v >= 160 && v < 255:
		return v - 128
	default:
		return '.'
	}
}
