// Copyright 2026 The Mangos Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// format is how received messages are written out.
type format string

const (
	formatNone    format = "no"
	formatRaw     format = "raw"
	formatASCII   format = "ascii"
	formatQuoted  format = "quoted"
	formatMsgpack format = "msgpack"
)

func parseFormat(s string) (format, error) {
	switch f := format(s); f {
	case formatNone, formatRaw, formatASCII, formatQuoted, formatMsgpack:
		return f, nil
	}
	return "", errors.Errorf("invalid format type %q", s)
}

// writeMsg writes body to w in format f.
func writeMsg(w io.Writer, f format, body []byte) error {
	bw := bufio.NewWriter(w)
	switch f {
	case formatNone:
		return nil
	case formatRaw:
		bw.Write(body)
	case formatASCII:
		for _, c := range body {
			if strconv.IsPrint(rune(c)) {
				bw.WriteByte(c)
			} else {
				bw.WriteByte('.')
			}
		}
		bw.WriteByte('\n')
	case formatQuoted:
		bw.WriteByte('"')
		for _, c := range body {
			switch c {
			case '\n':
				bw.WriteString(`\n`)
			case '\r':
				bw.WriteString(`\r`)
			case '\\':
				bw.WriteString(`\\`)
			case '"':
				bw.WriteString(`\"`)
			default:
				if c < 0x80 && strconv.IsPrint(rune(c)) {
					bw.WriteByte(c)
				} else {
					fmt.Fprintf(bw, `\x%02x`, c)
				}
			}
		}
		bw.WriteString("\"\n")
	case formatMsgpack:
		bw.Write(msgpackHeader(len(body)))
		bw.Write(body)
	default:
		return errors.Errorf("invalid format type %q", f)
	}
	return bw.Flush()
}

// msgpackHeader returns the bin 8/16/32 header for n bytes.
func msgpackHeader(n int) []byte {
	switch {
	case n < 1<<8:
		return []byte{0xc4, byte(n)}
	case n < 1<<16:
		enc := []byte{0xc5, 0, 0}
		binary.BigEndian.PutUint16(enc[1:], uint16(n))
		return enc
	}
	enc := []byte{0xc6, 0, 0, 0, 0}
	binary.BigEndian.PutUint32(enc[1:], uint32(n))
	return enc
}
