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

package nn

import (
	"encoding/binary"
	"errors"
	"math"
	"strconv"

	"go.nanomsg.org/mangos/v3"
)

// EncodeInt returns the payload of a scalar option, a native endian C int.
func EncodeInt(v int) []byte {
	b := make([]byte, IntSize)
	binary.NativeEndian.PutUint32(b, uint32(int32(v)))
	return b
}

// DecodeInt decodes a scalar option payload.  It reports false if the
// payload is not exactly IntSize bytes.
func DecodeInt(b []byte) (int, bool) {
	if len(b) != IntSize {
		return 0, false
	}
	return int(int32(binary.NativeEndian.Uint32(b))), true
}

var (
	keyDomain   = optKey{SOL_SOCKET, DOMAIN}
	keyProtocol = optKey{SOL_SOCKET, PROTOCOL}
	keyName     = optKey{SOL_SOCKET, SOCKET_NAME}
)

var defaults = map[optKey]int{
	{SOL_SOCKET, LINGER}:            1000,
	{SOL_SOCKET, SNDBUF}:            128 * 1024,
	{SOL_SOCKET, RCVBUF}:            128 * 1024,
	{SOL_SOCKET, SNDTIMEO}:          -1,
	{SOL_SOCKET, RCVTIMEO}:          -1,
	{SOL_SOCKET, RECONNECT_IVL}:     100,
	{SOL_SOCKET, RECONNECT_IVL_MAX}: 0,
	{SOL_SOCKET, SNDPRIO}:           8,
	{SOL_SOCKET, RCVPRIO}:           8,
	{SOL_SOCKET, IPV4ONLY}:          1,
	{SOL_SOCKET, RCVMAXSIZE}:        1024 * 1024,
	{SOL_SOCKET, MAXTTL}:            8,
	{REQ, REQ_RESEND_IVL}:           60000,
	{SURVEYOR, SURVEYOR_DEADLINE}:   1000,
	{TCP, TCP_NODELAY}:              0,
}

func inRange(v, lo, hi int) Errno {
	if v < lo || v > hi {
		return EINVAL
	}
	return 0
}

// engine forwards an option to the protocol engine.  Options that the
// engine does not implement for this pattern are kept by this layer
// alone when optional is set.
func (e *socket) engine(name string, v interface{}, optional bool) Errno {
	err := e.sock.SetOption(name, v)
	if optional && errors.Is(err, mangos.ErrBadOption) {
		return 0
	}
	return errnoOf(err, false)
}

func (e *socket) setSocketOpt(option int, val []byte) Errno {
	if option == SOCKET_NAME {
		if len(val) > maxNameLen {
			return EINVAL
		}
		return 0
	}
	v, ok := DecodeInt(val)
	if !ok {
		return EINVAL
	}
	switch option {
	case LINGER:
		return 0
	case SNDBUF, RCVBUF:
		return inRange(v, 1, math.MaxInt32)
	case SNDTIMEO:
		e.sndtimeo = v
		return 0
	case RCVTIMEO:
		e.rcvtimeo = v
		return 0
	case RECONNECT_IVL:
		if v < 0 {
			return EINVAL
		}
		return e.engine(mangos.OptionReconnectTime, millis(v), false)
	case RECONNECT_IVL_MAX:
		if v < 0 {
			return EINVAL
		}
		return e.engine(mangos.OptionMaxReconnectTime, millis(v), false)
	case SNDPRIO, RCVPRIO:
		return inRange(v, 1, 16)
	case IPV4ONLY:
		return inRange(v, 0, 1)
	case RCVMAXSIZE:
		if v < -1 {
			return EINVAL
		}
		if v < 0 {
			v = 0
		}
		return e.engine(mangos.OptionMaxRecvSize, v, false)
	case MAXTTL:
		if errno := inRange(v, 1, 255); errno != 0 {
			return errno
		}
		return e.engine(mangos.OptionTTL, v, true)
	}
	return ENOPROTOOPT
}

func (e *socket) setProtoOpt(level, option int, val []byte) Errno {
	if level != e.proto {
		return ENOPROTOOPT
	}
	switch {
	case level == SUB && option == SUB_SUBSCRIBE:
		return e.engine(mangos.OptionSubscribe, append([]byte{}, val...), false)
	case level == SUB && option == SUB_UNSUBSCRIBE:
		return e.engine(mangos.OptionUnsubscribe, append([]byte{}, val...), false)
	}

	v, ok := DecodeInt(val)
	if !ok {
		return EINVAL
	}
	switch {
	case level == REQ && option == REQ_RESEND_IVL:
		if v < 0 {
			return EINVAL
		}
		return e.engine(mangos.OptionRetryTime, millis(v), false)
	case level == SURVEYOR && option == SURVEYOR_DEADLINE:
		if v <= 0 {
			return EINVAL
		}
		return e.engine(mangos.OptionSurveyTime, millis(v), false)
	}
	return ENOPROTOOPT
}

func (e *socket) setTCPOpt(option int, val []byte) Errno {
	if option != TCP_NODELAY {
		return ENOPROTOOPT
	}
	v, ok := DecodeInt(val)
	if !ok {
		return EINVAL
	}
	if errno := inRange(v, 0, 1); errno != 0 {
		return errno
	}
	e.nodelay = v == 1
	return 0
}

// SetSockOpt sets an option.  Scalar options take an IntSize payload
// (see EncodeInt); the socket name and subscriptions take arbitrary
// bytes.  TCP options apply to endpoints added after the call.
func SetSockOpt(s, level, option int, val []byte) int {
	e, errno := lookup(s)
	if errno != 0 {
		return fail(errno)
	}
	e.Lock()
	defer e.Unlock()

	switch level {
	case SOL_SOCKET:
		errno = e.setSocketOpt(option, val)
	case TCP:
		errno = e.setTCPOpt(option, val)
	default:
		errno = e.setProtoOpt(level, option, val)
	}
	if errno != 0 {
		return fail(errno)
	}
	if level != SUB {
		e.vals[optKey{level, option}] = append([]byte{}, val...)
	}
	return 0
}

// GetSockOpt copies the current value of an option into val, and
// returns the length of the value.  A value longer than val is
// truncated.  Subscriptions are write-only.
func GetSockOpt(s, level, option int, val []byte) int {
	e, errno := lookup(s)
	if errno != 0 {
		return fail(errno)
	}
	e.Lock()
	defer e.Unlock()

	if level != SOL_SOCKET && level != TCP && level != e.proto {
		return fail(ENOPROTOOPT)
	}
	key := optKey{level, option}
	var data []byte
	switch {
	case key == keyDomain:
		data = EncodeInt(e.domain)
	case key == keyProtocol:
		data = EncodeInt(e.proto)
	case e.vals[key] != nil:
		data = e.vals[key]
	case key == keyName:
		data = []byte(strconv.Itoa(e.fd))
	default:
		v, ok := defaults[key]
		if !ok {
			return fail(ENOPROTOOPT)
		}
		data = EncodeInt(v)
	}
	copy(val, data)
	return len(data)
}
