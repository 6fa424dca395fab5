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

package nnsock

import (
	"fmt"
	"strings"
	"time"

	"nanomsg.org/go/nnsock/nn"
)

// Option is a configurable socket behavior, used with SetOption and
// GetOption.
type Option uint8

const (
	// Linger is how long Close waits for queued messages to drain.
	// The value is in milliseconds.
	Linger Option = iota + 1

	// SendBuffer is the size of the send buffer in bytes.
	SendBuffer

	// ReceiveBuffer is the size of the receive buffer in bytes.
	ReceiveBuffer

	// ReceiveMaxSize is the largest message accepted from a peer, in
	// bytes.  -1 removes the limit.
	ReceiveMaxSize

	// SendTimeout bounds blocking sends, in milliseconds.  -1 (the
	// default) waits forever.
	SendTimeout

	// ReceiveTimeout bounds blocking receives, in milliseconds.  -1
	// (the default) waits forever.
	ReceiveTimeout

	// ReconnectInterval is the wait before redialing a lost or refused
	// connection, in milliseconds.
	ReconnectInterval

	// ReconnectIntervalMax caps the exponential growth of the reconnect
	// interval, in milliseconds.  Zero disables the growth.
	ReconnectIntervalMax

	// SendPriority is the priority, 1 (highest) to 16, of endpoints
	// added after it is set when sending.
	SendPriority

	// ReceivePriority is the priority, 1 (highest) to 16, of endpoints
	// added after it is set when receiving.
	ReceivePriority

	// IPv4Only restricts name resolution to IPv4 when non-zero.
	IPv4Only

	// SocketName is a human readable name for the socket.
	SocketName

	// TTL is the maximum number of devices a message may traverse.
	TTL

	// Subscribe adds a topic prefix to a Sub socket.  The empty topic
	// matches every message.
	Subscribe

	// Unsubscribe removes a topic prefix from a Sub socket.
	Unsubscribe

	// RequestResendInterval is how long a Req socket waits for a reply
	// before sending the request again, in milliseconds.
	RequestResendInterval

	// SurveyorDeadline is how long a Surveyor socket collects responses
	// to a survey, in milliseconds.
	SurveyorDeadline

	// TCPNoDelay disables Nagle's algorithm on TCP endpoints added after
	// it is set.
	TCPNoDelay
)

// Options lists every Option.
var Options = []Option{
	Linger, SendBuffer, ReceiveBuffer, ReceiveMaxSize, SendTimeout,
	ReceiveTimeout, ReconnectInterval, ReconnectIntervalMax, SendPriority,
	ReceivePriority, IPv4Only, SocketName, TTL, Subscribe, Unsubscribe,
	RequestResendInterval, SurveyorDeadline, TCPNoDelay,
}

// Shape is the payload encoding of an option.
type Shape uint8

// Shapes.
const (
	// ShapeInt is a native C int.
	ShapeInt Shape = iota + 1
	// ShapeMillis is a native C int holding milliseconds.
	ShapeMillis
	// ShapeBytes is a variable length byte sequence.
	ShapeBytes
)

func (s Shape) String() string {
	switch s {
	case ShapeInt:
		return "int"
	case ShapeMillis:
		return "ms"
	case ShapeBytes:
		return "bytes"
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

// Mapping is the native address and payload shape of an Option.
type Mapping struct {
	Level int
	ID    int
	Shape Shape
}

// Native returns the mapping of the option onto the native option space.
// It panics if o is not one of the declared options.
func (o Option) Native() Mapping {
	switch o {
	case Linger:
		return Mapping{nn.SOL_SOCKET, nn.LINGER, ShapeMillis}
	case SendBuffer:
		return Mapping{nn.SOL_SOCKET, nn.SNDBUF, ShapeInt}
	case ReceiveBuffer:
		return Mapping{nn.SOL_SOCKET, nn.RCVBUF, ShapeInt}
	case ReceiveMaxSize:
		return Mapping{nn.SOL_SOCKET, nn.RCVMAXSIZE, ShapeInt}
	case SendTimeout:
		return Mapping{nn.SOL_SOCKET, nn.SNDTIMEO, ShapeMillis}
	case ReceiveTimeout:
		return Mapping{nn.SOL_SOCKET, nn.RCVTIMEO, ShapeMillis}
	case ReconnectInterval:
		return Mapping{nn.SOL_SOCKET, nn.RECONNECT_IVL, ShapeMillis}
	case ReconnectIntervalMax:
		return Mapping{nn.SOL_SOCKET, nn.RECONNECT_IVL_MAX, ShapeMillis}
	case SendPriority:
		return Mapping{nn.SOL_SOCKET, nn.SNDPRIO, ShapeInt}
	case ReceivePriority:
		return Mapping{nn.SOL_SOCKET, nn.RCVPRIO, ShapeInt}
	case IPv4Only:
		return Mapping{nn.SOL_SOCKET, nn.IPV4ONLY, ShapeInt}
	case SocketName:
		return Mapping{nn.SOL_SOCKET, nn.SOCKET_NAME, ShapeBytes}
	case TTL:
		return Mapping{nn.SOL_SOCKET, nn.MAXTTL, ShapeInt}
	case Subscribe:
		return Mapping{nn.SUB, nn.SUB_SUBSCRIBE, ShapeBytes}
	case Unsubscribe:
		return Mapping{nn.SUB, nn.SUB_UNSUBSCRIBE, ShapeBytes}
	case RequestResendInterval:
		return Mapping{nn.REQ, nn.REQ_RESEND_IVL, ShapeMillis}
	case SurveyorDeadline:
		return Mapping{nn.SURVEYOR, nn.SURVEYOR_DEADLINE, ShapeMillis}
	case TCPNoDelay:
		return Mapping{nn.TCP, nn.TCP_NODELAY, ShapeInt}
	}
	panic(fmt.Sprintf("nnsock: invalid Option %d", uint8(o)))
}

var optionNames = map[Option]string{
	Linger:                "linger",
	SendBuffer:            "sendBuffer",
	ReceiveBuffer:         "receiveBuffer",
	ReceiveMaxSize:        "receiveMaxSize",
	SendTimeout:           "sendTimeout",
	ReceiveTimeout:        "receiveTimeout",
	ReconnectInterval:     "reconnectInterval",
	ReconnectIntervalMax:  "reconnectIntervalMax",
	SendPriority:          "sendPriority",
	ReceivePriority:       "receivePriority",
	IPv4Only:              "ipv4Only",
	SocketName:            "socketName",
	TTL:                   "ttl",
	Subscribe:             "subscribe",
	Unsubscribe:           "unsubscribe",
	RequestResendInterval: "requestResendInterval",
	SurveyorDeadline:      "surveyorDeadline",
	TCPNoDelay:            "tcpNoDelay",
}

func (o Option) String() string {
	if s, ok := optionNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Option(%d)", uint8(o))
}

func (o Option) valid() bool {
	_, ok := optionNames[o]
	return ok
}

// ParseOption returns the Option with the given name, as returned by
// String.  Matching is case insensitive.
func ParseOption(name string) (Option, error) {
	for _, o := range Options {
		if strings.EqualFold(name, o.String()) {
			return o, nil
		}
	}
	return 0, fmt.Errorf("nnsock: unknown option %q", name)
}

// Value is an option value: either an Int or Bytes.
type Value interface {
	payload() []byte
}

// Int is a scalar option value.  Durations are whole milliseconds and
// flags are 0 or 1.
type Int int

// Bytes is a byte sequence option value, such as a topic or a name.
type Bytes []byte

func (v Int) payload() []byte   { return nn.EncodeInt(int(v)) }
func (v Bytes) payload() []byte { return []byte(v) }

// Millis returns d as a millisecond Int.  Negative durations become -1,
// which means infinite for the timeout options.
func Millis(d time.Duration) Int {
	if d < 0 {
		return -1
	}
	return Int(d / time.Millisecond)
}

// Bool returns 1 for true and 0 for false.
func Bool(b bool) Int {
	if b {
		return 1
	}
	return 0
}
