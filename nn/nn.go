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

// Package nn is the native messaging layer.  It offers the flat,
// descriptor based API of libnanomsg -- integer sockets, (level, option)
// pairs carrying raw byte payloads, a DONTWAIT flag and errno codes --
// on top of the mangos protocol engine.
//
// Every call returns an int.  Non-negative values are results (a socket
// descriptor, an endpoint id, a byte count, an option length).  On failure
// the negated Errno is returned, mirroring the raw system call convention,
// so callers recover the cause with Errno(-rc).
//
// The package does no locking on behalf of callers beyond keeping its own
// descriptor table consistent.  Concurrent use of different descriptors
// is safe.  Concurrent use of one descriptor is permitted, but option
// changes racing with transfers on the same descriptor may apply to
// either.
package nn

// Domains.
const (
	AF_SP     = 1
	AF_SP_RAW = 2
)

// Protocol numbers.  The major pattern number lives in the upper bits,
// the role within the pattern in the lowest four.
const (
	PAIR       = 1 * 16
	PUB        = 2 * 16
	SUB        = 2*16 + 1
	REQ        = 3 * 16
	REP        = 3*16 + 1
	PUSH       = 5 * 16
	PULL       = 5*16 + 1
	SURVEYOR   = 6*16 + 2
	RESPONDENT = 6*16 + 3
	BUS        = 7 * 16
)

// Option levels.  Protocol specific options use the protocol number
// as their level; transport options use a negative level.
const (
	SOL_SOCKET = 0
	TCP        = -3
)

// Generic socket options, level SOL_SOCKET.
const (
	LINGER            = 1
	SNDBUF            = 2
	RCVBUF            = 3
	SNDTIMEO          = 4
	RCVTIMEO          = 5
	RECONNECT_IVL     = 6
	RECONNECT_IVL_MAX = 7
	SNDPRIO           = 8
	RCVPRIO           = 9
	DOMAIN            = 12
	PROTOCOL          = 13
	IPV4ONLY          = 14
	SOCKET_NAME       = 15
	RCVMAXSIZE        = 16
	MAXTTL            = 17
)

// Protocol and transport options.
const (
	SUB_SUBSCRIBE     = 1
	SUB_UNSUBSCRIBE   = 2
	REQ_RESEND_IVL    = 1
	SURVEYOR_DEADLINE = 1
	TCP_NODELAY       = 1
)

// DONTWAIT requests that Send or Recv return EAGAIN rather than block.
const DONTWAIT = 1

// MaxSockets is the size of the descriptor table.
const MaxSockets = 512

// IntSize is the size of a scalar option payload, a C int.
const IntSize = 4

const maxNameLen = 63
