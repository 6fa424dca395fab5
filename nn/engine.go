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
	"errors"
	"syscall"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol"
	"go.nanomsg.org/mangos/v3/protocol/bus"
	"go.nanomsg.org/mangos/v3/protocol/pair"
	"go.nanomsg.org/mangos/v3/protocol/pub"
	"go.nanomsg.org/mangos/v3/protocol/pull"
	"go.nanomsg.org/mangos/v3/protocol/push"
	"go.nanomsg.org/mangos/v3/protocol/rep"
	"go.nanomsg.org/mangos/v3/protocol/req"
	"go.nanomsg.org/mangos/v3/protocol/respondent"
	"go.nanomsg.org/mangos/v3/protocol/sub"
	"go.nanomsg.org/mangos/v3/protocol/surveyor"
	"go.nanomsg.org/mangos/v3/protocol/xbus"
	"go.nanomsg.org/mangos/v3/protocol/xpair"
	"go.nanomsg.org/mangos/v3/protocol/xpub"
	"go.nanomsg.org/mangos/v3/protocol/xpull"
	"go.nanomsg.org/mangos/v3/protocol/xpush"
	"go.nanomsg.org/mangos/v3/protocol/xrep"
	"go.nanomsg.org/mangos/v3/protocol/xreq"
	"go.nanomsg.org/mangos/v3/protocol/xrespondent"
	"go.nanomsg.org/mangos/v3/protocol/xsub"
	"go.nanomsg.org/mangos/v3/protocol/xsurveyor"

	// All transports are available to every socket.
	_ "go.nanomsg.org/mangos/v3/transport/all"
)

// pollQuantum is the deadline given to the engine for a DONTWAIT
// transfer.  The engine has no poll primitive, but it checks its queues
// before its timer, so a ready message or free queue slot always wins.
const pollQuantum = time.Millisecond

type constructor func() (protocol.Socket, error)

var cooked = map[int]constructor{
	PAIR:       pair.NewSocket,
	PUB:        pub.NewSocket,
	SUB:        sub.NewSocket,
	REQ:        req.NewSocket,
	REP:        rep.NewSocket,
	PUSH:       push.NewSocket,
	PULL:       pull.NewSocket,
	SURVEYOR:   surveyor.NewSocket,
	RESPONDENT: respondent.NewSocket,
	BUS:        bus.NewSocket,
}

var raw = map[int]constructor{
	PAIR:       xpair.NewSocket,
	PUB:        xpub.NewSocket,
	SUB:        xsub.NewSocket,
	REQ:        xreq.NewSocket,
	REP:        xrep.NewSocket,
	PUSH:       xpush.NewSocket,
	PULL:       xpull.NewSocket,
	SURVEYOR:   xsurveyor.NewSocket,
	RESPONDENT: xrespondent.NewSocket,
	BUS:        xbus.NewSocket,
}

func newEngine(domain, proto int) (protocol.Socket, Errno) {
	var table map[int]constructor
	switch domain {
	case AF_SP:
		table = cooked
	case AF_SP_RAW:
		table = raw
	default:
		return nil, EAFNOSUPPORT
	}
	mk, ok := table[proto]
	if !ok {
		return nil, EINVAL
	}
	sock, err := mk()
	if err != nil {
		return nil, errnoOf(err, false)
	}
	return sock, 0
}

// deadline converts a millisecond timeout in nanomsg terms (negative is
// infinite) into an engine deadline (zero is infinite).
func deadline(ms int, flags int) time.Duration {
	switch {
	case flags&DONTWAIT != 0:
		return pollQuantum
	case ms < 0:
		return 0
	case ms == 0:
		return pollQuantum
	}
	return time.Duration(ms) * time.Millisecond
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func errnoOf(err error, nonblock bool) Errno {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, mangos.ErrClosed):
		return EBADF
	case errors.Is(err, mangos.ErrRecvTimeout),
		errors.Is(err, mangos.ErrSendTimeout):
		if nonblock {
			return EAGAIN
		}
		return ETIMEDOUT
	case errors.Is(err, mangos.ErrBadAddr),
		errors.Is(err, mangos.ErrBadValue):
		return EINVAL
	case errors.Is(err, mangos.ErrBadTran),
		errors.Is(err, mangos.ErrBadProto):
		return EPROTONOSUPPORT
	case errors.Is(err, mangos.ErrAddrInUse),
		errors.Is(err, syscall.EADDRINUSE):
		return EADDRINUSE
	case errors.Is(err, syscall.EADDRNOTAVAIL):
		return EADDRNOTAVAIL
	case errors.Is(err, mangos.ErrConnRefused),
		errors.Is(err, syscall.ECONNREFUSED):
		return ECONNREFUSED
	case errors.Is(err, mangos.ErrProtoState):
		return EFSM
	case errors.Is(err, mangos.ErrProtoOp):
		return ENOTSUP
	case errors.Is(err, mangos.ErrBadOption):
		return ENOPROTOOPT
	case errors.Is(err, mangos.ErrTooLong):
		return EMSGSIZE
	case errors.Is(err, mangos.ErrCanceled):
		return EINTR
	}
	return EIO
}
