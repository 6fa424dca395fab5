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
	"strings"
	"sync"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol"
)

const maxAddrLen = 128

type optKey struct {
	level  int
	option int
}

type socket struct {
	sync.Mutex
	fd       int
	domain   int
	proto    int
	sock     protocol.Socket
	neid     int
	sndtimeo int
	rcvtimeo int
	nodelay  bool
	vals     map[optKey][]byte

	// Guarded by the table lock.
	refs   int
	closed bool
}

var table struct {
	sync.Mutex
	socks [MaxSockets]*socket
}

func lookup(s int) (*socket, Errno) {
	if s < 0 || s >= MaxSockets {
		return nil, EBADF
	}
	table.Lock()
	e := table.socks[s]
	table.Unlock()
	if e == nil || e.closed {
		return nil, EBADF
	}
	return e, 0
}

// Hold pins an open descriptor.  Until the matching Release, the slot
// is not handed out again, even if the descriptor is closed meanwhile;
// calls on it fail with EBADF instead of reaching a newer socket.
func Hold(s int) int {
	if s < 0 || s >= MaxSockets {
		return fail(EBADF)
	}
	table.Lock()
	defer table.Unlock()
	e := table.socks[s]
	if e == nil || e.closed {
		return fail(EBADF)
	}
	e.refs++
	return 0
}

// Release drops a pin taken by Hold.
func Release(s int) {
	if s < 0 || s >= MaxSockets {
		return
	}
	table.Lock()
	defer table.Unlock()
	e := table.socks[s]
	if e == nil || e.refs == 0 {
		return
	}
	e.refs--
	if e.refs == 0 && e.closed {
		table.socks[s] = nil
	}
}

// Socket creates a socket of the given domain and protocol, and returns
// the lowest free descriptor.
func Socket(domain, proto int) int {
	sock, errno := newEngine(domain, proto)
	if errno != 0 {
		return fail(errno)
	}
	e := &socket{
		domain:   domain,
		proto:    proto,
		sock:     sock,
		sndtimeo: -1,
		rcvtimeo: -1,
		vals:     make(map[optKey][]byte),
	}

	table.Lock()
	for fd := range table.socks {
		if table.socks[fd] == nil {
			e.fd = fd
			table.socks[fd] = e
			table.Unlock()
			return fd
		}
	}
	table.Unlock()
	sock.Close()
	return fail(EMFILE)
}

// Close releases the descriptor and shuts the socket down.  Transfers
// blocked on the socket fail with EBADF.  A held descriptor stays
// reserved until its last Release.
func Close(s int) int {
	if s < 0 || s >= MaxSockets {
		return fail(EBADF)
	}
	table.Lock()
	e := table.socks[s]
	if e == nil || e.closed {
		table.Unlock()
		return fail(EBADF)
	}
	e.closed = true
	if e.refs == 0 {
		table.socks[s] = nil
	}
	table.Unlock()
	e.sock.Close()
	return 0
}

func checkAddr(addr string) Errno {
	if len(addr) > maxAddrLen {
		return ENAMETOOLONG
	}
	if !strings.Contains(addr, "://") {
		return EINVAL
	}
	return 0
}

func isTCP(addr string) bool {
	return strings.HasPrefix(addr, "tcp://") ||
		strings.HasPrefix(addr, "tls+tcp://")
}

// endpoint prepares the options for a new endpoint and assigns its id.
func (e *socket) endpoint(addr string, dial bool) (map[string]interface{}, int) {
	e.Lock()
	defer e.Unlock()
	opts := make(map[string]interface{})
	if dial {
		// nn_connect never waits for the peer; the engine redials.
		opts[mangos.OptionDialAsynch] = true
	}
	if isTCP(addr) {
		opts[mangos.OptionNoDelay] = e.nodelay
	}
	e.neid++
	return opts, e.neid
}

// Bind adds a local endpoint that accepts connections from peers, and
// returns its endpoint id.
func Bind(s int, addr string) int {
	e, errno := lookup(s)
	if errno != 0 {
		return fail(errno)
	}
	if errno = checkAddr(addr); errno != 0 {
		return fail(errno)
	}
	opts, eid := e.endpoint(addr, false)
	if err := e.sock.ListenOptions(addr, opts); err != nil {
		return fail(errnoOf(err, false))
	}
	return eid
}

// Connect adds a remote endpoint, and returns its endpoint id.  The
// connection is established in the background and re-established
// whenever it is lost.
func Connect(s int, addr string) int {
	e, errno := lookup(s)
	if errno != 0 {
		return fail(errno)
	}
	if errno = checkAddr(addr); errno != 0 {
		return fail(errno)
	}
	opts, eid := e.endpoint(addr, true)
	if err := e.sock.DialOptions(addr, opts); err != nil {
		return fail(errnoOf(err, false))
	}
	return eid
}

// splitHeader separates the protocol header a raw socket sends ahead of
// the body, in the form Recv delivers it.  Request and survey patterns
// carry a backtrace of 4 byte words ending with the word whose top bit
// is set; bus carries the 4 byte id of the pipe to exclude.
func splitHeader(proto int, buf []byte) (hdr, body []byte) {
	switch proto {
	case BUS:
		if len(buf) >= 4 {
			return buf[:4], buf[4:]
		}
	case REQ, REP, SURVEYOR, RESPONDENT:
		for i := 0; i+4 <= len(buf); i += 4 {
			if buf[i]&0x80 != 0 {
				return buf[:i+4], buf[i+4:]
			}
		}
	}
	return nil, buf
}

// Send sends buf as one message and returns its length.  Raw sockets
// take the protocol header ahead of the body.
func Send(s int, buf []byte, flags int) int {
	e, errno := lookup(s)
	if errno != 0 {
		return fail(errno)
	}
	if flags&^DONTWAIT != 0 {
		return fail(EINVAL)
	}
	e.Lock()
	_ = e.sock.SetOption(mangos.OptionSendDeadline, deadline(e.sndtimeo, flags))
	e.Unlock()

	m := mangos.NewMessage(len(buf))
	if e.domain == AF_SP_RAW {
		hdr, body := splitHeader(e.proto, buf)
		m.Header = append(m.Header, hdr...)
		m.Body = append(m.Body, body...)
	} else {
		m.Body = append(m.Body, buf...)
	}
	if err := e.sock.SendMsg(m); err != nil {
		return fail(errnoOf(err, flags&DONTWAIT != 0))
	}
	return len(buf)
}

// Recv receives one message into buf.  It returns the size of the
// message, which exceeds len(buf) when the message was truncated.  Raw
// sockets receive the protocol header ahead of the body.
func Recv(s int, buf []byte, flags int) int {
	e, errno := lookup(s)
	if errno != 0 {
		return fail(errno)
	}
	if flags&^DONTWAIT != 0 {
		return fail(EINVAL)
	}
	e.Lock()
	_ = e.sock.SetOption(mangos.OptionRecvDeadline, deadline(e.rcvtimeo, flags))
	e.Unlock()

	m, err := e.sock.RecvMsg()
	if err != nil {
		return fail(errnoOf(err, flags&DONTWAIT != 0))
	}
	n := len(m.Body)
	if e.domain == AF_SP_RAW {
		k := copy(buf, m.Header)
		copy(buf[k:], m.Body)
		n += len(m.Header)
	} else {
		copy(buf, m.Body)
	}
	m.Free()
	return n
}
