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

// Package nnsock is a safe handle over a native scalability protocols
// socket.  A Socket owns exactly one native descriptor: it is created for
// one messaging pattern, attached to endpoints with Bind and Connect,
// configured with SetOption, used with Send and Recv, and released
// exactly once by Close.
//
//	s, err := nnsock.NewSocket(nnsock.Pull, nnsock.BindTo("tcp://localhost:5555"))
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	msg, err := s.Recv(0)
//
// Failures of the native layer are reported as *NativeCallError, except
// from Send and TryRecv, which pass native results through to the
// caller.
package nnsock

import (
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"nanomsg.org/go/nnsock/nn"
)

// DefaultRecvCapacity is the receive buffer size used when Recv or
// TryRecv is given a capacity of zero or less.
const DefaultRecvCapacity = 1024

const closedFD = -1

// Socket is a handle to one native socket.  Use it through the pointer
// returned by NewSocket, and use Move to hand ownership to another
// handle; go vet rejects copies of a Socket value.
//
// A Socket may be shared between goroutines.  Close may be called while
// other goroutines are blocked in Send or Recv, which then fail.
type Socket struct {
	mu     sync.Mutex
	fd     int
	proto  Protocol
	domain Domain
}

// NewSocket creates a socket for the protocol.  Endpoint options are
// attached in order; if any of them fails, the socket is closed and the
// error returned.
func NewSocket(p Protocol, opts ...CreateOption) (*Socket, error) {
	cfg := createConfig{domain: SP, settle: DefaultSettleDelay}
	for _, o := range opts {
		o.apply(&cfg)
	}

	rc := nn.Socket(int(cfg.domain), p.native())
	if err := check("socket", closedFD, rc); err != nil {
		return nil, err
	}
	s := newHandle(rc, p, cfg.domain)
	Logger().Debug("socket created",
		zap.Int("fd", rc),
		zap.Stringer("protocol", p),
		zap.Stringer("domain", cfg.domain))

	connected := false
	for _, ep := range cfg.endpoints {
		var err error
		if ep.Kind == BindEndpoint {
			err = s.Bind(ep.URI)
		} else {
			err = s.Connect(ep.URI)
			connected = true
		}
		if err != nil {
			s.Close()
			return nil, err
		}
	}
	if connected && cfg.settle > 0 {
		time.Sleep(cfg.settle)
	}
	return s, nil
}

func newHandle(fd int, p Protocol, d Domain) *Socket {
	s := &Socket{fd: fd, proto: p, domain: d}
	runtime.SetFinalizer(s, (*Socket).Close)
	return s
}

// descriptor returns the current descriptor, closedFD once closed.
func (s *Socket) descriptor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fd
}

// hold pins the descriptor for one native call, so that a concurrent
// Close cannot hand it to another socket before the call has looked it
// up.  It returns closedFD, on which native calls fail with EBADF, once
// the socket is closed.
func (s *Socket) hold() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fd == closedFD || nn.Hold(s.fd) < 0 {
		return closedFD
	}
	return s.fd
}

// release undoes hold.  It also keeps s reachable until the native call
// is over, so the finalizer cannot close the descriptor under it.
func (s *Socket) release(fd int) {
	if fd != closedFD {
		nn.Release(fd)
	}
	runtime.KeepAlive(s)
}

// FD returns the native descriptor, or -1 if the socket is closed.
func (s *Socket) FD() int {
	return s.descriptor()
}

// Protocol returns the protocol the socket was created with.
func (s *Socket) Protocol() Protocol {
	return s.proto
}

// Domain returns the domain the socket was created in.
func (s *Socket) Domain() Domain {
	return s.domain
}

// Bind listens on uri.  A host of "localhost" listens on every
// interface, see BindAddress.
func (s *Socket) Bind(uri string) error {
	fd := s.hold()
	defer s.release(fd)
	addr := BindAddress(uri)
	if err := check("bind", fd, nn.Bind(fd, addr)); err != nil {
		return err
	}
	Logger().Debug("socket bound", zap.Int("fd", fd), zap.String("uri", addr))
	return nil
}

// Connect dials uri.  The connection is made, and remade, in the
// background, so an absent peer is not an error.
func (s *Socket) Connect(uri string) error {
	fd := s.hold()
	defer s.release(fd)
	if err := check("connect", fd, nn.Connect(fd, uri)); err != nil {
		return err
	}
	Logger().Debug("socket connected", zap.Int("fd", fd), zap.String("uri", uri))
	return nil
}

// SetOption sets a socket option.  Scalar options take an Int, byte
// sequence options take Bytes; a value of the wrong shape, or an Option
// that is not one of the declared options, is rejected with EINVAL.
func (s *Socket) SetOption(o Option, v Value) error {
	if !o.valid() {
		return check("setsockopt "+o.String(), s.FD(), -int(nn.EINVAL))
	}
	m := o.Native()
	var payload []byte
	if v != nil {
		payload = v.payload()
	}
	fd := s.hold()
	defer s.release(fd)
	return check("setsockopt "+o.String(), fd,
		nn.SetSockOpt(fd, m.Level, m.ID, payload))
}

// GetOption returns the current value of a socket option: an Int for
// scalar options, Bytes for byte sequence options.
func (s *Socket) GetOption(o Option) (Value, error) {
	if !o.valid() {
		return nil, check("getsockopt "+o.String(), s.FD(), -int(nn.EINVAL))
	}
	m := o.Native()
	fd := s.hold()
	defer s.release(fd)
	buf := make([]byte, 128)
	rc := nn.GetSockOpt(fd, m.Level, m.ID, buf)
	if err := check("getsockopt "+o.String(), fd, rc); err != nil {
		return nil, err
	}
	if rc > len(buf) {
		rc = len(buf)
	}
	if m.Shape == ShapeBytes {
		return Bytes(append([]byte{}, buf[:rc]...)), nil
	}
	v, _ := nn.DecodeInt(buf[:rc])
	return Int(v), nil
}

// Send sends data as one message, blocking until it is accepted or the
// SendTimeout expires.  It returns the number of bytes sent, or the
// negated native error number; nn.Errno(-n) is the cause.
func (s *Socket) Send(data []byte) int {
	fd := s.hold()
	defer s.release(fd)
	return nn.Send(fd, data, 0)
}

// TrySend is Send without blocking.  When the message cannot be accepted
// immediately it returns -int(nn.EAGAIN).
func (s *Socket) TrySend(data []byte) int {
	fd := s.hold()
	defer s.release(fd)
	return nn.Send(fd, data, nn.DONTWAIT)
}

// Recv receives one message of up to capacity bytes, blocking until one
// arrives or the ReceiveTimeout expires.  Longer messages are truncated.
func (s *Socket) Recv(capacity int) ([]byte, error) {
	fd := s.hold()
	defer s.release(fd)
	buf, rc := recv(fd, capacity, 0)
	if err := check("recv", fd, rc); err != nil {
		return nil, err
	}
	return buf, nil
}

// TryRecv is Recv without blocking.  It returns an empty slice when no
// message is ready, and also when the native receive fails.
func (s *Socket) TryRecv(capacity int) []byte {
	fd := s.hold()
	defer s.release(fd)
	buf, rc := recv(fd, capacity, nn.DONTWAIT)
	if rc < 0 {
		return []byte{}
	}
	return buf
}

func recv(fd, capacity, flags int) ([]byte, int) {
	if capacity <= 0 {
		capacity = DefaultRecvCapacity
	}
	scratch := make([]byte, capacity)
	rc := nn.Recv(fd, scratch, flags)
	if rc < 0 {
		return nil, rc
	}
	n := rc
	if n > capacity {
		n = capacity
	}
	return append([]byte{}, scratch[:n]...), rc
}

// Move transfers the descriptor to a new Socket and leaves s closed
// without closing the native socket.  Moving a closed socket returns a
// closed socket.
func (s *Socket) Move() *Socket {
	s.mu.Lock()
	fd := s.fd
	s.fd = closedFD
	s.mu.Unlock()
	if fd == closedFD {
		return &Socket{fd: closedFD, proto: s.proto, domain: s.domain}
	}
	return newHandle(fd, s.proto, s.domain)
}

// Close releases the native socket.  Closing a closed socket does
// nothing and returns nil.
func (s *Socket) Close() error {
	s.mu.Lock()
	fd := s.fd
	s.fd = closedFD
	s.mu.Unlock()
	if fd == closedFD {
		return nil
	}
	runtime.SetFinalizer(s, nil)
	Logger().Debug("socket closed", zap.Int("fd", fd))
	return check("close", fd, nn.Close(fd))
}
