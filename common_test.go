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
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"nanomsg.org/go/nnsock/nn"
)

// Test addresses.  TCP tests bind and connect the same localhost URI.
const (
	AddrTestTCP    = "tcp://localhost:39093"
	AddrTestTCPAlt = "tcp://localhost:39094"
	AddrTestTCPPub = "tcp://localhost:39095"
)

var inprocSeq int32

// AddrTestInproc returns an inproc address no other test uses.
func AddrTestInproc() string {
	return fmt.Sprintf("inproc://nnsock_test_%d", atomic.AddInt32(&inprocSeq, 1))
}

// pairUp creates a binding and a connecting socket on addr, and closes
// both when the test ends.
func pairUp(t *testing.T, bp, cp Protocol, addr string) (*Socket, *Socket) {
	b, err := NewSocket(bp, BindTo(addr))
	So(err, ShouldBeNil)
	c, err := NewSocket(cp, ConnectTo(addr), WithSettleDelay(0))
	if err != nil {
		b.Close()
	}
	So(err, ShouldBeNil)
	t.Cleanup(func() {
		c.Close()
		b.Close()
	})
	for _, s := range []*Socket{b, c} {
		So(s.SetOption(SendTimeout, Millis(2*time.Second)), ShouldBeNil)
		So(s.SetOption(ReceiveTimeout, Millis(2*time.Second)), ShouldBeNil)
	}
	return b, c
}

// errnoOf returns the native error number carried by err.
func errnoOf(err error) nn.Errno {
	if e, ok := err.(*NativeCallError); ok {
		return e.Errno
	}
	return 0
}
