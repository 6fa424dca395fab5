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
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"nanomsg.org/go/nnsock/nn"
)

func TestOptionMapping(t *testing.T) {
	want := map[Option]Mapping{
		Linger:                {nn.SOL_SOCKET, 1, ShapeMillis},
		SendBuffer:            {nn.SOL_SOCKET, 2, ShapeInt},
		ReceiveBuffer:         {nn.SOL_SOCKET, 3, ShapeInt},
		SendTimeout:           {nn.SOL_SOCKET, 4, ShapeMillis},
		ReceiveTimeout:        {nn.SOL_SOCKET, 5, ShapeMillis},
		ReconnectInterval:     {nn.SOL_SOCKET, 6, ShapeMillis},
		ReconnectIntervalMax:  {nn.SOL_SOCKET, 7, ShapeMillis},
		SendPriority:          {nn.SOL_SOCKET, 8, ShapeInt},
		ReceivePriority:       {nn.SOL_SOCKET, 9, ShapeInt},
		IPv4Only:              {nn.SOL_SOCKET, 14, ShapeInt},
		SocketName:            {nn.SOL_SOCKET, 15, ShapeBytes},
		ReceiveMaxSize:        {nn.SOL_SOCKET, 16, ShapeInt},
		TTL:                   {nn.SOL_SOCKET, 17, ShapeInt},
		Subscribe:             {nn.SUB, 1, ShapeBytes},
		Unsubscribe:           {nn.SUB, 2, ShapeBytes},
		RequestResendInterval: {nn.REQ, 1, ShapeMillis},
		SurveyorDeadline:      {nn.SURVEYOR, 1, ShapeMillis},
		TCPNoDelay:            {nn.TCP, 1, ShapeInt},
	}

	got := make(map[Option]Mapping)
	for _, o := range Options {
		got[o] = o.Native()
		if o.Native() != got[o] {
			t.Errorf("%v mapping is not stable", o)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("option mapping (-want +got):\n%s", diff)
	}

	seen := make(map[[2]int]Option)
	for o, m := range got {
		key := [2]int{m.Level, m.ID}
		if p, dup := seen[key]; dup {
			t.Errorf("%v and %v share level %d id %d", o, p, m.Level, m.ID)
		}
		seen[key] = o
	}
}

func TestOptionNames(t *testing.T) {
	Convey("Every option has a name that parses back", t, func() {
		So(len(optionNames), ShouldEqual, len(Options))
		for _, o := range Options {
			p, err := ParseOption(o.String())
			So(err, ShouldBeNil)
			So(p, ShouldEqual, o)
		}
		p, err := ParseOption("RECEIVETIMEOUT")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, ReceiveTimeout)
	})

	Convey("Values outside the set are refused", t, func() {
		_, err := ParseOption("colour")
		So(err, ShouldNotBeNil)
		So(Option(0).String(), ShouldEqual, "Option(0)")
		So(func() { Option(0).Native() }, ShouldPanic)
		So(func() { Option(200).Native() }, ShouldPanic)
	})

	Convey("Shapes have names", t, func() {
		So(ShapeInt.String(), ShouldEqual, "int")
		So(ShapeMillis.String(), ShouldEqual, "ms")
		So(ShapeBytes.String(), ShouldEqual, "bytes")
		So(Shape(0).String(), ShouldEqual, "Shape(0)")
	})
}

func TestValues(t *testing.T) {
	Convey("Int values encode as a native C int", t, func() {
		for _, v := range []int{0, 1, -1, 4096, 1 << 30} {
			b := Int(v).payload()
			So(len(b), ShouldEqual, nn.IntSize)
			d, ok := nn.DecodeInt(b)
			So(ok, ShouldBeTrue)
			So(d, ShouldEqual, v)
		}
	})

	Convey("Bytes values pass through", t, func() {
		So(Bytes("news.").payload(), ShouldResemble, []byte("news."))
		So(len(Bytes{}.payload()), ShouldEqual, 0)
	})

	Convey("Durations become milliseconds", t, func() {
		So(Millis(250*time.Millisecond), ShouldEqual, Int(250))
		So(Millis(2*time.Second), ShouldEqual, Int(2000))
		So(Millis(1500*time.Microsecond), ShouldEqual, Int(1))
		So(Millis(0), ShouldEqual, Int(0))
		So(Millis(-time.Second), ShouldEqual, Int(-1))
	})

	Convey("Flags become 0 or 1", t, func() {
		So(Bool(true), ShouldEqual, Int(1))
		So(Bool(false), ShouldEqual, Int(0))
	})
}
