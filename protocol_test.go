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

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"nanomsg.org/go/nnsock/nn"
)

func TestProtocolNumbers(t *testing.T) {
	want := map[Protocol]int{
		Req:        nn.REQ,
		Rep:        nn.REP,
		Pub:        nn.PUB,
		Sub:        nn.SUB,
		Push:       nn.PUSH,
		Pull:       nn.PULL,
		Pair:       nn.PAIR,
		Surveyor:   nn.SURVEYOR,
		Respondent: nn.RESPONDENT,
		Bus:        nn.BUS,
	}
	got := make(map[Protocol]int)
	seen := make(map[int]Protocol)
	for _, p := range Protocols {
		n := p.native()
		got[p] = n
		if q, dup := seen[n]; dup {
			t.Errorf("%v and %v both map to %d", p, q, n)
		}
		seen[n] = p
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("protocol numbers (-want +got):\n%s", diff)
	}
}

func TestProtocolNames(t *testing.T) {
	Convey("Every protocol parses from its name", t, func() {
		for _, p := range Protocols {
			q, err := ParseProtocol(p.String())
			So(err, ShouldBeNil)
			So(q, ShouldEqual, p)
		}
		q, err := ParseProtocol("SURVEYOR")
		So(err, ShouldBeNil)
		So(q, ShouldEqual, Surveyor)
	})

	Convey("Unknown names are refused", t, func() {
		_, err := ParseProtocol("star")
		So(err, ShouldNotBeNil)
	})

	Convey("Values outside the set cannot reach the native layer", t, func() {
		So(Protocol(0).String(), ShouldEqual, "Protocol(0)")
		So(func() { Protocol(0).native() }, ShouldPanic)
		So(func() { Protocol(99).native() }, ShouldPanic)
		So(func() { NewSocket(Protocol(42)) }, ShouldPanic)
	})

	Convey("Domains have names", t, func() {
		So(SP.String(), ShouldEqual, "sp")
		So(SPRaw.String(), ShouldEqual, "raw")
		So(Domain(9).String(), ShouldEqual, "Domain(9)")
	})
}
