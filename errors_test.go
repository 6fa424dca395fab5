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
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"nanomsg.org/go/nnsock/nn"
)

func TestNativeCallError(t *testing.T) {
	Convey("Non-negative results are not errors", t, func() {
		So(check("bind", 3, 0), ShouldBeNil)
		So(check("bind", 3, 7), ShouldBeNil)
	})

	Convey("Negative results carry the errno and its description", t, func() {
		err := check("connect", 3, -int(nn.ECONNREFUSED))
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldEqual, "nnsock: connect: Connection refused (rc=-111)")

		var nerr *NativeCallError
		So(errors.As(err, &nerr), ShouldBeTrue)
		So(nerr.Op, ShouldEqual, "connect")
		So(nerr.Result, ShouldEqual, -111)
		So(nerr.Errno, ShouldEqual, nn.ECONNREFUSED)
		So(errors.Is(err, nn.ECONNREFUSED), ShouldBeTrue)
		So(errors.Is(err, nn.EINVAL), ShouldBeFalse)
		So(nerr.Timeout(), ShouldBeFalse)
		So(nerr.Temporary(), ShouldBeFalse)
	})

	Convey("Timeouts say so", t, func() {
		var nerr *NativeCallError
		So(errors.As(check("recv", 1, -int(nn.ETIMEDOUT)), &nerr), ShouldBeTrue)
		So(nerr.Timeout(), ShouldBeTrue)
		So(nerr.Temporary(), ShouldBeTrue)
	})
}

func TestFailureLogging(t *testing.T) {
	Convey("Given an observed logger", t, func() {
		core, logs := observer.New(zapcore.DebugLevel)
		SetLogger(zap.New(core))
		Reset(func() { SetLogger(nil) })

		Convey("Failed calls are logged at debug level", func() {
			check("bind", 5, -int(nn.EADDRINUSE))
			entries := logs.FilterMessage("native call failed").All()
			So(len(entries), ShouldEqual, 1)
			fields := entries[0].ContextMap()
			So(fields["op"], ShouldEqual, "bind")
			So(fields["fd"], ShouldEqual, int64(5))
			So(fields["errno"], ShouldEqual, "Address already in use")
		})

		Convey("Socket lifecycle is logged", func() {
			s, err := NewSocket(Pair)
			So(err, ShouldBeNil)
			fd := zap.Int("fd", s.FD())
			So(s.Close(), ShouldBeNil)
			So(logs.FilterMessage("socket created").FilterField(fd).Len(), ShouldEqual, 1)
			So(logs.FilterMessage("socket closed").FilterField(fd).Len(), ShouldEqual, 1)
		})
	})

	Convey("A nil logger discards", t, func() {
		SetLogger(nil)
		So(Logger(), ShouldNotBeNil)
		So(Logger().Core().Enabled(zapcore.ErrorLevel), ShouldBeFalse)
	})
}
