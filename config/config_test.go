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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"nanomsg.org/go/nnsock"
	"nanomsg.org/go/nnsock/nn"
)

const feedProfile = `
protocol: sub
domain: sp
settleDelay: 20ms
connect: [inproc://config_feed]
options:
  receiveTimeout: 250ms
  receiveBuffer: 131072
  tcpNoDelay: true
  socketName: feed
subscribe: ["", "news."]
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(feedProfile))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	settle := 20 * time.Millisecond
	want := &Profile{
		Protocol:    "sub",
		Domain:      "sp",
		SettleDelay: &settle,
		Connect:     []string{"inproc://config_feed"},
		Options: map[string]interface{}{
			"receiveTimeout": "250ms",
			"receiveBuffer":  131072,
			"tcpNoDelay":     true,
			"socketName":     "feed",
		},
		Subscribe: []string{"", "news."},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}

	r, err := p.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got := map[nnsock.Option]nnsock.Value{}
	for _, st := range r.settings {
		got[st.opt] = st.val
	}
	wantVals := map[nnsock.Option]nnsock.Value{
		nnsock.ReceiveTimeout: nnsock.Int(250),
		nnsock.ReceiveBuffer:  nnsock.Int(131072),
		nnsock.TCPNoDelay:     nnsock.Int(1),
		nnsock.SocketName:     nnsock.Bytes("feed"),
	}
	if diff := cmp.Diff(wantVals, got); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"NoProtocol", `bind: [inproc://x]`},
		{"BadProtocol", `protocol: dealer`},
		{"BadDomain", "protocol: pair\ndomain: inet"},
		{"NegativeSettle", "protocol: pair\nsettleDelay: -1s"},
		{"UnknownOption", "protocol: pair\noptions: {colour: 1}"},
		{"IntForBytes", "protocol: pair\noptions: {socketName: 3}"},
		{"StringForInt", "protocol: pair\noptions: {sendBuffer: big}"},
		{"BadDuration", "protocol: pair\noptions: {linger: soon}"},
		{"SubscribeOnPush", "protocol: push\nsubscribe: [a]"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Parse([]byte(c.yaml)); err == nil {
				t.Errorf("Parse accepted %q", c.yaml)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	Convey("Given a pull profile bound on inproc", t, func() {
		pull, err := Parse([]byte(`
protocol: pull
bind: [inproc://config_open]
options:
  receiveTimeout: 1s
`))
		So(err, ShouldBeNil)

		Convey("Open returns a socket that receives from a push peer", func() {
			s, err := pull.Open()
			So(err, ShouldBeNil)
			defer s.Close()

			push, err := nnsock.NewSocket(nnsock.Push,
				nnsock.ConnectTo("inproc://config_open"),
				nnsock.WithSettleDelay(0))
			So(err, ShouldBeNil)
			defer push.Close()

			So(push.SetOption(nnsock.SendTimeout, nnsock.Int(1000)), ShouldBeNil)
			So(push.Send([]byte("hello")), ShouldEqual, 5)
			msg, err := s.Recv(0)
			So(err, ShouldBeNil)
			So(string(msg), ShouldEqual, "hello")

			v, err := s.GetOption(nnsock.ReceiveTimeout)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, nnsock.Int(1000))
		})

		Convey("Open fails when the address is taken", func() {
			first, err := pull.Open()
			So(err, ShouldBeNil)
			defer first.Close()

			second, err := pull.Open()
			So(second, ShouldBeNil)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, nn.EADDRINUSE), ShouldBeTrue)
		})
	})

	Convey("An option the socket rejects fails Open", t, func() {
		p, err := Parse([]byte("protocol: pair\noptions: {sendPriority: 40}"))
		So(err, ShouldBeNil)
		s, err := p.Open()
		So(s, ShouldBeNil)
		So(errors.Is(err, nn.EINVAL), ShouldBeTrue)
	})
}

func TestLoad(t *testing.T) {
	Convey("Load reads a profile from disk", t, func() {
		path := filepath.Join(t.TempDir(), "feed.yaml")
		So(os.WriteFile(path, []byte(feedProfile), 0o600), ShouldBeNil)
		p, err := Load(path)
		So(err, ShouldBeNil)
		So(p.Protocol, ShouldEqual, "sub")
		So(p.Subscribe, ShouldResemble, []string{"", "news."})
	})

	Convey("Load reports a missing file", t, func() {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		So(err, ShouldNotBeNil)
		So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
	})
}
