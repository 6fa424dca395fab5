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

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"nanomsg.org/go/nnsock"
	"nanomsg.org/go/nnsock/nn"
)

// lingerTime is how long a finished peer waits before closing.
const lingerTime = time.Second

// ioTimeout bounds every send and receive of a test, so a peer that
// never shows up fails the test instead of hanging it.
var ioTimeout = 10 * time.Second

// pairSocket makes the pair socket both sides of a test use.  Options
// are set before the endpoint is attached so TCPNoDelay applies to it.
func pairSocket(ep nnsock.Endpoint, nodelay bool) (*nnsock.Socket, error) {
	s, err := nnsock.NewSocket(nnsock.Pair)
	if err != nil {
		return nil, errors.Wrap(err, "failed to make new pair socket")
	}
	if err = s.SetOption(nnsock.TCPNoDelay, nnsock.Bool(nodelay)); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "failed to set TCP no delay")
	}
	if err = s.SetOption(nnsock.Linger, nnsock.Millis(lingerTime)); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "failed to set linger")
	}
	if err = s.SetOption(nnsock.SendTimeout, nnsock.Millis(ioTimeout)); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "failed to set send timeout")
	}
	if err = s.SetOption(nnsock.ReceiveTimeout, nnsock.Millis(ioTimeout)); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "failed to set receive timeout")
	}
	if ep.Kind == nnsock.BindEndpoint {
		err = s.Bind(ep.URI)
	} else {
		err = s.Connect(ep.URI)
	}
	if err != nil {
		s.Close()
		return nil, errors.Wrapf(err, "failed to %s", ep)
	}
	return s, nil
}

func sendErr(rc int) error {
	if rc >= 0 {
		return nil
	}
	return nn.Errno(-rc)
}

// LatencyServer is the server side, equivalent to local_lat in
// nanomsg/perf.  It does no measurement at all, it just echoes messages.
func LatencyServer(addr string, msgSize int, roundTrips int) error {
	s, err := pairSocket(nnsock.BindTo(addr), true)
	if err != nil {
		return err
	}
	defer s.Close()
	return echo(s, msgSize, roundTrips)
}

// echo sends back each of roundTrips messages received on s.
func echo(s *nnsock.Socket, msgSize int, roundTrips int) error {
	for i := 0; i != roundTrips; i++ {
		msg, err := s.Recv(msgSize + 1)
		if err != nil {
			return errors.Wrap(err, "failed to recv")
		}
		if len(msg) != msgSize {
			return errors.Errorf("received wrong message size: %d != %d", len(msg), msgSize)
		}
		if err = sendErr(s.Send(msg)); err != nil {
			return errors.Wrap(err, "failed to send")
		}
	}
	return nil
}

// LatencyClient is the client side of the latency test, equivalent to
// remote_lat.  It returns the average one way latency.
func LatencyClient(addr string, msgSize int, roundTrips int) (time.Duration, error) {
	s, err := pairSocket(nnsock.ConnectTo(addr), true)
	if err != nil {
		return 0, err
	}
	defer s.Close()

	msg := make([]byte, msgSize)
	start := time.Now()
	for i := 0; i < roundTrips; i++ {
		if err = sendErr(s.Send(msg)); err != nil {
			return 0, errors.Wrap(err, "failed to send")
		}
		if msg, err = s.Recv(msgSize + 1); err != nil {
			return 0, errors.Wrap(err, "failed to recv")
		}
	}
	total := time.Since(start)
	if roundTrips <= 0 {
		return 0, nil
	}
	return total / time.Duration(roundTrips*2), nil
}

func reportLatency(w io.Writer, msgSize, roundTrips int, lat time.Duration) {
	fmt.Fprintf(w, "message size: %d [B]\n", msgSize)
	fmt.Fprintf(w, "round trip count: %d\n", roundTrips)
	fmt.Fprintf(w, "average latency: %.3f [us]\n", float64(lat)/float64(time.Microsecond))
}
