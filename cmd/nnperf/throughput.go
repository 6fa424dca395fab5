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
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"nanomsg.org/go/nnsock"
)

// Throughput is the result of a throughput run.
type Throughput struct {
	MsgSize  int
	Count    int
	Duration time.Duration
}

// MsgsPerSec is the message rate.
func (t Throughput) MsgsPerSec() float64 {
	return float64(t.Count) / t.Duration.Seconds()
}

// Mbps is the payload rate in megabits per second.
func (t Throughput) Mbps() float64 {
	return float64(t.Count*8*t.MsgSize) / t.Duration.Seconds() / 1e6
}

// ThroughputServer is the server side, equivalent to local_thr in
// nanomsg/perf.  It measures by counting the messages it receives after
// an empty start message, and acknowledges the last one.
func ThroughputServer(addr string, msgSize int, count int) (Throughput, error) {
	res := Throughput{MsgSize: msgSize, Count: count}
	s, err := pairSocket(nnsock.BindTo(addr), false)
	if err != nil {
		return res, err
	}
	defer s.Close()
	return countMsgs(s, msgSize, count)
}

// countMsgs times the arrival of count messages on s.
func countMsgs(s *nnsock.Socket, msgSize int, count int) (Throughput, error) {
	res := Throughput{MsgSize: msgSize, Count: count}
	if _, err := s.Recv(1); err != nil {
		return res, errors.Wrap(err, "failed to receive start message")
	}

	start := time.Now()
	for i := 0; i != count; i++ {
		msg, err := s.Recv(msgSize + 1)
		if err != nil {
			return res, errors.Wrap(err, "failed to recv")
		}
		if len(msg) != msgSize {
			return res, errors.Errorf("received wrong message size: %d != %d", len(msg), msgSize)
		}
	}
	res.Duration = time.Since(start)

	s.TrySend([]byte{})
	return res, nil
}

// ThroughputClient is the client side of the throughput test,
// equivalent to remote_thr.  It sends count messages of msgSize bytes,
// then waits up to the linger time for the server's acknowledgement so
// the last messages are not lost when the socket closes.
func ThroughputClient(addr string, msgSize int, count int) error {
	s, err := pairSocket(nnsock.ConnectTo(addr), false)
	if err != nil {
		return err
	}
	defer s.Close()

	body := bytes.Repeat([]byte{111}, msgSize)

	if err = sendErr(s.Send([]byte{})); err != nil {
		return errors.Wrap(err, "failed to send start message")
	}
	for i := 0; i < count; i++ {
		if err = sendErr(s.Send(body)); err != nil {
			return errors.Wrap(err, "failed to send")
		}
	}

	if err = s.SetOption(nnsock.ReceiveTimeout, nnsock.Millis(lingerTime)); err != nil {
		return errors.Wrap(err, "failed to set receive timeout")
	}
	// A peer that does not acknowledge just costs the linger time.
	s.Recv(1)
	return nil
}

func reportThroughput(w io.Writer, t Throughput) {
	fmt.Fprintf(w, "message size: %d [B]\n", t.MsgSize)
	fmt.Fprintf(w, "message count: %d\n", t.Count)
	fmt.Fprintf(w, "throughput: %d [msg/s]\n", uint64(t.MsgsPerSec()))
	fmt.Fprintf(w, "throughput: %.3f [Mb/s]\n", t.Mbps())
}
