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
	"runtime"
	"testing"
	"time"

	"nanomsg.org/go/nnsock/nn"
)

func benchmarkReq(t *testing.B, url string, size int) {
	srvsock, err := NewSocket(Rep, BindTo(url))
	if err != nil {
		t.Fatalf("Failed creating server socket: %v", err)
	}
	defer srvsock.Close()
	clisock, err := NewSocket(Req, ConnectTo(url))
	if err != nil {
		t.Fatalf("Failed creating client socket: %v", err)
	}
	defer clisock.Close()

	// echo server
	go func() {
		for {
			msg, err := srvsock.Recv(size + 1)
			if err != nil {
				return
			}
			if rc := srvsock.Send(msg); rc < 0 {
				return
			}
		}
	}()

	t.ResetTimer()
	msg := make([]byte, size)

	for i := 0; i < t.N; i++ {
		if rc := clisock.Send(msg); rc < 0 {
			t.Fatalf("Client send failed: %v", nn.Errno(-rc))
		}
		if msg, err = clisock.Recv(size + 1); err != nil {
			t.Fatalf("Client receive failed: %v", err)
		}
	}
	if size > 128 {
		t.SetBytes(int64(size))
	}
}

func benchmarkPair(t *testing.B, url string, size int) {
	finish := make(chan struct{})
	srvsock, err := NewSocket(Pair, BindTo(url))
	if err != nil {
		t.Fatalf("Failed creating server socket: %v", err)
	}
	defer srvsock.Close()
	clisock, err := NewSocket(Pair, ConnectTo(url))
	if err != nil {
		t.Fatalf("Failed creating client socket: %v", err)
	}
	defer clisock.Close()

	go func() {
		defer close(finish)
		for i := 0; i < t.N; i++ {
			if _, err := srvsock.Recv(size); err != nil {
				t.Errorf("Error receiving %d: %v", i, err)
				return
			}
		}
	}()

	time.Sleep(100 * time.Millisecond)
	t.ResetTimer()
	msg := make([]byte, size)

	for i := 0; i < t.N; i++ {
		if rc := clisock.Send(msg); rc < 0 {
			t.Fatalf("Client send failed: %v", nn.Errno(-rc))
		}
	}
	<-finish
	t.StopTimer()
	if size > 128 {
		t.SetBytes(int64(size))
	}
}

func BenchmarkLatencyInproc(t *testing.B) {
	benchmarkReq(t, "inproc://somename", 0)
}

func BenchmarkLatencyIPC(t *testing.B) {
	if runtime.GOOS == "windows" {
		t.Skip("IPC not supported on Windows")
	}
	benchmarkReq(t, "ipc:///tmp/benchmark_ipc", 0)
}

func BenchmarkLatencyTCP(t *testing.B) {
	benchmarkReq(t, "tcp://localhost:3333", 0)
}

func BenchmarkThruputInproc(t *testing.B) {
	benchmarkPair(t, "inproc://anothername", 65536)
}

func BenchmarkThruputIPC(t *testing.B) {
	if runtime.GOOS == "windows" {
		t.Skip("IPC not supported on Windows")
	}
	benchmarkPair(t, "ipc:///tmp/benchmark_ipc", 65536)
}

func BenchmarkThruputTCP(t *testing.B) {
	benchmarkPair(t, "tcp://localhost:3333", 65536)
}
