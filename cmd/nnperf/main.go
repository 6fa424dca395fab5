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

// nnperf measures nnsock performance the way libnanomsg's perf tools
// do.  It is run as one of local_lat, remote_lat, local_thr, remote_thr,
// inproc_lat or inproc_thr, either through a link of that name or with
// the name as the first argument.
package main

import (
	"os"
	"path"
	"strconv"
	"time"

	"github.com/droundy/goopt"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"nanomsg.org/go/nnsock"
)

var log = zap.NewNop()

var verbose = goopt.Flag([]string{"--verbose", "-v"}, nil,
	"Log socket activity", "")

func init() {
	goopt.Description = func() string {
		return "nnperf measures latency and throughput over nnsock sockets."
	}
	goopt.Author = "The Mangos Authors"
	goopt.Suite = "nnsock"
	goopt.Summary = "nnsock performance tests"
}

// ints parses the numeric arguments of a test.
func ints(names []string, args []string) ([]int, error) {
	if len(args) < len(names) {
		return nil, errors.Errorf("want %d arguments, got %d", len(names), len(args))
	}
	vals := make([]int, len(names))
	for i, name := range names {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, errors.Wrapf(err, "bad %s", name)
		}
		vals[i] = v
	}
	return vals, nil
}

type command struct {
	usage string
	run   func(args []string) error
}

// addressed parses "<addr> <size> <count>".
func addressed(args []string) (string, int, int, error) {
	if len(args) < 1 {
		return "", 0, 0, errors.New("missing address")
	}
	n, err := ints([]string{"msg-size", "count"}, args[1:])
	if err != nil {
		return "", 0, 0, err
	}
	return args[0], n[0], n[1], nil
}

var commands = map[string]command{
	"remote_lat": {"<connect-to> <msg-size> <roundtrips>", func(args []string) error {
		addr, size, trips, err := addressed(args)
		if err != nil {
			return err
		}
		lat, err := LatencyClient(addr, size, trips)
		if err != nil {
			return err
		}
		reportLatency(os.Stdout, size, trips, lat)
		return nil
	}},
	"local_lat": {"<bind-to> <msg-size> <roundtrips>", func(args []string) error {
		addr, size, trips, err := addressed(args)
		if err != nil {
			return err
		}
		return LatencyServer(addr, size, trips)
	}},
	"remote_thr": {"<connect-to> <msg-size> <msg-count>", func(args []string) error {
		addr, size, count, err := addressed(args)
		if err != nil {
			return err
		}
		return ThroughputClient(addr, size, count)
	}},
	"local_thr": {"<bind-to> <msg-size> <msg-count>", func(args []string) error {
		addr, size, count, err := addressed(args)
		if err != nil {
			return err
		}
		res, err := ThroughputServer(addr, size, count)
		if err != nil {
			return err
		}
		reportThroughput(os.Stdout, res)
		return nil
	}},
	"inproc_lat": {"<msg-size> <roundtrip-count>", func(args []string) error {
		n, err := ints([]string{"msg-size", "roundtrip-count"}, args)
		if err != nil {
			return err
		}
		lat, err := inprocLatency(n[0], n[1])
		if err != nil {
			return err
		}
		reportLatency(os.Stdout, n[0], n[1], lat)
		return nil
	}},
	"inproc_thr": {"<msg-size> <msg-count>", func(args []string) error {
		n, err := ints([]string{"msg-size", "msg-count"}, args)
		if err != nil {
			return err
		}
		res, err := inprocThroughput(n[0], n[1])
		if err != nil {
			return err
		}
		reportThroughput(os.Stdout, res)
		return nil
	}},
}

const inprocAddr = "inproc://nnperf"

// inprocLatency runs both latency sides in this process.  The server
// is bound before the client connects.
func inprocLatency(size, count int) (time.Duration, error) {
	s, err := pairSocket(nnsock.BindTo(inprocAddr), true)
	if err != nil {
		return 0, err
	}
	srv := make(chan error, 1)
	go func() {
		defer s.Close()
		srv <- echo(s, size, count)
	}()
	lat, err := LatencyClient(inprocAddr, size, count)
	if serr := <-srv; err == nil {
		err = serr
	}
	return lat, err
}

// inprocThroughput runs both throughput sides in this process.  The
// server is bound before the client connects.
func inprocThroughput(size, count int) (Throughput, error) {
	s, err := pairSocket(nnsock.BindTo(inprocAddr), false)
	if err != nil {
		return Throughput{MsgSize: size, Count: count}, err
	}
	defer s.Close()
	cli := make(chan error, 1)
	go func() { cli <- ThroughputClient(inprocAddr, size, count) }()
	res, err := countMsgs(s, size, count)
	if cerr := <-cli; err == nil {
		err = cerr
	}
	return res, err
}

func main() {
	goopt.Parse(nil)
	if *verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			log = l
		}
	}
	defer log.Sync()
	nnsock.SetLogger(log)

	args := append([]string{path.Base(os.Args[0])}, goopt.Args...)
	for tries := 0; tries < 2 && len(args) > 0; tries++ {
		if cmd, ok := commands[args[0]]; ok {
			if err := cmd.run(args[1:]); err != nil {
				log.Error("test failed", zap.Error(err))
				os.Stderr.WriteString(err.Error() + "\nusage: " + args[0] + " " + cmd.usage + "\n")
				os.Exit(1)
			}
			return
		}
		args = args[1:]
	}
	os.Stderr.WriteString(goopt.Usage())
	os.Exit(1)
}
