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

// nncat implements a nanocat(1) workalike command.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/droundy/goopt"
	"github.com/pkg/errors"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"nanomsg.org/go/nnsock"
	"nanomsg.org/go/nnsock/config"
	"nanomsg.org/go/nnsock/nn"
)

var verbose int
var proto string
var domain string
var configPath string
var listOnly bool
var dialAddrs []string
var listenAddrs []string
var subscriptions []string
var recvTimeout = time.Duration(-1)
var sendTimeout = time.Duration(-1)
var sendInterval time.Duration
var sendDelay time.Duration
var sendData []byte
var printFormat format
var recvCapacity = 64 * 1024
var bindRetries int

var log = zap.NewNop()

func setProto(p string) error {
	if proto != "" {
		return errors.New("protocol already selected")
	}
	proto = p
	return nil
}

func addDial(addr string) error {
	if !strings.Contains(addr, "://") {
		return errors.New("invalid address format")
	}
	dialAddrs = append(dialAddrs, addr)
	return nil
}

func addListen(addr string) error {
	if !strings.Contains(addr, "://") {
		return errors.New("invalid address format")
	}
	listenAddrs = append(listenAddrs, addr)
	return nil
}

func setSendData(data string) error {
	if sendData != nil {
		return errors.New("data or file already set")
	}
	sendData = []byte(data)
	return nil
}

func setSendFile(path string) error {
	if sendData != nil {
		return errors.New("data or file already set")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sendData = b
	return nil
}

func setFormat(s string) error {
	if printFormat != "" {
		return errors.New("output format already set")
	}
	f, err := parseFormat(s)
	if err != nil {
		return err
	}
	printFormat = f
	return nil
}

// seconds parses a possibly fractional number of seconds.
func seconds(into *time.Duration) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return errors.New("value not a non-negative number")
		}
		*into = time.Duration(v * float64(time.Second))
		return nil
	}
}

func fatalf(format string, v ...interface{}) {
	fmt.Fprintln(os.Stderr, fmt.Sprintf(format, v...))
	os.Exit(1)
}

func init() {
	goopt.NoArg([]string{"--verbose", "-v"}, "Increase verbosity",
		func() error {
			verbose++
			return nil
		})
	goopt.NoArg([]string{"--silent", "-q"}, "Decrease verbosity",
		func() error {
			verbose--
			return nil
		})

	for _, p := range nnsock.Protocols {
		name := p.String()
		goopt.NoArg([]string{"--" + name},
			"Use "+strings.ToUpper(name)+" socket type",
			func() error {
				return setProto(name)
			})
	}
	goopt.ReqArg([]string{"--domain"}, "DOMAIN",
		"Socket domain, sp (default) or raw",
		func(d string) error {
			domain = d
			return nil
		})
	goopt.ReqArg([]string{"--config", "-c"}, "FILE",
		"Read the socket profile from YAML FILE", func(path string) error {
			configPath = path
			return nil
		})
	goopt.NoArg([]string{"--list-options"}, "List socket options and exit",
		func() error {
			listOnly = true
			return nil
		})

	goopt.ReqArg([]string{"--bind"}, "ADDR", "Bind socket to ADDR",
		addListen)
	goopt.ReqArg([]string{"--connect"}, "ADDR", "Connect socket to ADDR",
		addDial)
	goopt.ReqArg([]string{"--bind-ipc", "-X"}, "PATH",
		"Bind socket to IPC PATH", func(path string) error {
			return addListen("ipc://" + path)
		})
	goopt.ReqArg([]string{"--connect-ipc", "-x"}, "PATH",
		"Connect socket to IPC PATH", func(path string) error {
			return addDial("ipc://" + path)
		})
	goopt.ReqArg([]string{"--bind-local", "-L"}, "PORT",
		"Bind socket to TCP localhost PORT", func(port string) error {
			return addListen("tcp://127.0.0.1:" + port)
		})
	goopt.ReqArg([]string{"--connect-local", "-l"}, "PORT",
		"Connect socket to TCP localhost PORT", func(port string) error {
			return addDial("tcp://127.0.0.1:" + port)
		})
	goopt.ReqArg([]string{"--bind-retries"}, "N",
		"Retry a bind whose address is in use N times", func(n string) error {
			var err error
			if bindRetries, err = strconv.Atoi(n); err != nil || bindRetries < 0 {
				return errors.New("value not a non-negative integer")
			}
			return nil
		})
	goopt.ReqArg([]string{"--subscribe"}, "PREFIX",
		"Subscribe to PREFIX (default is wildcard)", func(sub string) error {
			subscriptions = append(subscriptions, sub)
			return nil
		})

	goopt.ReqArg([]string{"--recv-timeout"}, "SEC", "Set receive timeout",
		seconds(&recvTimeout))
	goopt.ReqArg([]string{"--send-timeout"}, "SEC", "Set send timeout",
		seconds(&sendTimeout))
	goopt.ReqArg([]string{"--send-delay", "-d"}, "SEC",
		"Set initial send delay", seconds(&sendDelay))
	goopt.ReqArg([]string{"--interval", "-i"}, "SEC",
		"Send DATA every SEC seconds", seconds(&sendInterval))
	goopt.ReqArg([]string{"--recv-size"}, "BYTES",
		"Truncate received messages to BYTES", func(n string) error {
			var err error
			if recvCapacity, err = strconv.Atoi(n); err != nil || recvCapacity <= 0 {
				return errors.New("value not a positive integer")
			}
			return nil
		})

	goopt.NoArg([]string{"--raw"}, "Raw output, no delimiters",
		func() error {
			return setFormat("raw")
		})
	goopt.NoArg([]string{"--ascii", "-A"}, "ASCII output, one per line",
		func() error {
			return setFormat("ascii")
		})
	goopt.NoArg([]string{"--quoted", "-Q"}, "Quoted output, one per line",
		func() error {
			return setFormat("quoted")
		})
	goopt.NoArg([]string{"--msgpack"},
		"Msgpacked binary output (see msgpack.org)",
		func() error {
			return setFormat("msgpack")
		})

	goopt.ReqArg([]string{"--data", "-D"}, "DATA", "Data to send",
		setSendData)
	goopt.ReqArg([]string{"--file", "-F"}, "FILE", "Send contents of FILE",
		setSendFile)

	goopt.Description = func() string {
		return `nncat is a command-line interface to send and receive
data over nnsock sockets.  It is designed to be suitable for use as a
drop-in replacement for nanocat(1). `
	}

	goopt.Author = "The Mangos Authors"

	goopt.Suite = "nnsock"

	goopt.Summary = "command line interface to nnsock messaging"
}

func newLogger(verbose int) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	switch {
	case verbose > 1:
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case verbose == 1:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case verbose < 0:
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// buildProfile merges the command line into the --config profile, if
// any.  Command line addresses and subscriptions are added to the
// profile's, and command line settings replace the profile's.
func buildProfile() (*config.Profile, error) {
	p := &config.Profile{}
	if configPath != "" {
		var err error
		if p, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	if proto != "" {
		p.Protocol = proto
	}
	if domain != "" {
		p.Domain = domain
	}
	p.Bind = append(p.Bind, listenAddrs...)
	p.Connect = append(p.Connect, dialAddrs...)
	p.Subscribe = append(p.Subscribe, subscriptions...)
	if p.Options == nil {
		p.Options = make(map[string]interface{})
	}
	if recvTimeout >= 0 {
		p.Options[nnsock.ReceiveTimeout.String()] = recvTimeout.String()
	}
	if sendTimeout >= 0 {
		p.Options[nnsock.SendTimeout.String()] = sendTimeout.String()
	}

	if p.Protocol == "" {
		return nil, errors.New("protocol not specified")
	}
	if len(p.Bind) == 0 && len(p.Connect) == 0 {
		return nil, errors.New("no address specified")
	}
	if strings.EqualFold(p.Protocol, nnsock.Sub.String()) && len(p.Subscribe) == 0 {
		p.Subscribe = []string{""}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// bindWithRetry binds uri, retrying up to retries times with exponential
// backoff while the address is in use.
func bindWithRetry(sock *nnsock.Socket, uri string, retries int) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	for attempt := 0; ; attempt++ {
		err := sock.Bind(uri)
		if err == nil || attempt >= retries || !errors.Is(err, nn.EADDRINUSE) {
			return err
		}
		sleep := b.NextBackOff()
		if sleep == backoff.Stop {
			return err
		}
		log.Warn("address in use, retrying bind",
			zap.String("uri", uri),
			zap.Int("attempt", attempt+1),
			zap.Duration("sleep", sleep))
		time.Sleep(sleep)
	}
}

// open creates the socket.  Binds are made after the profile is applied
// so they can be retried.
func open(p *config.Profile) (*nnsock.Socket, error) {
	binds := p.Bind
	p.Bind = nil
	sock, err := p.Open()
	if err != nil {
		return nil, err
	}
	for _, uri := range binds {
		if err := bindWithRetry(sock, uri, bindRetries); err != nil {
			sock.Close()
			return nil, errors.Wrapf(err, "bind %s", uri)
		}
	}
	return sock, nil
}

// endOfInput reports whether a receive error just means nothing more is
// coming: the receive timeout expired or the survey ended.
func endOfInput(err error) bool {
	return errors.Is(err, nn.ETIMEDOUT) || errors.Is(err, nn.EFSM)
}

func recvLoop(sock *nnsock.Socket) {
	for {
		msg, err := sock.Recv(recvCapacity)
		if endOfInput(err) {
			return
		}
		if err != nil {
			fatalf("Recv failed: %v", err)
		}
		if err := writeMsg(os.Stdout, printFormat, msg); err != nil {
			fatalf("Output failed: %v", err)
		}
	}
}

func sendLoop(sock *nnsock.Socket) {
	for {
		if rc := sock.Send(sendData); rc < 0 {
			fatalf("Send failed: %v", nn.Errno(-rc))
		}
		if sendInterval <= 0 {
			return
		}
		time.Sleep(sendInterval)
	}
}

func replyLoop(sock *nnsock.Socket) {
	for {
		msg, err := sock.Recv(recvCapacity)
		if endOfInput(err) {
			return
		}
		if err != nil {
			fatalf("Recv failed: %v", err)
		}
		if err := writeMsg(os.Stdout, printFormat, msg); err != nil {
			fatalf("Output failed: %v", err)
		}
		if rc := sock.Send(sendData); rc < 0 {
			fatalf("Send failed: %v", nn.Errno(-rc))
		}
	}
}

func main() {
	goopt.Parse(nil)

	if listOnly {
		listOptions(os.Stdout)
		return
	}

	log = newLogger(verbose)
	defer log.Sync()
	nnsock.SetLogger(log)

	if printFormat == "" {
		printFormat = formatNone
	}

	p, err := buildProfile()
	if err != nil {
		fatalf("%v", err)
	}
	sock, err := open(p)
	if err != nil {
		fatalf("Failed creating socket: %v", err)
	}
	defer sock.Close()

	log.Info("socket ready",
		zap.Int("verbose", verbose),
		zap.Stringer("protocol", sock.Protocol()))

	time.Sleep(sendDelay)

	var wg conc.WaitGroup
	needData := func() {
		if sendData == nil {
			fatalf("No data to send!")
		}
	}

	switch sock.Protocol() {
	case nnsock.Push, nnsock.Pub:
		needData()
		wg.Go(func() { sendLoop(sock) })
	case nnsock.Pull, nnsock.Sub:
		wg.Go(func() { recvLoop(sock) })
	case nnsock.Pair, nnsock.Bus:
		if sendData != nil {
			wg.Go(func() { sendLoop(sock) })
		}
		wg.Go(func() { recvLoop(sock) })
	case nnsock.Surveyor, nnsock.Req:
		needData()
		wg.Go(func() { sendLoop(sock) })
		wg.Go(func() { recvLoop(sock) })
	case nnsock.Rep, nnsock.Respondent:
		if sendData != nil {
			wg.Go(func() { replyLoop(sock) })
		} else {
			wg.Go(func() { recvLoop(sock) })
		}
	default:
		fatalf("Unknown protocol!")
	}

	wg.Wait()
}
