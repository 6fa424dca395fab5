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

// Package config describes a socket in YAML and opens it.
//
//	protocol: sub
//	connect: [tcp://localhost:5555]
//	options:
//	  receiveTimeout: 250ms
//	subscribe: ["news."]
//
// Options are keyed by the names nnsock.Option.String returns.  Duration
// strings and integers are accepted for millisecond options, integers and
// booleans for scalar options, and strings for byte sequence options.
package config

import (
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"nanomsg.org/go/nnsock"
)

// Profile is the YAML form of a socket.
type Profile struct {
	Protocol    string                 `yaml:"protocol"`
	Domain      string                 `yaml:"domain,omitempty"`
	SettleDelay *time.Duration         `yaml:"settleDelay,omitempty"`
	Bind        []string               `yaml:"bind,omitempty"`
	Connect     []string               `yaml:"connect,omitempty"`
	Options     map[string]interface{} `yaml:"options,omitempty"`
	Subscribe   []string               `yaml:"subscribe,omitempty"`
}

type setting struct {
	opt nnsock.Option
	val nnsock.Value
}

// resolved is a validated Profile.
type resolved struct {
	proto    nnsock.Protocol
	domain   nnsock.Domain
	settle   time.Duration
	settings []setting
}

// Load reads and parses the profile at path.
func Load(path string) (*Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading profile %s", path)
	}
	p, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "profile %s", path)
	}
	return p, nil
}

// Parse decodes and validates a profile.
func Parse(b []byte) (*Profile, error) {
	p := &Profile{}
	if err := yaml.Unmarshal(b, p); err != nil {
		return nil, errors.Wrap(err, "decoding profile")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the protocol, domain and every option of the profile.
func (p *Profile) Validate() error {
	_, err := p.resolve()
	return err
}

func (p *Profile) resolve() (*resolved, error) {
	r := &resolved{domain: nnsock.SP, settle: nnsock.DefaultSettleDelay}

	if p.Protocol == "" {
		return nil, errors.New("protocol is required")
	}
	proto, err := nnsock.ParseProtocol(p.Protocol)
	if err != nil {
		return nil, errors.Wrap(err, "protocol")
	}
	r.proto = proto

	switch strings.ToLower(p.Domain) {
	case "", "sp":
	case "raw":
		r.domain = nnsock.SPRaw
	default:
		return nil, errors.Errorf("unknown domain %q", p.Domain)
	}

	if p.SettleDelay != nil {
		if *p.SettleDelay < 0 {
			return nil, errors.Errorf("negative settleDelay %v", *p.SettleDelay)
		}
		r.settle = *p.SettleDelay
	}

	names := make([]string, 0, len(p.Options))
	for name := range p.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		o, err := nnsock.ParseOption(name)
		if err != nil {
			return nil, errors.Wrap(err, "options")
		}
		v, err := value(o, p.Options[name])
		if err != nil {
			return nil, errors.Wrapf(err, "option %s", name)
		}
		r.settings = append(r.settings, setting{opt: o, val: v})
	}

	if len(p.Subscribe) > 0 && proto != nnsock.Sub {
		return nil, errors.Errorf("subscribe needs protocol sub, not %s", proto)
	}
	return r, nil
}

// value converts a decoded YAML scalar to the shape the option takes.
func value(o nnsock.Option, raw interface{}) (nnsock.Value, error) {
	switch o.Native().Shape {
	case nnsock.ShapeBytes:
		if s, ok := raw.(string); ok {
			return nnsock.Bytes(s), nil
		}
		return nil, errors.Errorf("want a string, got %T", raw)

	case nnsock.ShapeMillis:
		switch v := raw.(type) {
		case int:
			return nnsock.Int(v), nil
		case string:
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, errors.Wrap(err, "bad duration")
			}
			return nnsock.Millis(d), nil
		}
		return nil, errors.Errorf("want a duration or milliseconds, got %T", raw)

	default:
		switch v := raw.(type) {
		case int:
			return nnsock.Int(v), nil
		case bool:
			return nnsock.Bool(v), nil
		}
		return nil, errors.Errorf("want an integer or boolean, got %T", raw)
	}
}

// Open creates the socket the profile describes.  Options are set before
// any endpoint is attached, in name order, and subscriptions last.  The
// socket is closed if any step fails.
func (p *Profile) Open() (*nnsock.Socket, error) {
	r, err := p.resolve()
	if err != nil {
		return nil, err
	}
	s, err := nnsock.NewSocket(r.proto,
		nnsock.WithDomain(r.domain), nnsock.WithSettleDelay(0))
	if err != nil {
		return nil, err
	}
	if err := p.setup(s, r); err != nil {
		s.Close()
		return nil, err
	}
	nnsock.Logger().Info("socket opened",
		zap.Stringer("protocol", r.proto),
		zap.Strings("bind", p.Bind),
		zap.Strings("connect", p.Connect))
	return s, nil
}

func (p *Profile) setup(s *nnsock.Socket, r *resolved) error {
	for _, st := range r.settings {
		if err := s.SetOption(st.opt, st.val); err != nil {
			return err
		}
	}
	for _, uri := range p.Bind {
		if err := s.Bind(uri); err != nil {
			return errors.Wrapf(err, "bind %s", uri)
		}
	}
	for _, uri := range p.Connect {
		if err := s.Connect(uri); err != nil {
			return errors.Wrapf(err, "connect %s", uri)
		}
	}
	for _, topic := range p.Subscribe {
		if err := s.SetOption(nnsock.Subscribe, nnsock.Bytes(topic)); err != nil {
			return errors.Wrapf(err, "subscribe %q", topic)
		}
	}
	if len(p.Connect) > 0 && r.settle > 0 {
		time.Sleep(r.settle)
	}
	return nil
}
