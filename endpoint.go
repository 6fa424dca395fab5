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
	"strings"
	"time"
)

// EndpointKind says whether an Endpoint binds or connects.
type EndpointKind uint8

// Endpoint kinds.
const (
	BindEndpoint EndpointKind = iota + 1
	ConnectEndpoint
)

// Endpoint is a URI to bind or connect to, such as "tcp://localhost:5555",
// "ipc:///tmp/feed.ipc" or "inproc://feed".  An Endpoint passed to
// NewSocket is attached as part of socket creation.
type Endpoint struct {
	Kind EndpointKind
	URI  string
}

// BindTo returns an Endpoint that listens on uri.
func BindTo(uri string) Endpoint {
	return Endpoint{Kind: BindEndpoint, URI: uri}
}

// ConnectTo returns an Endpoint that dials uri.
func ConnectTo(uri string) Endpoint {
	return Endpoint{Kind: ConnectEndpoint, URI: uri}
}

func (ep Endpoint) String() string {
	if ep.Kind == BindEndpoint {
		return "bind " + ep.URI
	}
	return "connect " + ep.URI
}

func (ep Endpoint) apply(c *createConfig) {
	c.endpoints = append(c.endpoints, ep)
}

var hostSchemes = []string{"tcp://", "tls+tcp://", "ws://", "wss://"}

// BindAddress rewrites a host of exactly "localhost" in uri to the empty
// host, which listens on every interface.  This lets one URI serve both
// the binding and the connecting side.  Schemes without a host part,
// such as ipc and inproc, are returned unchanged.
func BindAddress(uri string) string {
	for _, scheme := range hostSchemes {
		if !strings.HasPrefix(uri, scheme) {
			continue
		}
		rest := uri[len(scheme):]
		host := rest
		if i := strings.IndexAny(rest, ":/"); i >= 0 {
			host = rest[:i]
		}
		if host == "localhost" {
			return scheme + rest[len(host):]
		}
		return uri
	}
	return uri
}

// CreateOption configures NewSocket.  Endpoint values are CreateOptions
// too.
type CreateOption interface {
	apply(*createConfig)
}

type createConfig struct {
	domain    Domain
	endpoints []Endpoint
	settle    time.Duration
}

type domainOption Domain

func (d domainOption) apply(c *createConfig) { c.domain = Domain(d) }

// WithDomain selects the socket domain.  The default is SP.
func WithDomain(d Domain) CreateOption {
	return domainOption(d)
}

type settleOption time.Duration

func (d settleOption) apply(c *createConfig) { c.settle = time.Duration(d) }

// WithSettleDelay sets how long NewSocket waits after connecting, giving
// the connection a chance to complete before the first send.  Zero skips
// the wait.  The default is DefaultSettleDelay.
func WithSettleDelay(d time.Duration) CreateOption {
	return settleOption(d)
}
