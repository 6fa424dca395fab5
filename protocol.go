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
	"fmt"
	"strings"

	"nanomsg.org/go/nnsock/nn"
)

// Protocol is the messaging pattern of a socket, fixed when the socket
// is created.
type Protocol uint8

// The supported patterns.
const (
	Req Protocol = iota + 1
	Rep
	Pub
	Sub
	Push
	Pull
	Pair
	Surveyor
	Respondent
	Bus
)

// Protocols lists every Protocol.
var Protocols = []Protocol{
	Req, Rep, Pub, Sub, Push, Pull, Pair, Surveyor, Respondent, Bus,
}

// native returns the protocol number requested from the native layer.
func (p Protocol) native() int {
	switch p {
	case Req:
		return nn.REQ
	case Rep:
		return nn.REP
	case Pub:
		return nn.PUB
	case Sub:
		return nn.SUB
	case Push:
		return nn.PUSH
	case Pull:
		return nn.PULL
	case Pair:
		return nn.PAIR
	case Surveyor:
		return nn.SURVEYOR
	case Respondent:
		return nn.RESPONDENT
	case Bus:
		return nn.BUS
	}
	panic(fmt.Sprintf("nnsock: invalid Protocol %d", uint8(p)))
}

func (p Protocol) String() string {
	switch p {
	case Req:
		return "req"
	case Rep:
		return "rep"
	case Pub:
		return "pub"
	case Sub:
		return "sub"
	case Push:
		return "push"
	case Pull:
		return "pull"
	case Pair:
		return "pair"
	case Surveyor:
		return "surveyor"
	case Respondent:
		return "respondent"
	case Bus:
		return "bus"
	}
	return fmt.Sprintf("Protocol(%d)", uint8(p))
}

// ParseProtocol returns the Protocol with the given name, as returned
// by String.  Matching is case insensitive.
func ParseProtocol(name string) (Protocol, error) {
	for _, p := range Protocols {
		if strings.EqualFold(name, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("nnsock: unknown protocol %q", name)
}

// Domain selects cooked or raw sockets.
type Domain int

// Domains.
const (
	SP    = Domain(nn.AF_SP)
	SPRaw = Domain(nn.AF_SP_RAW)
)

func (d Domain) String() string {
	switch d {
	case SP:
		return "sp"
	case SPRaw:
		return "raw"
	}
	return fmt.Sprintf("Domain(%d)", int(d))
}
