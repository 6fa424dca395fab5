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
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"nanomsg.org/go/nnsock"
	"nanomsg.org/go/nnsock/nn"
)

var levelNames = map[int]string{
	nn.SOL_SOCKET: "socket",
	nn.SUB:        "sub",
	nn.REQ:        "req",
	nn.SURVEYOR:   "surveyor",
	nn.TCP:        "tcp",
}

// listOptions prints every socket option with its native mapping.  The
// names are the keys accepted under "options" in a --config profile.
func listOptions(w io.Writer) {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoWrapText(false)
	tw.SetHeader([]string{"Option", "Level", "ID", "Value"})
	for _, o := range nnsock.Options {
		m := o.Native()
		tw.Append([]string{
			o.String(),
			levelNames[m.Level],
			strconv.Itoa(m.ID),
			m.Shape.String(),
		})
	}
	tw.Render()
}
