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

package nn

import "strconv"

// Errno is a native error number.  The values follow the POSIX numbering
// used on Linux; codes without a POSIX equivalent sit above hausnumero,
// as they do in libnanomsg.
type Errno int

const hausnumero = 156384712

// Error numbers.
const (
	EINTR           = Errno(4)
	EIO             = Errno(5)
	EBADF           = Errno(9)
	EAGAIN          = Errno(11)
	EFAULT          = Errno(14)
	EINVAL          = Errno(22)
	EMFILE          = Errno(24)
	ENAMETOOLONG    = Errno(36)
	EMSGSIZE        = Errno(90)
	ENOPROTOOPT     = Errno(92)
	EPROTONOSUPPORT = Errno(93)
	ENOTSUP         = Errno(95)
	EAFNOSUPPORT    = Errno(97)
	EADDRINUSE      = Errno(98)
	EADDRNOTAVAIL   = Errno(99)
	ETIMEDOUT       = Errno(110)
	ECONNREFUSED    = Errno(111)
	ETERM           = Errno(hausnumero + 53)
	EFSM            = Errno(hausnumero + 54)
)

var errnoText = map[Errno]string{
	EINTR:           "Interrupted system call",
	EIO:             "Input/output error",
	EBADF:           "Bad file descriptor",
	EAGAIN:          "Resource temporarily unavailable",
	EFAULT:          "Bad address",
	EINVAL:          "Invalid argument",
	EMFILE:          "Too many open files",
	ENAMETOOLONG:    "File name too long",
	EMSGSIZE:        "Message too long",
	ENOPROTOOPT:     "Protocol not available",
	EPROTONOSUPPORT: "Protocol not supported",
	ENOTSUP:         "Operation not supported",
	EAFNOSUPPORT:    "Address family not supported by protocol",
	EADDRINUSE:      "Address already in use",
	EADDRNOTAVAIL:   "Cannot assign requested address",
	ETIMEDOUT:       "Connection timed out",
	ECONNREFUSED:    "Connection refused",
	ETERM:           "Nanomsg library was terminated",
	EFSM:            "Operation cannot be performed in this state",
}

// Error returns the description of the error number, like nn_strerror.
func (e Errno) Error() string {
	if s, ok := errnoText[e]; ok {
		return s
	}
	return "errno " + strconv.Itoa(int(e))
}

// Timeout reports whether the error is a deadline expiry.
func (e Errno) Timeout() bool {
	return e == ETIMEDOUT || e == EAGAIN
}

// Temporary reports whether retrying the same call may succeed.
func (e Errno) Temporary() bool {
	return e == EAGAIN || e == EINTR || e == ETIMEDOUT
}

// fail is the return value of a call failing with e.
func fail(e Errno) int {
	return -int(e)
}
