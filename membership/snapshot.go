// Copyright (c) 2015 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package membership

import (
	"bytes"
	"fmt"

	farm "github.com/dgryski/go-farm"
)

// MembershipVersion is the monotonically increasing version of the
// membership table. Versions are totally ordered; a snapshot with a version
// not strictly newer than the locally held one is a no-op.
type MembershipVersion int64

// VersionUnknown is the minimum sentinel. The table store never produces a
// snapshot at this version; its appearance in a gossip notification means
// "no usable snapshot was attached, pull fresh state instead".
const VersionUnknown MembershipVersion = 0

// Known reports whether v is a legitimate table version rather than the
// minimum sentinel.
func (v MembershipVersion) Known() bool {
	return v != VersionUnknown
}

// Newer reports whether v is strictly newer than other.
func (v MembershipVersion) Newer(other MembershipVersion) bool {
	return v > other
}

// A TableEntry is the status of one node in a membership table snapshot.
type TableEntry struct {
	Node   NodeAddress `json:"node"`
	Status NodeStatus  `json:"status"`
}

// A TableSnapshot is a total, self-consistent view of the membership table
// at one version. It is a value; it is constructed once and never mutated,
// and it carries no partial-update semantics.
type TableSnapshot struct {
	Version MembershipVersion `json:"version"`
	Entries []TableEntry      `json:"entries"`
}

// Checksum is a farm-hash fingerprint over the snapshot's entries, used in
// gossip diagnostics to spot diverging views cheaply.
func (s TableSnapshot) Checksum() uint32 {
	var buffer bytes.Buffer
	for _, entry := range s.Entries {
		fmt.Fprintf(&buffer, "%s=%s;", entry.Node, entry.Status)
	}
	return farm.Fingerprint32(buffer.Bytes())
}
