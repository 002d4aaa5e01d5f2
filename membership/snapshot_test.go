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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionOrdering(t *testing.T) {
	assert.True(t, MembershipVersion(2).Newer(1), "expected 2 to be newer than 1")
	assert.False(t, MembershipVersion(1).Newer(1), "equal versions are not newer")
	assert.False(t, MembershipVersion(1).Newer(2), "older versions are not newer")
}

func TestVersionSentinel(t *testing.T) {
	assert.False(t, VersionUnknown.Known(), "the sentinel is not a table version")
	assert.True(t, MembershipVersion(1).Known(), "real versions start above the sentinel")
	assert.True(t, MembershipVersion(1).Newer(VersionUnknown),
		"every real version is newer than the sentinel")
}

func TestSnapshotChecksumStable(t *testing.T) {
	a := NewNodeAddress("10.0.0.1:3000", 10)
	b := NewNodeAddress("10.0.0.2:3000", 20)

	one := TableSnapshot{Version: 3, Entries: []TableEntry{
		{Node: a, Status: Active},
		{Node: b, Status: Joining},
	}}
	two := TableSnapshot{Version: 3, Entries: []TableEntry{
		{Node: a, Status: Active},
		{Node: b, Status: Joining},
	}}

	assert.Equal(t, one.Checksum(), two.Checksum(), "equal entries hash equally")
}

func TestSnapshotChecksumSeesStatusChanges(t *testing.T) {
	a := NewNodeAddress("10.0.0.1:3000", 10)

	alive := TableSnapshot{Version: 3, Entries: []TableEntry{{Node: a, Status: Active}}}
	dead := TableSnapshot{Version: 3, Entries: []TableEntry{{Node: a, Status: Dead}}}

	assert.NotEqual(t, alive.Checksum(), dead.Checksum(),
		"a status change must change the checksum")
}

func TestSnapshotChecksumSeesEpochChanges(t *testing.T) {
	one := TableSnapshot{Version: 3, Entries: []TableEntry{
		{Node: NewNodeAddress("10.0.0.1:3000", 10), Status: Active},
	}}
	two := TableSnapshot{Version: 3, Entries: []TableEntry{
		{Node: NewNodeAddress("10.0.0.1:3000", 11), Status: Active},
	}}

	assert.NotEqual(t, one.Checksum(), two.Checksum(),
		"a restarted process is a different node")
}

func TestNodeAddressString(t *testing.T) {
	addr := NewNodeAddress("10.0.0.1:3000", 42)
	assert.Equal(t, "10.0.0.1:3000@42", addr.String())
}
