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

import "time"

// A ProbeOutcome is the result of one probe attempt. It is produced once and
// never mutated. The responder's self-reported health score is carried even
// on failure so the caller can tell "target is dead" apart from "target is
// alive but the responder is overloaded and should be trusted less".
//
// The distinction between "no reply" and "explicit error" lives only in
// FailureDetail; it never drives control flow.
type ProbeOutcome struct {
	Succeeded            bool          `json:"succeeded"`
	ResponderHealthScore float64       `json:"responderHealthScore"`
	RoundTrip            time.Duration `json:"roundTripNs"`
	FailureDetail        string        `json:"failureDetail,omitempty"`
}
