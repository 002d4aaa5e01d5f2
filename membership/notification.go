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
	"context"

	log "github.com/uber-common/bark"

	"github.com/quorumlabs/siloswim/logging"
)

// handleChangeNotification routes one inbound gossip notification: a
// snapshot at the sentinel version triggers a full table pull, any other
// snapshot is handed to the store as-is. The store discards stale versions
// itself; the comparison is not duplicated here. Either branch is terminal
// for the notification — failures are logged and left to the next gossip
// round or detector cycle.
func handleChangeNotification(ctx context.Context, n *Node, note *changeNotification) error {
	err := n.invoke(func() {
		n.serverRate.Mark(1)
		n.totalRate.Mark(1)

		n.emit(NotificationReceiveEvent{
			Local:   n.address,
			Source:  note.Source,
			Version: note.Snapshot.Version,
		})
	})
	if err != nil {
		return err
	}

	logger := logging.Logger("notify").WithField("local", n.address.String())

	// Store calls run off the intake queue; the store owns its own
	// concurrency discipline.
	if !note.Snapshot.Version.Known() {
		n.emit(RefreshTriggeredEvent{Local: n.address, Source: note.Source})

		if err := n.store.Refresh(ctx); err != nil {
			n.emit(TableRefreshErrorEvent{Local: n.address})

			logger.WithFields(log.Fields{
				"source": note.Source.String(),
				"round":  note.Round,
				"error":  err,
			}).Warn("membership table refresh failed")
		}
		return nil
	}

	if err := n.store.ApplySnapshot(ctx, note.Snapshot); err != nil {
		n.emit(SnapshotApplyErrorEvent{Local: n.address, Version: note.Snapshot.Version})

		logger.WithFields(log.Fields{
			"source":  note.Source.String(),
			"round":   note.Round,
			"version": note.Snapshot.Version,
			"error":   err,
		}).Warn("membership snapshot apply failed")
		return nil
	}

	n.emit(SnapshotAppliedEvent{
		Local:    n.address,
		Source:   note.Source,
		Version:  note.Snapshot.Version,
		Checksum: note.Snapshot.Checksum(),
	})

	logger.WithFields(log.Fields{
		"source":  note.Source.String(),
		"round":   note.Round,
		"version": note.Snapshot.Version,
	}).Debug("membership snapshot applied")

	return nil
}
