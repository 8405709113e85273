// Package track keeps the live group in step with the snapshot file.
package track

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/live"
	"tableflip.dev/tabtree/pkg/logging"
)

// Track follows a snapshot file until the context ends.
type Track struct {
	App     *app.Service
	Tracker *live.Tracker
	Log     *logrus.Entry
}

// Do blocks while following. Cancellation is a clean exit.
func (n *Track) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not track, no session")
	}
	if n.Tracker == nil {
		return errors.New("no live snapshot configured (set live.snapshot or pass --snapshot)")
	}
	log := n.Log
	if log == nil {
		log = logging.Component(nil, "live")
	}
	log.WithField("path", n.Tracker.Path()).Info("following")
	err := n.App.Follow(ctx, n.Tracker)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if ferr := n.App.Flush(context.Background()); err == nil {
		err = ferr
	}
	return err
}
