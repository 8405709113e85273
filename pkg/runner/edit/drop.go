package edit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/drag"
)

// Drop runs one drag gesture: Draggable is dropped into To ("<droppable>" or
// "<droppable>:<index>") or onto the Combine tile.
type Drop struct {
	Edit
	Draggable string
	To        string
	Combine   string
}

// Do plans and applies the drop.
func (n *Drop) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not drop, no session")
	}
	r, err := n.Result()
	if err != nil {
		return err
	}
	out, err := n.App.Drop(r)
	if err != nil {
		return err
	}
	if err := n.App.Flush(ctx); err != nil {
		return err
	}
	res := Result{What: n.What, Changed: out.Changed}
	if res.What == "" {
		res.What = "dropped"
	}
	if out.Reason != nil {
		res.Reason = out.Reason.Error()
	}
	return n.print(res)
}

// Result builds the drop result the flags describe.
func (n *Drop) Result() (drag.DropResult, error) {
	r := drag.DropResult{DraggableID: strings.TrimSpace(n.Draggable)}
	if _, err := drag.Classify(r.DraggableID); err != nil {
		return r, err
	}
	to, combine := strings.TrimSpace(n.To), strings.TrimSpace(n.Combine)
	if to != "" && combine != "" {
		return r, errors.New("--to and --combine are exclusive")
	}
	if to != "" {
		id, index := to, 0
		if i := strings.LastIndex(to, ":"); i >= 0 {
			v, err := strconv.Atoi(to[i+1:])
			if err != nil || v < 0 {
				return r, fmt.Errorf("invalid index in %q", to)
			}
			id, index = to[:i], v
		}
		if id != app.NewWindowTarget {
			if _, err := drag.ParseDroppable(id); err != nil {
				return r, err
			}
		}
		r.Destination = &drag.Location{DroppableID: id, Index: index}
	}
	if combine != "" {
		if combine != app.NewGroupTarget {
			d, err := drag.Classify(combine)
			if err != nil || d.Kind != drag.GroupDrag {
				return r, fmt.Errorf("combine target %q is not a group", combine)
			}
		}
		r.Combine = &drag.Combine{DraggableID: combine, DroppableID: drag.SidePanelDroppable}
	}
	return r, nil
}
