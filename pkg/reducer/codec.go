package reducer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Envelope is the wire form of an action.
type Envelope struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

var factories = map[Type]func() Action{
	AddGroup:                      func() Action { return &AddGroupAction{} },
	AddWindow:                     func() Action { return &AddWindowAction{} },
	DeleteGroup:                   func() Action { return &DeleteGroupAction{} },
	DeleteWindow:                  func() Action { return &DeleteWindowAction{} },
	DeleteTab:                     func() Action { return &DeleteTabAction{} },
	UpdateGroupOrder:              func() Action { return &UpdateGroupOrderAction{} },
	UpdateWindowsFromGroupDnD:     func() Action { return &UpdateWindowsFromGroupDnDAction{} },
	UpdateTabsFromGroupDnD:        func() Action { return &UpdateTabsFromGroupDnDAction{} },
	UpdateWindowsFromSidePanelDnD: func() Action { return &UpdateWindowsFromSidePanelDnDAction{} },
	UpdateTabsFromSidePanelDnD:    func() Action { return &UpdateTabsFromSidePanelDnDAction{} },
	ClearEmptyWindows:             func() Action { return &ClearEmptyWindowsAction{} },
	ClearEmptyGroups:              func() Action { return &ClearEmptyGroupsAction{} },
	DuplicateGroup:                func() Action { return &DuplicateGroupAction{} },
	MergeWithCurrent:              func() Action { return &MergeWithCurrentAction{} },
	ReplaceWithCurrent:            func() Action { return &ReplaceWithCurrentAction{} },
	UniteWindows:                  func() Action { return &UniteWindowsAction{} },
	SplitWindows:                  func() Action { return &SplitWindowsAction{} },
	UpdateName:                    func() Action { return &UpdateNameAction{} },
	UpdateColor:                   func() Action { return &UpdateColorAction{} },
	UpdateInfo:                    func() Action { return &UpdateInfoAction{} },
	UpdateTimestamp:               func() Action { return &UpdateTimestampAction{} },
	UpdateWindowName:              func() Action { return &UpdateWindowNameAction{} },
	ToggleWindowStarred:           func() Action { return &ToggleWindowStarredAction{} },
	UpdateActive:                  func() Action { return &UpdateActiveAction{} },
	UpdateWindows:                 func() Action { return &UpdateWindowsAction{} },
	ImportGroups:                  func() Action { return &ImportGroupsAction{} },
	UpdateDuplicates:              func() Action { return &UpdateDuplicatesAction{} },
}

// Types lists every action type in lexical order.
func Types() []Type {
	out := make([]Type, 0, len(factories))
	for t := range factories {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Decode builds the action named t from its JSON payload. Unknown payload
// fields are rejected.
func Decode(t Type, payload []byte) (Action, error) {
	newAction, ok := factories[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, t)
	}
	ptr := newAction()
	if len(bytes.TrimSpace(payload)) > 0 && !bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(payload))
		dec.DisallowUnknownFields()
		if err := dec.Decode(ptr); err != nil {
			return nil, fmt.Errorf("reducer: decode %s: %w", t, err)
		}
	}
	return deref(ptr), nil
}

// DecodeEnvelope decodes {"type": ..., "payload": ...}.
func DecodeEnvelope(data []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("reducer: decode envelope: %w", err)
	}
	return Decode(env.Type, env.Payload)
}

// Encode renders a into its envelope.
func Encode(a Action) (Envelope, error) {
	a = unwrap(a)
	if a == nil {
		return Envelope{}, ErrUnknownAction
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return Envelope{}, fmt.Errorf("reducer: encode %s: %w", a.Type(), err)
	}
	return Envelope{Type: a.Type(), Payload: payload}, nil
}

// deref turns the decoding pointer back into the value form the reducer
// switches on.
func deref(a Action) Action {
	switch p := a.(type) {
	case *AddGroupAction:
		return *p
	case *AddWindowAction:
		return *p
	case *DeleteGroupAction:
		return *p
	case *DeleteWindowAction:
		return *p
	case *DeleteTabAction:
		return *p
	case *UpdateGroupOrderAction:
		return *p
	case *UpdateWindowsFromGroupDnDAction:
		return *p
	case *UpdateTabsFromGroupDnDAction:
		return *p
	case *UpdateWindowsFromSidePanelDnDAction:
		return *p
	case *UpdateTabsFromSidePanelDnDAction:
		return *p
	case *ClearEmptyWindowsAction:
		return *p
	case *ClearEmptyGroupsAction:
		return *p
	case *DuplicateGroupAction:
		return *p
	case *MergeWithCurrentAction:
		return *p
	case *ReplaceWithCurrentAction:
		return *p
	case *UniteWindowsAction:
		return *p
	case *SplitWindowsAction:
		return *p
	case *UpdateNameAction:
		return *p
	case *UpdateColorAction:
		return *p
	case *UpdateInfoAction:
		return *p
	case *UpdateTimestampAction:
		return *p
	case *UpdateWindowNameAction:
		return *p
	case *ToggleWindowStarredAction:
		return *p
	case *UpdateActiveAction:
		return *p
	case *UpdateWindowsAction:
		return *p
	case *ImportGroupsAction:
		return *p
	case *UpdateDuplicatesAction:
		return *p
	}
	return a
}
