package reducer

import (
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	a, err := Decode(UpdateName, []byte(`{"group":2,"name":"work"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got, ok := a.(UpdateNameAction); !ok || got.Group != 2 || got.Name != "work" {
		t.Fatalf("decoded %#v", a)
	}

	a, err = Decode(ClearEmptyGroups, nil)
	if err != nil {
		t.Fatalf("decode without payload: %v", err)
	}
	if _, ok := a.(ClearEmptyGroupsAction); !ok {
		t.Fatalf("decoded %#v", a)
	}

	if _, err := Decode("SHUFFLE", nil); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("unknown type = %v", err)
	}
	if _, err := Decode(DeleteTab, []byte(`{"group":1,"windw":0}`)); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	src := Scaffold(UpdateTabsFromGroupDnDAction{Group: 3, SourceWindow: 1, SourceTab: 2, DestinationWindow: 0, DestinationTab: 4})
	env, err := Encode(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if env.Type != UpdateTabsFromGroupDnD {
		t.Fatalf("type = %s", env.Type)
	}
	data := []byte(`{"type":"` + string(env.Type) + `","payload":` + string(env.Payload) + `}`)
	got, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != unwrap(src) {
		t.Fatalf("round trip = %#v", got)
	}
}

func TestTypesCoversFactories(t *testing.T) {
	types := Types()
	if len(types) != 27 {
		t.Fatalf("got %d action types", len(types))
	}
	for _, ty := range types {
		a, err := Decode(ty, nil)
		if err != nil {
			t.Fatalf("decode %s: %v", ty, err)
		}
		if a.Type() != ty {
			t.Fatalf("%s decoded into %s", ty, a.Type())
		}
	}
}
