package report

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/logging"
	"tableflip.dev/tabtree/pkg/reducer"
	"tableflip.dev/tabtree/pkg/store"
)

func TestReportJSON(t *testing.T) {
	ctx := context.Background()
	s, err := app.Open(ctx, app.Options{Transport: store.NewMemory(), Logger: logging.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close(ctx)
	if _, err := s.Dispatch(reducer.AddGroupAction{Name: "Fresh"}); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	r := Report{App: s, Window: "1h", JSON: true, Out: &out, Now: func() time.Time { return time.Now().Add(time.Minute) }}
	if err := r.Do(ctx); err != nil {
		t.Fatal(err)
	}
	var result app.ReportResult
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Items) != 1 || result.Items[0].Name != "Fresh" {
		t.Fatalf("items = %+v", result.Items)
	}

	r.Window = "3y"
	if err := r.Do(ctx); err == nil {
		t.Fatalf("expected window error")
	}
}
