package main

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestEmitWritesUnescapedJSONInJSONMode(t *testing.T) {
	jsonMode := true
	ctx := newCommandContext(nil, &jsonMode)
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	rendered := false
	view := map[string]string{"path": "/volume1/video/tom & jerry.mp4"}
	if err := ctx.emit(cmd, view, func(io.Writer) { rendered = true }); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if rendered {
		t.Fatal("human renderer must not run in json mode")
	}
	requireContains(t, out.String(), "tom & jerry.mp4")

	var decoded map[string]string
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
}

func TestEmitRendersHumanViewByDefault(t *testing.T) {
	jsonMode := false
	ctx := newCommandContext(nil, &jsonMode)
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := ctx.emit(cmd, struct{}{}, func(w io.Writer) { io.WriteString(w, "human view\n") }); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if out.String() != "human view\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	if err := ctx.emit(cmd, struct{}{}, nil); err != nil || out.Len() != 0 {
		t.Fatalf("nil renderer should print nothing, got %q (%v)", out.String(), err)
	}
}

func TestRecordTableAlignsQuantitiesAndShowsTotal(t *testing.T) {
	tbl := newRecordTable(column{title: "Status"}, column{title: "Records", quantity: true})
	tbl.row("detected", "1")
	tbl.row("completed", "4", "ignored")
	tbl.row("copied")
	tbl.total("total", "5")

	var out bytes.Buffer
	tbl.render(&out)
	rendered := out.String()

	requireContains(t, rendered, "Records")
	requireContains(t, rendered, "total")
	requireContains(t, rendered, "      1 │")
	requireContains(t, rendered, "      5 │")
	if strings.Contains(rendered, "ignored") {
		t.Fatalf("extra cells must be dropped:\n%s", rendered)
	}
}
