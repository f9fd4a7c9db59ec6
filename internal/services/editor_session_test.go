package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yoockh/cvcraft/internal/utils"
)

func openTestEditor(t *testing.T) (*EditorSession, *exportFixture) {
	t.Helper()
	f := newExportFixture(t, "Ana")
	s, first, err := OpenEditor(context.Background(), f.resumes, f.svc, "u1", f.resumeID, "")
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if first.Type != EventPreview || first.Section != "basics" || first.Template != "gengar" {
		t.Fatalf("first event = %+v", first)
	}
	return s, f
}

func index(i int) *int { return &i }

func raw(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

func TestEditorSessionFlow(t *testing.T) {
	ctx := context.Background()
	s, f := openTestEditor(t)

	steps := []EditorMessage{
		{Type: MsgSelectSection, Section: "work"},
		{Type: MsgAddItem, Section: "work"},
		{Type: MsgSetField, Section: "work", Field: "name", Value: raw("Acme"), Index: index(0)},
		{Type: MsgSetField, Section: "work", Field: "highlights", Value: raw("Built it\nRan it"), Index: index(0)},
		{Type: MsgSetTemplate, Template: "azurill"},
	}
	var ev EditorEvent
	for _, msg := range steps {
		ev = s.Handle(ctx, msg)
		if ev.Type != EventPreview {
			t.Fatalf("%s: got %+v", msg.Type, ev)
		}
	}
	if ev.Section != "work" || ev.Template != "azurill" || !strings.Contains(ev.HTML, "Ran it") {
		t.Fatalf("last preview = %+v", ev)
	}

	saved := s.Handle(ctx, EditorMessage{Type: MsgSave})
	if saved.Type != EventSaved || saved.LastUpdated == nil {
		t.Fatalf("save event = %+v", saved)
	}

	row, err := f.resumes.Get(ctx, f.resumeID, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	data, _ := row.Document()
	if len(data.Work) != 1 || data.Work[0].Name != "Acme" || len(data.Work[0].Highlights) != 2 {
		t.Fatalf("saved work = %+v", data.Work)
	}
}

func TestEditorSessionErrorsKeepDraft(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestEditor(t)
	before := s.Draft().Data()

	cases := []struct {
		msg  EditorMessage
		code utils.Code
	}{
		{EditorMessage{Type: MsgRemoveItem, Section: "education", Index: index(5)}, utils.CodeOutOfRange},
		{EditorMessage{Type: MsgSetField, Section: "work", Field: "name", Value: raw("x"), Index: index(0)}, utils.CodeOutOfRange},
		{EditorMessage{Type: MsgSetField, Section: "basics", Field: "nickname", Value: raw("x")}, utils.CodeValidation},
		{EditorMessage{Type: MsgAddItem, Section: "hobbies"}, utils.CodeValidation},
		{EditorMessage{Type: MsgSetTemplate, Template: "nope"}, utils.CodeValidation},
		{EditorMessage{Type: "delete_everything"}, utils.CodeInvalidArgument},
	}
	for _, tc := range cases {
		ev := s.Handle(ctx, tc.msg)
		if ev.Type != EventError || ev.Code != tc.code || ev.Error == "" {
			t.Fatalf("%+v: got %+v", tc.msg, ev)
		}
	}
	if s.Template() != "gengar" {
		t.Fatalf("template changed to %q", s.Template())
	}
	if diff := cmp.Diff(before, s.Draft().Data()); diff != "" {
		t.Fatalf("draft changed after failed messages (-before +after):\n%s", diff)
	}
}

func TestEditorSessionLegacySectionName(t *testing.T) {
	s, _ := openTestEditor(t)
	ev := s.Handle(context.Background(), EditorMessage{Type: MsgAddItem, Section: "certificates"})
	if ev.Type != EventPreview {
		t.Fatalf("event = %+v", ev)
	}
	if n := len(s.Draft().Data().Certifications); n != 1 {
		t.Fatalf("certifications = %d", n)
	}
}

func TestEditorSessionRequiresIndexOnRecords(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestEditor(t)

	for _, name := range []string{"First", "Second"} {
		if ev := s.Handle(ctx, EditorMessage{Type: MsgAddItem, Section: "work"}); ev.Type != EventPreview {
			t.Fatalf("add_item: %+v", ev)
		}
		i := len(s.Draft().Data().Work) - 1
		if ev := s.Handle(ctx, EditorMessage{Type: MsgSetField, Section: "work", Field: "name", Value: raw(name), Index: index(i)}); ev.Type != EventPreview {
			t.Fatalf("set_field: %+v", ev)
		}
	}
	before := s.Draft().Data()

	var msgs []EditorMessage
	for _, body := range []string{
		`{"type":"set_field","section":"work","field":"name","value":"Oops"}`,
		`{"type":"remove_item","section":"work"}`,
	} {
		var m EditorMessage
		if err := json.Unmarshal([]byte(body), &m); err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}
		msgs = append(msgs, m)
	}
	for _, m := range msgs {
		ev := s.Handle(ctx, m)
		if ev.Type != EventError || ev.Code != utils.CodeValidation {
			t.Fatalf("%s without index: got %+v", m.Type, ev)
		}
	}
	if diff := cmp.Diff(before, s.Draft().Data()); diff != "" {
		t.Fatalf("draft changed (-before +after):\n%s", diff)
	}

	// an explicit zero index still addresses the first record
	ev := s.Handle(ctx, EditorMessage{Type: MsgSetField, Section: "work", Field: "name", Value: raw("Renamed"), Index: index(0)})
	if ev.Type != EventPreview {
		t.Fatalf("set_field index 0: %+v", ev)
	}
	if got := s.Draft().Data().Work[0].Name; got != "Renamed" {
		t.Fatalf("work[0].name = %q", got)
	}
}
