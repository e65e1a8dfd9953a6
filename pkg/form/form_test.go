package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfill/pkg/feedback"
)

func TestMemory_LookupPrefersID(t *testing.T) {
	m := New(
		WithNamedField("cidade", "by-name"),
		WithField("cidade", "by-id"),
	)
	got, ok := m.Value("cidade")
	if !ok || got != "by-id" {
		t.Fatalf("expected id match, got %q (ok=%v)", got, ok)
	}
}

func TestMemory_SetDispatchesSyntheticEvents(t *testing.T) {
	m := New(WithNamedField("uf", ""))
	var events []Event
	m.Subscribe(func(ev Event) { events = append(events, ev) })

	if !m.Set("uf", "SP") {
		t.Fatalf("expected write")
	}
	want := []Event{
		{Type: EventInput, Field: "uf", Value: "SP", Synthetic: true},
		{Type: EventChange, Field: "uf", Value: "SP", Synthetic: true},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestMemory_SetSkipsEmptyAndMissing(t *testing.T) {
	m := NewWithFields("bairro")
	calls := 0
	m.Subscribe(func(Event) { calls++ })

	if m.Set("bairro", "") {
		t.Fatalf("empty value must not be written")
	}
	if m.Set("missing", "x") {
		t.Fatalf("missing field must not be written")
	}
	if calls != 0 {
		t.Fatalf("expected no events, got %d", calls)
	}
}

func TestMemory_TypeAndCommit(t *testing.T) {
	m := NewWithFields("cep")
	var events []Event
	m.Subscribe(func(ev Event) { events = append(events, ev) })

	m.Type("cep", "0131")
	m.Commit("cep")

	want := []Event{
		{Type: EventInput, Field: "cep", Value: "0131"},
		{Type: EventChange, Field: "cep", Value: "0131"},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	if m.Commit("nope") {
		t.Fatalf("commit on missing field must report false")
	}
}

func TestMemory_LoadingTogglesControls(t *testing.T) {
	m := New(WithControl("Salvar"), WithControl("Cancelar"))
	m.SetLoading(true)
	for _, c := range m.Controls() {
		if !c.Disabled {
			t.Fatalf("control %q should be disabled", c.Label)
		}
	}
	if !m.Loading() {
		t.Fatalf("expected loading")
	}
	m.SetLoading(false)
	for _, c := range m.Controls() {
		if c.Disabled {
			t.Fatalf("control %q should be enabled", c.Label)
		}
	}
}

func TestMemory_FeedbackFocus(t *testing.T) {
	m := NewWithFields("cep")
	m.ShowFeedback(feedback.Error("bad", "cep"))
	if m.Focused() != "cep" {
		t.Fatalf("expected focus on cep, got %q", m.Focused())
	}
	m.ShowFeedback(feedback.Error("bad", "ghost"))
	if m.Focused() != "cep" {
		t.Fatalf("focus must not move to a missing field, got %q", m.Focused())
	}
	if got := m.Feedback().Text; got != "bad" {
		t.Fatalf("unexpected feedback %q", got)
	}
}

func TestMemory_ValuesOmitsEmpty(t *testing.T) {
	m := New(WithField("cep", "01310-100"), WithField("uf", ""), WithNamedField("bairro", "Bela Vista"))
	want := map[string]string{"cep": "01310-100", "bairro": "Bela Vista"}
	if diff := cmp.Diff(want, m.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}
