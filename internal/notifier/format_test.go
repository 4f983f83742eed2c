package notifier

import (
	"errors"
	"strings"
	"testing"

	"github.com/isgwatch/isgwatch/internal/entry"
)

func TestNewEntriesSubjectPluralization(t *testing.T) {
	if got := newEntriesSubject("Heat pump", 1); got != "Heat pump: 1 new alert" {
		t.Fatalf("unexpected singular subject: %q", got)
	}
	if got := newEntriesSubject("Heat pump", 3); got != "Heat pump: 3 new alerts" {
		t.Fatalf("unexpected plural subject: %q", got)
	}
}

func TestPlainBodyListsAllEntries(t *testing.T) {
	body := newEntriesPlainBody([]entry.Entry{
		{Nr: "1", ErrorCode: "E 20", Heatpump: "WP1", Date: "18.02.2026", Time: "12:00:00"},
		{Nr: "2", ErrorCode: "E 21", Heatpump: "WP2", Date: "19.02.2026", Time: "08:30:15"},
	})

	for _, want := range []string{"E 20", "E 21", "WP1", "WP2", "18.02.2026", "08:30:15", "Error code"} {
		if !strings.Contains(body, want) {
			t.Fatalf("plain body missing %q:\n%s", want, body)
		}
	}
}

func TestHTMLBodyEscapesCellContent(t *testing.T) {
	body := newEntriesHTMLBody([]entry.Entry{
		{Nr: "1", ErrorCode: "<script>", Heatpump: "WP1", Date: "18.02.2026", Time: "12:00:00"},
	})

	if strings.Contains(body, "<script>") {
		t.Fatal("cell content must be HTML-escaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Fatalf("expected escaped content in body:\n%s", body)
	}
}

func TestFetchFailureBodiesCarryTheError(t *testing.T) {
	err := errors.New("dial tcp: connection refused")

	if got := fetchFailurePlainBody(err); !strings.Contains(got, err.Error()) {
		t.Fatalf("plain body missing error: %q", got)
	}
	if got := fetchFailureHTMLBody(err); !strings.Contains(got, "connection refused") {
		t.Fatalf("html body missing error: %q", got)
	}
	if got := fetchFailureSubject("Heat pump"); !strings.Contains(got, "could not be retrieved") {
		t.Fatalf("unexpected subject: %q", got)
	}
}
