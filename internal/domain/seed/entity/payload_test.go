package entity

import (
	"encoding/json"
	"testing"
)

func TestNewPayload(t *testing.T) {
	p := NewPayload(42, "news")

	if p.Title != "Test Post #42 - Automated Testing" {
		t.Errorf("unexpected title %q", p.Title)
	}
	if p.Content != "This is test post number 42 created for testing purposes." {
		t.Errorf("unexpected content %q", p.Content)
	}
	if p.Community != "news" || p.PostType != PostTypeText || p.NSFW || p.Spoiler {
		t.Errorf("unexpected fixed fields: %+v", p)
	}

	if NewPayload(42, "news") != p {
		t.Error("payload for the same index should be identical")
	}
}

func TestPayloadJSON(t *testing.T) {
	body, err := json.Marshal(NewPayload(1, "news"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"title":"Test Post #1 - Automated Testing","content":"This is test post number 1 created for testing purposes.","subName":"news","postType":"TEXT","nsfw":false,"spoiler":false}`
	if string(body) != want {
		t.Errorf("got  %s\nwant %s", body, want)
	}
}

func TestOutcomeLine(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		total   int
		want    string
	}{
		{"success", Success(1, 201, "abc"), 3, "[1/3] Created post #1 - OK"},
		{"protocol failure", Failure(2, "HTTP 401: Unauthorized"), 3, "[2/3] Failed post #2 - HTTP 401: Unauthorized"},
		{"transport failure", Failure(100, "connection refused"), 100, "[100/100] Failed post #100 - connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.Line(tt.total); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTally(t *testing.T) {
	var tally Tally
	tally.Add(Success(1, 200, ""))
	tally.Add(Failure(2, "boom"))
	tally.Add(Success(3, 500, ""))

	if tally.Success != 2 || tally.Failed != 1 || tally.Attempts() != 3 {
		t.Errorf("unexpected tally %+v", tally)
	}
	if got := tally.Summary(); got != "Done! Success: 2, Failed: 1" {
		t.Errorf("unexpected summary %q", got)
	}
}
