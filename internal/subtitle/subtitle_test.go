package subtitle

import (
	"strings"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"00:00:00,000", 0},
		{"00:00:02,500", 2*time.Second + 500*time.Millisecond},
		{"00:01:30.250", time.Minute + 30*time.Second + 250*time.Millisecond},
		{"01:00:00,000", time.Hour},
		{"garbage", 0},
	}

	for _, tt := range tests {
		if got := ParseTimestamp(tt.input); got != tt.want {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	d := time.Hour + 2*time.Minute + 3*time.Second + 456*time.Millisecond
	if got := FormatTimestamp(d); got != "01:02:03,456" {
		t.Errorf("FormatTimestamp = %q, want 01:02:03,456", got)
	}
}

func TestCueValid(t *testing.T) {
	tests := []struct {
		name string
		cue  Cue
		want bool
	}{
		{"normal", Cue{Start: 0, End: time.Second}, true},
		{"zero length", Cue{Start: time.Second, End: time.Second}, false},
		{"end before start", Cue{Start: 2 * time.Second, End: time.Second}, false},
		{"negative start", Cue{Start: -time.Second, End: time.Second}, false},
	}
	for _, tt := range tests {
		if got := tt.cue.Valid(); got != tt.want {
			t.Errorf("%s: Valid() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseSRTRoundTrip(t *testing.T) {
	input := "1\n00:00:00,000 --> 00:00:02,500\nHello world\n\n2\n00:00:02,500 --> 00:00:04,000\nGoodbye\n"

	track, err := ParseSRT(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseSRT error: %v", err)
	}
	if len(track) != 2 {
		t.Fatalf("got %d cues, want 2", len(track))
	}
	if track[0].Text != "Hello world" {
		t.Errorf("cue 0 text = %q", track[0].Text)
	}
	if track[1].Start != 2*time.Second+500*time.Millisecond {
		t.Errorf("cue 1 start = %v", track[1].Start)
	}

	formatted := FormatSRT(track)
	reparsed, err := ParseSRT(strings.NewReader(formatted))
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}
	if len(reparsed) != len(track) {
		t.Errorf("round trip lost cues: %d != %d", len(reparsed), len(track))
	}
}

func TestParseSRTMultilineText(t *testing.T) {
	input := "1\n00:00:00,000 --> 00:00:03,000\nfirst line\nsecond line\n"
	track, err := ParseSRT(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseSRT error: %v", err)
	}
	if len(track) != 1 {
		t.Fatalf("got %d cues, want 1", len(track))
	}
	if track[0].Text != "first line second line" {
		t.Errorf("text = %q", track[0].Text)
	}
}

func TestTrackShifted(t *testing.T) {
	track := Track{
		{Index: 1, Start: 0, End: time.Second, Text: "a"},
		{Index: 2, Start: time.Second, End: 2 * time.Second, Text: "b"},
	}
	shifted := track.Shifted(5 * time.Second)

	if shifted[0].Start != 5*time.Second || shifted[1].End != 7*time.Second {
		t.Errorf("Shifted produced %v", shifted)
	}
	// original untouched
	if track[0].Start != 0 {
		t.Error("Shifted mutated the source track")
	}
}

func TestTrackClampedTo(t *testing.T) {
	track := Track{
		{Index: 1, Start: 0, End: 2 * time.Second, Text: "a"},
		{Index: 2, Start: 2 * time.Second, End: 5 * time.Second, Text: "b"},
		{Index: 3, Start: 6 * time.Second, End: 7 * time.Second, Text: "c"},
	}
	got := track.ClampedTo(3 * time.Second)

	if len(got) != 2 {
		t.Fatalf("got %d cues, want 2", len(got))
	}
	if got[1].End != 3*time.Second {
		t.Errorf("second cue end = %v, want 3s", got[1].End)
	}
}

func TestTrackNormalized(t *testing.T) {
	track := Track{
		{Index: 1, Start: 0, End: 2 * time.Second, Text: "a"},
		{Index: 2, Start: time.Second, End: 3 * time.Second, Text: "b"},
	}
	got := track.Normalized()

	if len(got) != 2 {
		t.Fatalf("got %d cues, want 2", len(got))
	}
	if got[1].Start != 2*time.Second || got[1].End != 3*time.Second {
		t.Errorf("overlapping cue = %v..%v, want 2s..3s", got[1].Start, got[1].End)
	}
	if !got.Ordered() {
		t.Errorf("normalized track still overlaps: %+v", got)
	}
	if track[1].Start != time.Second {
		t.Error("Normalized mutated the source track")
	}
}

func TestTrackNormalizedSortsAndDropsSwallowedCues(t *testing.T) {
	track := Track{
		{Index: 1, Start: 3 * time.Second, End: 4 * time.Second, Text: "late"},
		{Index: 2, Start: 0, End: 5 * time.Second, Text: "long"},
		{Index: 3, Start: time.Second, End: 2 * time.Second, Text: "swallowed"},
	}
	got := track.Normalized()

	// "long" covers 0-5s; both later cues end inside it, so pushing
	// their starts to 5s leaves them invalid and they are dropped.
	if len(got) != 1 {
		t.Fatalf("got %d cues, want 1: %+v", len(got), got)
	}
	if got[0].Text != "long" {
		t.Errorf("surviving cue = %q, want long", got[0].Text)
	}
	if !got.Ordered() {
		t.Errorf("normalized track still overlaps: %+v", got)
	}
}

func TestTrackOrdered(t *testing.T) {
	ordered := Track{
		{Start: 0, End: time.Second},
		{Start: time.Second, End: 2 * time.Second},
	}
	if !ordered.Ordered() {
		t.Error("expected ordered track")
	}

	overlapping := Track{
		{Start: 0, End: 2 * time.Second},
		{Start: time.Second, End: 3 * time.Second},
	}
	if overlapping.Ordered() {
		t.Error("expected overlap to be detected")
	}
}

func TestTrackRenumbered(t *testing.T) {
	track := Track{{Index: 7}, {Index: 3}}
	got := track.Renumbered()
	if got[0].Index != 1 || got[1].Index != 2 {
		t.Errorf("Renumbered = %v", got)
	}
}
