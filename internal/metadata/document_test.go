package metadata

import (
	"encoding/json"
	"errors"
	"testing"

	"tubemeta/internal/services"
)

const sampleVideo = `{"id":"dVteKLjhKFM","title":"Sample","channel":"Some Channel","duration":212.5,"extra":{"nested":[1,2,3]}}`

func TestParseRejectsInvalidJSON(t *testing.T) {
	for _, input := range []string{"", "   ", "{not json", `{"a":}`} {
		if _, err := Parse([]byte(input)); !errors.Is(err, services.ErrSerialization) {
			t.Fatalf("Parse(%q) error = %v, want ErrSerialization", input, err)
		}
	}
}

func TestDocumentJSONRoundTripPreservesUnknownFields(t *testing.T) {
	doc := MustParse(sampleVideo)
	encoded, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Document
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Equal(doc) {
		t.Fatalf("round trip mismatch:\n got %s\nwant %s", decoded.Bytes(), doc.Bytes())
	}
}

func TestDocumentBytesReturnsCopy(t *testing.T) {
	doc := MustParse(sampleVideo)
	b := doc.Bytes()
	b[0] = '['
	if doc.Bytes()[0] != '{' {
		t.Fatal("mutating Bytes result must not change the document")
	}
}

func TestVideoDecodesDisplayedFields(t *testing.T) {
	video, err := MustParse(sampleVideo).Video()
	if err != nil {
		t.Fatalf("Video: %v", err)
	}
	if video.ID != "dVteKLjhKFM" || video.Title != "Sample" {
		t.Fatalf("unexpected video %+v", video)
	}
	if video.Duration != 212.5 {
		t.Fatalf("unexpected duration %v", video.Duration)
	}
	if got := video.DisplayArtist(); got != "Some Channel" {
		t.Fatalf("expected channel fallback, got %q", got)
	}
}

func TestDisplayArtistPreference(t *testing.T) {
	v := Video{Artist: " ", AlbumArtist: "Album Artist", Channel: "Channel"}
	if got := v.DisplayArtist(); got != "Album Artist" {
		t.Fatalf("expected album artist, got %q", got)
	}
	v.Artist = "Artist"
	if got := v.DisplayArtist(); got != "Artist" {
		t.Fatalf("expected artist, got %q", got)
	}
	if got := (Video{}).DisplayArtist(); got != "" {
		t.Fatalf("expected empty artist, got %q", got)
	}
}

func TestZeroDocument(t *testing.T) {
	var doc Document
	if !doc.IsZero() {
		t.Fatal("zero document should report IsZero")
	}
	encoded, err := json.Marshal(doc)
	if err != nil || string(encoded) != "null" {
		t.Fatalf("zero document should marshal as null, got %s %v", encoded, err)
	}
	if _, err := doc.Video(); !errors.Is(err, services.ErrSerialization) {
		t.Fatalf("expected serialization error, got %v", err)
	}
}
