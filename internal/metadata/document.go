package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"tubemeta/internal/services"
)

// Document is an immutable JSON metadata payload.
type Document struct {
	raw []byte
}

// Parse validates data as JSON and wraps it in a Document. The input is
// copied.
func Parse(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Document{}, services.Wrap(services.ErrSerialization, "metadata", "parse", "empty document", nil)
	}
	if !json.Valid(trimmed) {
		return Document{}, services.Wrap(services.ErrSerialization, "metadata", "parse", "invalid json", nil)
	}
	return Document{raw: append([]byte(nil), trimmed...)}, nil
}

// MustParse is Parse for literals in tests and wiring code; it panics on error.
func MustParse(data string) Document {
	doc, err := Parse([]byte(data))
	if err != nil {
		panic(err)
	}
	return doc
}

// IsZero reports whether the document holds no payload.
func (d Document) IsZero() bool {
	return len(d.raw) == 0
}

// Bytes returns a copy of the raw JSON payload.
func (d Document) Bytes() []byte {
	return append([]byte(nil), d.raw...)
}

// Equal reports whether both documents carry identical bytes.
func (d Document) Equal(other Document) bool {
	return bytes.Equal(d.raw, other.raw)
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return d.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	if d == nil {
		return errors.New("metadata: UnmarshalJSON on nil pointer")
	}
	if string(bytes.TrimSpace(data)) == "null" {
		*d = Document{}
		return nil
	}
	doc, err := Parse(data)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

// Video captures the displayed subset of a yt-dlp single-video document.
type Video struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	AlbumArtist  string  `json:"album_artist"`
	Channel      string  `json:"channel"`
	Uploader     string  `json:"uploader"`
	Duration     float64 `json:"duration"`
	UploadDate   string  `json:"upload_date"`
	WebpageURL   string  `json:"webpage_url"`
	ExtractorKey string  `json:"extractor_key"`
	Type         string  `json:"_type"`
}

// Video decodes the displayed fields. Playlists report their own title with
// Type set to "playlist".
func (d Document) Video() (Video, error) {
	if d.IsZero() {
		return Video{}, services.Wrap(services.ErrSerialization, "metadata", "decode video", "empty document", nil)
	}
	var v Video
	if err := json.Unmarshal(d.raw, &v); err != nil {
		return Video{}, services.Wrap(services.ErrSerialization, "metadata", "decode video", "", err)
	}
	return v, nil
}

// DisplayArtist prefers the credited artist, then the album artist, then the
// channel name.
func (v Video) DisplayArtist() string {
	for _, candidate := range []string{v.Artist, v.AlbumArtist, v.Channel} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
