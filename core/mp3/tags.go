package mp3

import (
	"fmt"
	"os"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"

	"wavelib/logger"
)

// Tags carries the editable ID3 fields of a library song. Empty optional
// fields (Categories, LinkText, URL) clear the corresponding frame.
type Tags struct {
	Album      string
	Artist     string
	Categories string
	LinkText   string
	Title      string
	URL        string
}

// strippedFrames are removed outright when importing a new remix, so files
// enter the library carrying only the frames the scanner understands.
var strippedFrames = []string{
	"APIC", "TCMP", "TCOM", "TCOP", "TDRC", "TENC", "TIT1", "TIT3",
	"TOAL", "TOPE", "TPE2", "TPUB", "TRCK", "TSSE", "TXXX", "USLT", "WOAR",
}

// SetTags rewrites the editable frames of the file at path. The database row
// for the song is not touched here; the external scanner picks the change up
// on its own schedule.
func SetTags(path string, t Tags) error {
	logger.Info("Attempting to update tags", logger.String("file", path))

	id3, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open %s for tag editing: %w", path, err)
	}
	defer id3.Close()

	id3.SetDefaultEncoding(id3v2.EncodingUTF8)
	applyTags(id3, t)

	if err := id3.Save(); err != nil {
		return fmt.Errorf("failed to save tags for %s: %w", path, err)
	}
	logger.Info("Updated tags", logger.String("file", path))
	return nil
}

// SetTagsAndStrip rewrites the editable frames and removes every frame in
// the strip list. Used when importing a freshly downloaded remix.
func SetTagsAndStrip(path string, t Tags) error {
	id3, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open %s for tag editing: %w", path, err)
	}
	defer id3.Close()

	id3.SetDefaultEncoding(id3v2.EncodingUTF8)
	applyTags(id3, t)
	for _, frameID := range strippedFrames {
		id3.DeleteFrames(frameID)
	}

	if err := id3.Save(); err != nil {
		return fmt.Errorf("failed to save tags for %s: %w", path, err)
	}
	return nil
}

func applyTags(id3 *id3v2.Tag, t Tags) {
	id3.DeleteFrames("TALB")
	id3.SetAlbum(t.Album)

	id3.DeleteFrames("TIT2")
	id3.SetTitle(t.Title)

	id3.DeleteFrames("TPE1")
	id3.SetArtist(t.Artist)

	id3.DeleteFrames("TCON")
	if t.Categories != "" {
		id3.SetGenre(t.Categories)
	}

	id3.DeleteFrames("COMM")
	if t.LinkText != "" {
		id3.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "",
			Text:        t.LinkText,
		})
	}

	id3.DeleteFrames("WXXX")
	if t.URL != "" {
		// WXXX body: text encoding byte, empty latin1 description with its
		// terminator, then the URL itself.
		body := append([]byte{0x00, 0x00}, []byte(t.URL)...)
		id3.AddFrame("WXXX", id3v2.UnknownFrame{Body: body})
	}
}

// ReadTags reads the current tags of the file at path for display next to
// the database values. The URL frame is not readable through this path and
// stays empty.
func ReadTags(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}, fmt.Errorf("failed to open %s for tag reading: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Tags{}, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}

	return Tags{
		Album:      m.Album(),
		Artist:     m.Artist(),
		Categories: m.Genre(),
		LinkText:   m.Comment(),
		Title:      m.Title(),
	}, nil
}
