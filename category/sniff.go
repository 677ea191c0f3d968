package category

import (
	"io"
	"os"

	"github.com/h2non/filetype"
)

// sniffHeadSize covers the longest magic number filetype understands.
const sniffHeadSize = 261

// Sniff inspects the head of the file and maps the detected kind to a
// category label. Used as a fallback when the extension matches nothing;
// returns false when the content is unrecognized or unreadable.
func Sniff(path string) (string, bool) {
	file, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer file.Close()
	return sniffHead(file)
}

// sniffHead reads up to sniffHeadSize bytes. ReadFull keeps reading
// across short reads; a file smaller than the head is not an error.
func sniffHead(r io.Reader) (string, bool) {
	buf := make([]byte, sniffHeadSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", false
	}
	buf = buf[:n]

	switch {
	case filetype.IsImage(buf):
		return "Images", true
	case filetype.IsVideo(buf):
		return "Videos", true
	case filetype.IsAudio(buf):
		return "Music", true
	case filetype.IsArchive(buf):
		return "Archives", true
	case filetype.IsDocument(buf):
		return "Documents", true
	}
	return "", false
}
