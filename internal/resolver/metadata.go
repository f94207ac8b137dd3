package resolver

import (
	"bufio"
	"net/textproto"
	"os"
)

// readMetadataFile parses a dist-info METADATA file. The format is RFC 822
// style headers followed by an optional long-description body, so the
// textproto reader handles the header block directly.
func readMetadataFile(path string) Metadata {
	f, err := os.Open(path) //nolint:gosec // Path is derived from the site-packages dir
	if err != nil {
		return Metadata{}
	}
	defer f.Close() //nolint:errcheck // Read-only file

	header, err := textproto.NewReader(bufio.NewReader(f)).ReadMIMEHeader()
	if err != nil && len(header) == 0 {
		return Metadata{}
	}
	return Metadata{
		Version: header.Get("Version"),
		Summary: header.Get("Summary"),
	}
}
