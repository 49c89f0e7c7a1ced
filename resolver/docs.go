package resolver

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DocSet maps documentation file names (e.g. "glDrawArrays.xml") to the
// one-line summary extracted from each file.
type DocSet map[string]string

// Summary returns the summary recorded for a documentation file name.
func (d DocSet) Summary(file string) (string, bool) {
	s, ok := d[file]
	return s, ok
}

// Names returns the indexed file names, sorted.
func (d DocSet) Names() []string {
	names := make([]string, 0, len(d))
	for n := range d {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// summaryElements are the elements whose text becomes the summary, in
// the order they are accepted: DocBook reference pages, then XML doc
// comments.
var summaryElements = map[string]bool{"refpurpose": true, "summary": true}

// LoadDocs indexes every .xml file of dir. A file without a summary
// element is indexed with an empty summary. A file that cannot be parsed
// is skipped with a warning on logger (slog.Default when nil); only an
// unreadable directory is an error.
func LoadDocs(dir string, logger *slog.Logger) (DocSet, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading documentation directory: %w", err)
	}
	docs := make(DocSet)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			continue
		}
		summary, err := ParseDocFile(filepath.Join(dir, e.Name()))
		if err != nil {
			logger.Warn("skipping unreadable documentation file", "file", e.Name(), "error", err)
			continue
		}
		docs[e.Name()] = summary
	}
	return docs, nil
}

// ParseDocFile extracts the text of the first summary element of an XML
// documentation file, with whitespace collapsed.
func ParseDocFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return parseSummary(f)
}

func parseSummary(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	// Reference pages use HTML entities and a DTD the decoder cannot load.
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	var text strings.Builder
	depth := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth > 0 {
				depth++
			} else if summaryElements[strings.ToLower(t.Name.Local)] {
				depth = 1
			}
		case xml.EndElement:
			if depth > 0 {
				depth--
				if depth == 0 {
					return strings.Join(strings.Fields(text.String()), " "), nil
				}
			}
		case xml.CharData:
			if depth > 0 {
				text.Write(t)
			}
		}
	}
	return "", nil
}
