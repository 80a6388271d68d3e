package services

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"

	"slidecast/models"
)

var notesSlideRe = regexp.MustCompile(`^ppt/notesSlides/notesSlide(\d+)\.xml$`)

const notesSlideRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"

// ExtractNotes reads the speaker notes from a pptx archive and returns
// one string per slide, in presentation order. Slide order comes from
// presentation.xml's sldIdLst and each slide's notes part is resolved
// through its relationships file; part numbers stay fixed when slides
// are reordered, so they cannot be trusted for ordering. Slides without
// a notes part, or whose notes resolve to only whitespace, yield an
// empty string. Formats without readable embedded notes (odp, ppt)
// return an empty list.
func (e *LibreOfficeExporter) ExtractNotes(sourcePath string) ([]string, error) {
	if !strings.EqualFold(path.Ext(sourcePath), ".pptx") {
		return nil, nil
	}

	r, err := zip.OpenReader(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSourceUnreadable, err)
	}
	defer r.Close()

	parts := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		parts[f.Name] = f
	}

	slideParts, err := presentationOrder(parts)
	if err != nil || len(slideParts) == 0 {
		// Decks from tools that omit sldIdLst still carry numbered
		// parts in authoring order.
		return notesByPartNumber(parts)
	}

	notes := make([]string, len(slideParts))
	for i, slidePart := range slideParts {
		notesPart, err := notesPartFor(parts, slidePart)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrSourceUnreadable, slidePart, err)
		}
		f, ok := parts[notesPart]
		if notesPart == "" || !ok {
			continue
		}
		text, err := readNotesPart(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrSourceUnreadable, notesPart, err)
		}
		notes[i] = text
	}
	return notes, nil
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationshipFile struct {
	Rels []relationship `xml:"Relationship"`
}

// parseRels reads one .rels part and resolves every target against the
// directory the rels file describes.
func parseRels(f *zip.File, baseDir string) ([]relationship, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var rf relationshipFile
	if err := xml.NewDecoder(rc).Decode(&rf); err != nil {
		return nil, err
	}
	for i := range rf.Rels {
		rf.Rels[i].Target = resolveTarget(baseDir, rf.Rels[i].Target)
	}
	return rf.Rels, nil
}

func resolveTarget(baseDir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(baseDir, target)
}

// presentationOrder returns the slide part names in the order the deck
// presents them, by walking sldIdLst and the presentation relationships.
func presentationOrder(parts map[string]*zip.File) ([]string, error) {
	relsFile, ok := parts["ppt/_rels/presentation.xml.rels"]
	if !ok {
		return nil, fmt.Errorf("presentation relationships missing")
	}
	rels, err := parseRels(relsFile, "ppt")
	if err != nil {
		return nil, err
	}
	byID := make(map[string]string, len(rels))
	for _, rel := range rels {
		byID[rel.ID] = rel.Target
	}

	pres, ok := parts["ppt/presentation.xml"]
	if !ok {
		return nil, fmt.Errorf("presentation.xml missing")
	}
	rc, err := pres.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var order []string
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "sldId" {
			continue
		}
		// sldId carries a plain id and a namespaced r:id; only the
		// relationship reference matters here.
		for _, attr := range start.Attr {
			if attr.Name.Local == "id" && attr.Name.Space != "" {
				if target, ok := byID[attr.Value]; ok {
					order = append(order, target)
				}
			}
		}
	}
	return order, nil
}

// notesPartFor resolves the notes part bound to one slide through the
// slide's own relationships file. Slides without one have no notes.
func notesPartFor(parts map[string]*zip.File, slidePart string) (string, error) {
	relsPath := path.Join(path.Dir(slidePart), "_rels", path.Base(slidePart)+".rels")
	relsFile, ok := parts[relsPath]
	if !ok {
		return "", nil
	}
	rels, err := parseRels(relsFile, path.Dir(slidePart))
	if err != nil {
		return "", err
	}
	for _, rel := range rels {
		if rel.Type == notesSlideRelType {
			return rel.Target, nil
		}
	}
	return "", nil
}

// notesByPartNumber maps notesSlideN.xml parts by their number. The
// notes part numbering matches the slide part numbering, with gaps for
// slides that have no notes, so missing indices become empty strings.
func notesByPartNumber(parts map[string]*zip.File) ([]string, error) {
	byIndex := make(map[int]string)
	maxIndex := 0
	for name, f := range parts {
		m := notesSlideRe.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		text, err := readNotesPart(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrSourceUnreadable, name, err)
		}
		byIndex[idx] = text
		if idx > maxIndex {
			maxIndex = idx
		}
	}

	// Slide count comes from the slide parts, so tail slides without
	// notes are still represented.
	slideCount := 0
	for name := range parts {
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
			slideCount++
		}
	}
	if slideCount > maxIndex {
		maxIndex = slideCount
	}

	notes := make([]string, maxIndex)
	for idx, text := range byIndex {
		notes[idx-1] = text
	}
	return notes, nil
}

// readNotesPart extracts the narration text from one notesSlide part.
// Only text runs inside the body placeholder shape count; slide number
// and header placeholders are skipped.
func readNotesPart(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return parseNotesXML(rc)
}

func parseNotesXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		shapeDepth int
		inBody     bool
		inText     bool
		pending    string
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				shapeDepth++
			case "ph":
				if shapeDepth > 0 {
					for _, attr := range t.Attr {
						if attr.Name.Local == "type" && attr.Value == "body" {
							inBody = true
						}
					}
				}
			case "t":
				if inBody {
					inText = true
					pending = ""
				}
			case "br":
				if inBody {
					current.WriteString("\n")
				}
			}
		case xml.CharData:
			if inText {
				pending += string(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "sp":
				shapeDepth--
				if shapeDepth == 0 {
					inBody = false
				}
			case "t":
				if inText {
					current.WriteString(pending)
					inText = false
				}
			case "p":
				if inBody && current.Len() > 0 {
					paragraphs = append(paragraphs, current.String())
					current.Reset()
				}
			}
		}
	}

	text := strings.TrimSpace(strings.Join(paragraphs, "\n"))
	return text, nil
}
