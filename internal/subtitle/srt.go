package subtitle

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var timeRegex = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}[,\.]\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}[,\.]\d{3})`)

// ParseSRT parses SRT content from a reader into a cue track. Entries
// without text are skipped.
func ParseSRT(r io.Reader) (Track, error) {
	var track Track
	scanner := bufio.NewScanner(r)

	var current *Cue
	lineNum := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			if current != nil && current.Text != "" {
				track = append(track, *current)
			}
			current = nil
			lineNum = 0
			continue
		}

		lineNum++

		switch lineNum {
		case 1:
			index, err := strconv.Atoi(line)
			if err == nil {
				current = &Cue{Index: index}
			}
		case 2:
			if current != nil {
				matches := timeRegex.FindStringSubmatch(line)
				if len(matches) == 3 {
					current.Start = ParseTimestamp(matches[1])
					current.End = ParseTimestamp(matches[2])
				}
			}
		default:
			if current != nil {
				if current.Text != "" {
					current.Text += " "
				}
				current.Text += line
			}
		}
	}

	if current != nil && current.Text != "" {
		track = append(track, *current)
	}

	return track, scanner.Err()
}

// ParseSRTFile parses an SRT file from the given path.
func ParseSRTFile(path string) (Track, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseSRT(file)
}

// FormatSRT renders a track in SRT format.
func FormatSRT(track Track) string {
	var builder strings.Builder
	for i, c := range track {
		builder.WriteString(strconv.Itoa(c.Index))
		builder.WriteString("\n")

		builder.WriteString(FormatTimestamp(c.Start))
		builder.WriteString(" --> ")
		builder.WriteString(FormatTimestamp(c.End))
		builder.WriteString("\n")

		builder.WriteString(c.Text)
		builder.WriteString("\n")

		if i < len(track)-1 {
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

// WriteSRTFile writes a track to an SRT file.
func WriteSRTFile(path string, track Track) error {
	return os.WriteFile(path, []byte(FormatSRT(track)), 0644)
}
