// Package tracefile reads and writes trace files.
//
// A trace file holds one example per line, with symbols separated by ";".
// A line whose first field is empty denotes the empty trace, and trailing empty
// fields are ignored, so "a;b;" and "a;b" are the same example.
package tracefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/rpni/pkg/domain"
)

// Separator splits the symbols of a line.
const Separator = ";"

// ParseLine decodes a single line.
func ParseLine(line string) domain.Example {
	line = strings.TrimSuffix(line, "\r")
	fields := strings.Split(line, Separator)
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	if len(fields) == 0 || fields[0] == "" {
		return domain.Example{}
	}

	ex := make(domain.Example, len(fields))
	for i, f := range fields {
		ex[i] = domain.Symbol(f)
	}
	return ex
}

// Parse reads every line of r as an example, in order.
func Parse(r io.Reader) (*domain.ExampleSet, error) {
	set := domain.NewExampleSet()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		set.Add(ParseLine(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read traces: %w", err)
	}
	return set, nil
}

// Load parses the trace file at path.
func Load(path string) (*domain.ExampleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open traces: %w", err)
	}
	defer f.Close()

	set, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// FormatLine encodes one example.
func FormatLine(ex domain.Example) string {
	parts := make([]string, len(ex))
	for i, s := range ex {
		parts[i] = string(s)
	}
	return strings.Join(parts, Separator)
}

// Format writes set to w, one example per line.
func Format(w io.Writer, set *domain.ExampleSet) error {
	bw := bufio.NewWriter(w)
	for _, ex := range set.All() {
		if _, err := bw.WriteString(FormatLine(ex) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
