package targets

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/projectdiscovery/gologger"
	errorutil "github.com/projectdiscovery/utils/errors"
	fileutil "github.com/projectdiscovery/utils/file"
)

// Stdin is the list file name that reads targets from standard input.
const Stdin = "-"

// FromReader reads one target specification per line. Blank lines and lines
// starting with '#' are ignored; malformed lines are skipped with a warning.
// The whole input is consumed up front so the resulting source can be
// iterated more than once.
func FromReader(r io.Reader) (Source, error) {
	var sources []Source

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		source, err := Parse(line)
		if err != nil {
			gologger.Warning().Msgf("Skipping line %d: %s\n", lineNumber, err)
			continue
		}
		sources = append(sources, source)
	}
	if err := scanner.Err(); err != nil {
		return nil, errorutil.NewWithErr(err).Msgf("could not read target list")
	}
	return &listSource{Source: Multi(sources...), lines: len(sources)}, nil
}

// FromFile reads a target list from path, or from standard input when path
// is Stdin.
func FromFile(path string) (Source, error) {
	if path == Stdin {
		if !fileutil.HasStdin() {
			return nil, errorutil.New("no input provided on stdin")
		}
		return FromReader(os.Stdin)
	}
	if !fileutil.FileExists(path) {
		return nil, errorutil.New("target list %s does not exist", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errorutil.NewWithErr(err).Msgf("could not open target list %s", path)
	}
	defer func() {
		_ = file.Close()
	}()
	return FromReader(file)
}

type listSource struct {
	Source
	lines int
}

func (l *listSource) String() string {
	if l.lines == 1 {
		return l.Source.String()
	}
	return "target list"
}
