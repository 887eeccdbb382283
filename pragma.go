package sqlrevision

import (
	"fmt"
	"strings"
)

const pragmaPrefix = "--sqlrevision:"

// parsePragmas reads the `--sqlrevision:` lines at the top of a revision
// file, before the first line that is not a pragma. The only pragma is
//
//	--sqlrevision: include-if tag1,tag2
//
// and it may be repeated; the tags are accumulated.
func parsePragmas(input string) (includeIf []string, err error) {
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, pragmaPrefix) {
			return includeIf, nil
		}
		tags, err := parseSinglePragma(line)
		if err != nil {
			return nil, err
		}
		includeIf = append(includeIf, tags...)
	}
	return includeIf, nil
}

func parseSinglePragma(line string) ([]string, error) {
	pragma := strings.TrimSpace(strings.TrimPrefix(line, pragmaPrefix))
	if pragma == "" {
		return nil, nil
	}
	parts := strings.Fields(pragma)
	if len(parts) != 2 || parts[0] != "include-if" {
		return nil, fmt.Errorf("illegal pragma: %s", line)
	}
	return strings.Split(parts[1], ","), nil
}
