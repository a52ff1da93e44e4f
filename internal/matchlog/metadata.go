package matchlog

import (
	"strings"

	"github.com/verte-zerg/matchlog/internal/model"
)

const commentMarker = "#"

type metadataKey struct {
	prefix string
	set    func(m *model.RunMetadata, value string)
}

// The colon is part of each prefix, so "Black:" never matches "BlackCommand:".
var metadataKeys = []metadataKey{
	{"Black:", func(m *model.RunMetadata, v string) { m.Black = v }},
	{"White:", func(m *model.RunMetadata, v string) { m.White = v }},
	{"BlackCommand:", func(m *model.RunMetadata, v string) { m.BlackCommand = v }},
	{"WhiteCommand:", func(m *model.RunMetadata, v string) { m.WhiteCommand = v }},
	{"Size:", func(m *model.RunMetadata, v string) { m.Size = v }},
	{"Komi:", func(m *model.RunMetadata, v string) { m.Komi = v }},
	{"Date:", func(m *model.RunMetadata, v string) { m.Date = v }},
	{"Host:", func(m *model.RunMetadata, v string) { m.Host = v }},
}

// ApplyComment updates meta from the text of a comment line (without the
// leading marker). Unknown keys are ignored; a repeated key overwrites the
// earlier value.
func ApplyComment(meta *model.RunMetadata, comment string) {
	comment = strings.TrimSpace(comment)
	for _, key := range metadataKeys {
		if strings.HasPrefix(comment, key.prefix) {
			key.set(meta, strings.TrimSpace(comment[len(key.prefix):]))
			return
		}
	}
}
