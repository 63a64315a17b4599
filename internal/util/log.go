package util

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// TagField is the event field rendered as the "[TAG]" prefix on console output.
const TagField = "tag"

func NewLogger(level string) zerolog.Logger {
	return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(parseLevel(level))
}

// NewConsoleLogger renders events as "[TAG] message key=value" lines.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:           w,
		NoColor:       true,
		PartsOrder:    []string{TagField, zerolog.MessageFieldName},
		FieldsExclude: []string{TagField},
		FormatPrepare: func(evt map[string]interface{}) error {
			if tag, ok := evt[TagField]; ok {
				evt[TagField] = fmt.Sprintf("[%s]", tag)
			}
			return nil
		},
	}
	return zerolog.New(out).Level(parseLevel(level))
}

// Tagged returns a child logger whose events carry the given tag.
func Tagged(log zerolog.Logger, tag string) zerolog.Logger {
	return log.With().Str(TagField, tag).Logger()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return lvl
}
