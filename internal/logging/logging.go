// Package logging builds the go-kit logger used for diagnostics.
package logging

import (
	"fmt"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Format selects the diagnostic line encoding.
type Format string

const (
	FormatLogfmt Format = "logfmt"
	FormatJSON   Format = "json"
)

// New returns a leveled logger writing to w. lvl is one of debug, info,
// warn, error or none.
func New(w io.Writer, format Format, lvl string) (log.Logger, error) {
	var logger log.Logger
	switch format {
	case FormatJSON:
		logger = log.NewJSONLogger(log.NewSyncWriter(w))
	case FormatLogfmt, "":
		logger = log.NewLogfmtLogger(log.NewSyncWriter(w))
	default:
		return nil, fmt.Errorf("unknown log format %q: use logfmt or json", format)
	}

	opt, err := levelOption(lvl)
	if err != nil {
		return nil, err
	}

	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(logger, opt), nil
}

func levelOption(lvl string) (level.Option, error) {
	switch lvl {
	case "debug":
		return level.AllowDebug(), nil
	case "info", "":
		return level.AllowInfo(), nil
	case "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	case "none":
		return level.AllowNone(), nil
	default:
		return nil, fmt.Errorf("unknown log level %q", lvl)
	}
}
