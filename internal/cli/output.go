package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/timeweave/internal/cli/formatter"
	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/importer"
	"github.com/alexanderramin/timeweave/internal/repository"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// outputFormat is the value of an --output flag.
type outputFormat string

const (
	outputText outputFormat = "text"
	outputJSON outputFormat = "json"
	outputYAML outputFormat = "yaml"
)

var _ pflag.Value = (*outputFormat)(nil)

func (o *outputFormat) String() string { return string(*o) }

func (o *outputFormat) Set(s string) error {
	switch f := outputFormat(strings.ToLower(s)); f {
	case outputText, outputJSON, outputYAML:
		*o = f
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

func (o *outputFormat) Type() string { return "format" }

func addOutputFlag(fs *pflag.FlagSet, o *outputFormat) {
	*o = outputText
	fs.VarP(o, "output", "o", "output format: text, json or yaml")
}

// writeResult renders res in the requested format. sync is nil when the
// run was not persisted.
func writeResult(w io.Writer, format outputFormat, res domain.SchedulingResult, sync *repository.SyncResult, loc *time.Location, now time.Time) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(importer.ExportResult(res))
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(importer.ExportResult(res)); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprint(w, formatter.FormatResult(res, sync, loc, now))
		return err
	}
}

func writeEvents(w io.Writer, format outputFormat, events []domain.SimpleEvent, loc *time.Location, now time.Time) error {
	docs := make([]importer.EventDoc, len(events))
	for i, e := range events {
		docs[i] = importer.ExportEvent(e)
	}
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprint(w, formatter.FormatEvents(events, loc, now))
		return err
	}
}
