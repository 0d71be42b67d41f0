package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/tabview/internal/record"
)

// FieldInfo describes one discovered field
type FieldInfo struct {
	Name    string      `json:"name"`
	Kind    record.Kind `json:"kind"`
	Present int         `json:"present"`
}

func newFieldsCommand() *cobra.Command {
	var input inputFlags

	cmd := &cobra.Command{
		Use:   "fields [file]",
		Short: "List the fields found in the records",
		Long: `List every field name in discovery order together with the inferred kind
and the number of records that carry it.

Examples:
  tabview fields people.csv
  tabview fields -o json events.ndjson`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd)

			records, name, err := loadInput(cmd, args, input.options(cmd, log))
			if err != nil {
				return err
			}

			fields := describeFields(records)
			out := cmd.OutOrStdout()

			if getOutputFormat() == "json" {
				data, err := json.MarshalIndent(fields, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode fields: %w", err)
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			opts := termfmt.DefaultOptions()
			opts.Color = useColor(out)
			opts.Emoji = !isEmojiDisabled()

			items := make([]termfmt.TreeItem, len(fields))
			for i, f := range fields {
				items[i] = termfmt.TreeItem{
					Label: f.Name,
					Value: fmt.Sprintf("%s (%d of %d records)", f.Kind, f.Present, len(records)),
					Last:  i == len(fields)-1,
				}
			}

			fmt.Fprintf(out, "%s %s: %d fields, %d records\n", termfmt.GetEmoji("statistics", opts), name, len(fields), len(records))
			if len(items) > 0 {
				fmt.Fprintln(out, termfmt.TreeViewWithOptions(items, opts))
			}
			return nil
		},
	}

	input.register(cmd)

	return cmd
}

// describeFields reports kind and presence for each discovered field
func describeFields(records []record.Record) []FieldInfo {
	shape := record.InferShape(records)
	names := record.DiscoverFields(records)

	fields := make([]FieldInfo, len(names))
	for i, name := range names {
		present := 0
		for _, rec := range records {
			if rec.Has(name) {
				present++
			}
		}
		fields[i] = FieldInfo{Name: name, Kind: shape[name], Present: present}
	}
	return fields
}
