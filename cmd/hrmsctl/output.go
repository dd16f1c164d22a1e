package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
)

func printJSON(w io.Writer, value interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// printTable writes rows under header, or value as JSON when asJSON is set.
func printTable(w io.Writer, asJSON bool, value interface{}, header []string, rows [][]string) error {
	if asJSON {
		return printJSON(w, value)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s failed", path)
	}
	return nil
}

func deref(value *string) string {
	if value == nil {
		return "-"
	}
	return *value
}

func money(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
