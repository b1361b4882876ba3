package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

type texter interface {
	Text() string
}

// write renders v as indented JSON or as its Text form.
func write(w io.Writer, format string, v texter) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(w, v.Text())
	return err
}
