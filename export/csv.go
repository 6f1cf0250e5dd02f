package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/termsql/termsql/db"
	"xorkevin.dev/kerrors"
)

// CSVWriter exports query results as CSV.
type CSVWriter struct {
	s3 S3Options
}

// NewCSVWriter creates a CSVWriter. The S3 options are used only for s3://
// destinations.
func NewCSVWriter(opts S3Options) *CSVWriter {
	return &CSVWriter{s3: opts}
}

// WriteQueryResult writes the columns and rows of a query result to dest.
func (w *CSVWriter) WriteQueryResult(ctx context.Context, dest string, res db.QueryResult) error {
	out, err := OpenWriter(ctx, dest, w.s3)
	if err != nil {
		return err
	}
	if err := WriteCSV(out, res); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return kerrors.WithMsg(err, "Failed to close export destination")
	}
	return nil
}

// WriteCSV writes a query result to out in CSV form, header row first.
func WriteCSV(out io.Writer, res db.QueryResult) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(res.Columns); err != nil {
		return kerrors.WithMsg(err, "Failed to write CSV header")
	}

	record := make([]string, len(res.Columns))
	for _, row := range res.Rows {
		for i := range record {
			var cell any
			if i < len(row) {
				cell = row[i]
			}
			record[i] = formatValue(cell)
		}
		if err := cw.Write(record); err != nil {
			return kerrors.WithMsg(err, "Failed to write CSV row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return kerrors.WithMsg(err, "Failed to flush CSV")
	}
	return nil
}

// formatValue renders a result cell for CSV output. NULL becomes the empty
// string.
func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
