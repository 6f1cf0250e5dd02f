// Package export writes query results to local files, S3 objects, or
// S3-compatible endpoints, and reads SQL scripts from local paths or URLs.
//
// # Destinations
//
// A destination is selected by URL scheme:
//
//	results.csv                local path
//	file:///tmp/results.csv    local path
//	s3://bucket/key.csv        S3 object
//	http://host/script.sql     HTTP (read only)
//
// # Usage
//
//	w := export.NewCSVWriter(export.S3Options{Region: "us-east-1"})
//	err := w.WriteQueryResult(ctx, "s3://bucket/out.csv", result)
package export
