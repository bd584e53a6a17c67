package tools

import (
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/calcdeck/internal/jsnum"
)

// Storage factors relative to one megabyte.
var storageFactors = map[string]float64{
	"KB": 1.0 / 1024,
	"MB": 1,
	"GB": 1024,
	"TB": 1024 * 1024,
}

var storageUnits = []string{"KB", "MB", "GB", "TB"}

func dataTools() []Tool {
	return []Tool{
		{
			Name:     "data-storage",
			Title:    "Data Storage Converter",
			Category: Data,
			Fields: []Field{
				{Key: "value", Label: "Value", Default: "1"},
				{Key: "from", Label: "From", Default: "GB", Options: storageUnits},
				{Key: "to", Label: "To", Default: "MB", Options: storageUnits},
			},
			compute: dataStorage,
		},
		{
			Name:     "file-size",
			Title:    "File Size Estimator",
			Category: Data,
			Fields: []Field{
				{Key: "size", Label: "Average file size (MB)", Default: "2.5"},
				{Key: "count", Label: "Number of files", Default: "100"},
			},
			compute: fileSize,
		},
		{
			Name:     "time-duration",
			Title:    "Time Duration Converter",
			Category: Data,
			Fields: []Field{
				{Key: "days", Label: "Days", Default: "1"},
				{Key: "hours", Label: "Hours", Default: "0"},
				{Key: "minutes", Label: "Minutes", Default: "0"},
			},
			compute: timeDuration,
		},
	}
}

func dataStorage(_ *env, in values) []Line {
	v := in.float("value")
	if anyNaN(v) {
		return []Line{line("Result", "0.00")}
	}
	result := v * storageFactors[in["from"]] / storageFactors[in["to"]]
	return []Line{line("Result", jsnum.ToFixed(result, 3))}
}

func fileSize(_ *env, in values) []Line {
	size, count := in.float("size"), in.int("count")
	if anyNaN(size, count) || size < 0 || count < 0 {
		return []Line{line("Total", "0.00 MB")}
	}
	total := size * count
	if total >= 1024 {
		return []Line{line("Total", jsnum.ToFixed(total/1024, 2)+" GB")}
	}
	return []Line{line("Total", jsnum.ToFixed(total, 2)+" MB")}
}

func timeDuration(_ *env, in values) []Line {
	days := orZero(in.int("days"))
	hours := orZero(in.int("hours"))
	minutes := orZero(in.int("minutes"))
	total := days*86400 + hours*3600 + minutes*60
	return []Line{line("Total Seconds", humanize.Commaf(total))}
}
