// Package model defines shared data structures.
package model

import "time"

// HistoryConfig defines filters for history output.
type HistoryConfig struct {
	Variant string
	Tool    string
	Since   *time.Time
	Last    int
}

// TapeEntry records one evaluation performed by a calculator.
type TapeEntry struct {
	ID         int64
	SessionID  string
	Variant    string
	Expression string
	Result     string
	Chained    bool
	CreatedAt  time.Time
}

// ToolRun records one formula tool invocation.
type ToolRun struct {
	ID        int64
	Tool      string
	Inputs    map[string]string
	Outputs   []ToolLine
	CreatedAt time.Time
}

// ToolLine is one labelled output of a tool run.
type ToolLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// VariantCount aggregates tape entries per variant.
type VariantCount struct {
	Variant string
	Entries int
	Session int
}
