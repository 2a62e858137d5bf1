package tables

// Pointer helpers for building test records.

func sp(s string) *string   { return &s }
func lp(n int64) *int64     { return &n }
func dp(f float64) *float64 { return &f }
