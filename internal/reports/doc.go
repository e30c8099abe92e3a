// Package reports turns raw health records and chat exchanges into the
// series and statistics shown on report screens.
//
// Every function accepts empty input. Series come back empty, not nil, and
// scalar aggregates return ok=false instead of zero or NaN.
//
// When the API returns pre-aggregated data, BuildHealthReport and
// BuildChatbotReport keep each non-empty server series as is and compute
// only the missing ones. Series are never merged.
package reports
