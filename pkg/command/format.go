package command

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"src.specplot.dev/pkg/backend"
	"src.specplot.dev/pkg/workspace"
)

// FormatPut formats the result of Put.
func FormatPut(name string, n, revision int) string {
	return fmt.Sprintf("%s: %d values, revision %d", name, n, revision)
}

// FormatRemove formats the result of Remove.
func FormatRemove(name string, revision int) string {
	return fmt.Sprintf("%s: deleted, revision %d", name, revision)
}

// FormatSeries formats the result of Get.
func FormatSeries(name string, values []float64) string {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return name + ": " + strings.Join(strs, " ")
}

// FormatSummary formats the result of Sum.
func FormatSummary(name string, s workspace.Summary) string {
	return name + ": " + s.String()
}

// FormatNames formats the result of List.
func FormatNames(names []string) string {
	if len(names) == 0 {
		return "(no series)"
	}
	return strings.Join(names, "\n")
}

// FormatSetting formats the result of Show.
func FormatSetting(key, value string) string {
	return key + " = " + value
}

// FormatStats formats the result of Stats.
func FormatStats(s backend.Stats) string {
	return fmt.Sprintf("executed=%d skipped=%d suppressed=%d delivery-failures=%d",
		s.Executed, s.Skipped, s.Suppressed, s.DeliveryFailures)
}

// FormatPlot formats the result of Plot. On terminals, buckets are drawn as a
// sparkline; otherwise they are written as tab-separated rows of start, min
// and max, which is easier for other programs to consume.
func FormatPlot(buckets []workspace.Bucket, terminal bool) string {
	if terminal {
		return Sparkline(buckets)
	}
	var sb strings.Builder
	for i, b := range buckets {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d\t%g\t%g", b.Start, b.Min, b.Max)
	}
	return sb.String()
}

var levels = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws the maxima of buckets with block characters, scaled between
// the overall minimum and maximum. Buckets with a NaN maximum are drawn as
// spaces.
func Sparkline(buckets []workspace.Bucket) string {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, b := range buckets {
		if !math.IsNaN(b.Min) {
			lo = math.Min(lo, b.Min)
		}
		if !math.IsNaN(b.Max) {
			hi = math.Max(hi, b.Max)
		}
	}
	var sb strings.Builder
	for _, b := range buckets {
		switch {
		case math.IsNaN(b.Max):
			sb.WriteByte(' ')
		case hi <= lo:
			sb.WriteRune(levels[len(levels)/2])
		default:
			i := int((b.Max - lo) / (hi - lo) * float64(len(levels)-1))
			sb.WriteRune(levels[i])
		}
	}
	return sb.String()
}
