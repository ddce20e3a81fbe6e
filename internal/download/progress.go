package download

import (
	"strconv"
	"strings"
)

// progressPrefix tags machine-readable progress lines requested from the
// downloader via --progress-template.
const progressPrefix = "dl:"

// progressTemplate makes the downloader emit one parseable line per progress
// tick: "dl:<downloaded_bytes>:<total_bytes>".
const progressTemplate = "download:" + progressPrefix +
	"%(progress.downloaded_bytes)s:%(progress.total_bytes)s"

// Progress is one normalized download progress report.
type Progress struct {
	Downloaded int64
	Total      int64
	// Percent is downloaded/total*100, 0 while the total is unknown.
	Percent float64
}

// parseProgressLine decodes one progress line. The second return is false for
// any line that is not a progress tick.
func parseProgressLine(line string) (Progress, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, progressPrefix) {
		return Progress{}, false
	}
	parts := strings.Split(strings.TrimPrefix(line, progressPrefix), ":")
	if len(parts) != 2 {
		return Progress{}, false
	}
	downloaded, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Progress{}, false
	}
	// Total is "NA" until the downloader learns the content length.
	total, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		total = 0
	}
	return normalizeProgress(downloaded, total), true
}

func normalizeProgress(downloaded, total int64) Progress {
	p := Progress{Downloaded: downloaded, Total: total}
	if total > 0 {
		p.Percent = float64(downloaded) / float64(total) * 100
	}
	return p
}

// destinationFromLine extracts the output path announced by the downloader,
// either a per-format destination or the post-merge container.
func destinationFromLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if rest, ok := strings.CutPrefix(line, "[download] Destination: "); ok {
		return rest, true
	}
	if rest, ok := strings.CutPrefix(line, `[Merger] Merging formats into "`); ok {
		return strings.TrimSuffix(rest, `"`), true
	}
	return "", false
}
