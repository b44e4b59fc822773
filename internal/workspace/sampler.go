// internal/workspace/sampler.go
package workspace

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/helpline/internal/types"
)

const (
	// maxSampleFiles is a hard cap on sampled paths per request.
	maxSampleFiles = 5
	// maxSampleBytes is the size at or above which a file is reported as
	// too large instead of being read.
	maxSampleBytes = 50000
	// maxSampleChars is the content truncation limit.
	maxSampleChars = 2000
)

// Sample reads bounded content for up to maxSampleFiles of the given
// workspace-relative paths. Each file is handled independently: a failed
// read produces an error entry for that path and does not affect the
// others.
func Sample(root string, paths []string) map[string]types.FileSample {
	if len(paths) > maxSampleFiles {
		paths = paths[:maxSampleFiles]
	}

	out := make(map[string]types.FileSample, len(paths))
	for _, p := range paths {
		out[p] = sampleOne(root, p)
	}
	return out
}

func sampleOne(root, rel string) types.FileSample {
	full := filepath.Join(root, filepath.FromSlash(rel))

	fi, err := os.Stat(full)
	if err != nil {
		slog.Warn("sample stat failed", "path", rel, "error", err)
		return types.FileSample{Error: err.Error()}
	}
	if fi.Size() >= maxSampleBytes {
		return types.FileSample{Size: fi.Size(), Note: "too large"}
	}

	data, err := os.ReadFile(full)
	if err != nil {
		slog.Warn("sample read failed", "path", rel, "error", err)
		return types.FileSample{Error: err.Error()}
	}

	content := string(data)
	lines := strings.Count(content, "\n")
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		lines++
	}
	if len(content) > maxSampleChars {
		content = content[:maxSampleChars]
	}

	return types.FileSample{
		Size:    fi.Size(),
		Lines:   lines,
		Content: content,
	}
}
