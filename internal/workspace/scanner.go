// Package workspace provides best-effort workspace scanning and content
// sampling. Failures here never abort a help request: the scanner degrades
// to nil and the sampler to per-file error entries, logged as warnings.
package workspace

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/user/helpline/internal/types"
)

const (
	// maxScanDepth limits directory recursion, counting entries directly
	// under the root as depth 1.
	maxScanDepth = 5
	// statSampleSize is how many enumerated files are stat'd for
	// modification times. The truncation is deliberate and reproducible:
	// always the first files in enumeration order.
	statSampleSize = 20
	maxRecentFiles = 10
)

// ignoreDirs are skipped entirely during enumeration.
var ignoreDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"logs":         true,
}

// Scan enumerates the workspace under root and returns its aggregate
// state, or nil if the root is absent or enumeration fails. Scan never
// returns an error; the caller treats nil as "workspace context
// unavailable".
func Scan(root string) *types.WorkspaceState {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		slog.Warn("workspace root not accessible", "root", root, "error", err)
		return nil
	}

	ws := &types.WorkspaceState{
		RootPath:  root,
		Files:     []types.FileDetail{},
		Structure: types.DirectoryTree{},
		FileTypes: map[string]int{},
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		depth := strings.Count(rel, "/") + 1

		if d.IsDir() {
			if ignoreDirs[d.Name()] || depth >= maxScanDepth {
				return filepath.SkipDir
			}
			insertTree(ws.Structure, rel, true)
			return nil
		}
		if strings.HasSuffix(d.Name(), ".log") {
			return nil
		}

		detail := types.FileDetail{Path: rel}
		if fi, err := d.Info(); err == nil {
			detail.Size = fi.Size()
		}
		ws.Files = append(ws.Files, detail)
		insertTree(ws.Structure, rel, false)

		ext := filepath.Ext(d.Name())
		if ext == "" {
			ext = "none"
		}
		ws.FileTypes[ext]++
		return nil
	})
	if err != nil {
		slog.Warn("workspace scan failed", "root", root, "error", err)
		return nil
	}

	ws.TotalFiles = len(ws.Files)
	ws.RecentFiles = recentFiles(root, ws.Files)
	return ws
}

// recentFiles stats the first statSampleSize enumerated files and returns
// up to maxRecentFiles paths sorted by modification time, newest first.
// Files whose metadata cannot be read are dropped from the ranking.
func recentFiles(root string, files []types.FileDetail) []string {
	sample := files
	if len(sample) > statSampleSize {
		sample = sample[:statSampleSize]
	}

	type statted struct {
		path    string
		modTime time.Time
	}
	ranked := make([]statted, 0, len(sample))
	for _, f := range sample {
		fi, err := os.Stat(filepath.Join(root, filepath.FromSlash(f.Path)))
		if err != nil {
			continue
		}
		ranked = append(ranked, statted{path: f.Path, modTime: fi.ModTime()})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].modTime.After(ranked[j].modTime)
	})
	if len(ranked) > maxRecentFiles {
		ranked = ranked[:maxRecentFiles]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.path
	}
	return out
}

// insertTree adds the slash-separated rel path to the tree, with nil as
// the leaf value for files.
func insertTree(tree types.DirectoryTree, rel string, dir bool) {
	parts := strings.Split(rel, "/")
	node := tree
	for i, part := range parts {
		last := i == len(parts)-1
		if last && !dir {
			if _, ok := node[part]; !ok {
				node[part] = nil
			}
			return
		}
		child := node[part]
		if child == nil {
			child = types.DirectoryTree{}
			node[part] = child
		}
		node = child
	}
}
