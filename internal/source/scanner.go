package source

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/mb/internal/ledger"
)

// Ext is the extension of transaction files.
const Ext = ".toml"

// ScanDir walks the money directory and discovers all transaction files,
// sorted by path. A missing directory yields no files.
func ScanDir(moneyDir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(moneyDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", moneyDir)
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(moneyDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != moneyDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if filepath.Ext(name) != Ext || strings.HasPrefix(name, ".") {
			return nil
		}
		files = append(files, DiscoveredFile{Path: path, Name: name})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(files, func(a, b DiscoveredFile) int { return ComparePaths(a.Path, b.Path) })
	return files, nil
}

// NextFileName returns the path for a new transaction on date: one past the
// highest "<date>_<n>.toml" already in dir, so that file order matches the
// order transactions were added in.
func NextFileName(dir string, date time.Time) string {
	day := date.Format(ledger.DateLayout)
	next := 0
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if stem, n := splitName(e.Name()); stem == day && n >= next {
			next = n + 1
		}
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%d%s", day, next, Ext))
}

// ComparePaths orders transaction files by directory, then date, then
// sequence number, so that "2021-07-01_2.toml" sorts before
// "2021-07-01_10.toml". Names without a sequence number compare by name.
func ComparePaths(a, b string) int {
	if c := strings.Compare(filepath.Dir(a), filepath.Dir(b)); c != 0 {
		return c
	}
	stemA, nA := splitName(filepath.Base(a))
	stemB, nB := splitName(filepath.Base(b))
	if c := strings.Compare(stemA, stemB); c != 0 {
		return c
	}
	return cmp.Compare(nA, nB)
}

// splitName splits "<stem>_<n>.toml" into stem and n. Other names come back
// whole with n = -1.
func splitName(name string) (string, int) {
	base := strings.TrimSuffix(name, Ext)
	i := strings.LastIndexByte(base, '_')
	if i < 0 {
		return name, -1
	}
	n, err := strconv.Atoi(base[i+1:])
	if err != nil || n < 0 {
		return name, -1
	}
	return base[:i], n
}
