// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package hint reads the published base URL from a one-line side file
// (home.txt by default). The file is optional; its absence means the
// generated documents keep their placeholder URLs.
package hint

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Read returns the trimmed first line of the file at path with a trailing
// "/" ensured. It reports false when the file is missing, unreadable, or
// starts with an empty line; the reason is written to w.
func Read(path string, w io.Writer) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(w, "Warning: %s not found. Using default URL.\n", path)
		} else {
			fmt.Fprintf(w, "Error reading %s: %v\n", path, err)
		}
		return "", false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	var line string
	if sc.Scan() {
		line = strings.TrimSpace(sc.Text())
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(w, "Error reading %s: %v\n", path, err)
		return "", false
	}
	if line == "" {
		fmt.Fprintf(w, "Warning: %s is empty.\n", path)
		return "", false
	}

	if !strings.HasSuffix(line, "/") {
		line += "/"
	}
	return line, true
}
