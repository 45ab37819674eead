package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/cleared-dev/finsight/internal/importer"
	"github.com/cleared-dev/finsight/internal/importlog"
	"github.com/cleared-dev/finsight/internal/session"
)

// ingestion is a session loaded from files together with what went wrong.
type ingestion struct {
	sess    *session.Session
	errors  []string // one per rejected file
	ignored []string // files matching no report kind
	entries []importlog.Entry
}

// ingest loads paths into a fresh session in order. With no paths, the
// configured import directory is scanned instead. Inside a project every
// file is recorded in the import log.
func ingest(e *env, command string, paths []string) (*ingestion, error) {
	registry, err := importer.DefaultRegistry(e.cfg.Import.Encoding)
	if err != nil {
		return nil, fmt.Errorf("creating importers: %w", err)
	}

	if len(paths) == 0 {
		files, err := importer.Scan(e.resolve(e.cfg.Import.Dir), registry)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			paths = append(paths, f.Path)
		}
	}

	in := &ingestion{sess: session.New(registry, e.log)}
	now := time.Now().UTC()
	for _, p := range paths {
		name := filepath.Base(p)
		res, err := in.sess.IngestFile(p)

		entry := importlog.Entry{Timestamp: now, Command: command, File: name, Rows: res.Rows}
		if res.Routed {
			entry.Kind = string(res.Kind)
		}
		switch {
		case err != nil:
			entry.Error = err.Error()
			in.errors = append(in.errors, fmt.Sprintf("%s: %v", name, err))
		case !res.Routed:
			in.ignored = append(in.ignored, name)
		}
		in.entries = append(in.entries, entry)
	}

	if e.project && len(in.entries) > 0 {
		if err := importlog.Append(e.dir, in.entries); err != nil {
			return nil, fmt.Errorf("writing import log: %w", err)
		}
	}
	return in, nil
}
