// Package engine sequences one migration attempt per eligible control record:
// ownership takeover, mirror copy, permission reset, result recording.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/homectl/internal/control"
	"github.com/danmuck/homectl/internal/mirror"
	"github.com/danmuck/homectl/internal/observability"
	"github.com/danmuck/homectl/internal/perms"
)

const (
	stampLayout = "02012006-150405"
	dateLayout  = "02.01.2006"
)

// RunContext carries the run-wide values shared by every record of a run.
type RunContext struct {
	Started time.Time
	LogDir  string
	AdHoc   bool
	DryRun  bool
}

// Stamp is the run timestamp used in log file names and the backup suffix.
func (c RunContext) Stamp() string {
	return c.Started.Format(stampLayout)
}

func (c RunContext) Mode() string {
	if c.AdHoc {
		return "adhoc"
	}
	return "continuous"
}

// Eligible reports whether a record is processed in this run. Continuous mode
// takes every active record; ad-hoc mode only active records flagged for
// finalization.
func (c RunContext) Eligible(rec *control.Record) bool {
	if !rec.MigrationActive {
		return false
	}
	if c.AdHoc {
		return rec.FinalizeMigration
	}
	return true
}

// Outcome of processing one record.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomePlanned
	OutcomeMigrated
	OutcomeFailed
)

// Engine runs migration attempts through injected capabilities. It performs
// no I/O of its own beyond existence checks and destination creation.
type Engine struct {
	Perms  perms.Resetter
	Mirror mirror.Runner
	Log    zerolog.Logger
}

// Process runs one record's migration attempt. Ineligible records pass
// through untouched: no field changes, no log file. Failures are confined to
// the record; the caller always moves on to the next one.
func (e *Engine) Process(rec *control.Record, ctx RunContext) Outcome {
	if !ctx.Eligible(rec) {
		return OutcomeSkipped
	}

	if ctx.DryRun {
		e.Log.Info().
			Str("user", rec.UserName).
			Str("src", joinUser(rec.UserSrcPath, rec.UserName)).
			Str("dst", joinUser(rec.UserDstPath, rec.UserName)).
			Bool("finalize", rec.FinalizeMigration).
			Msg("dry run: would migrate")
		return OutcomePlanned
	}

	start := time.Now()
	stamp := ctx.Stamp()
	logName := stamp + "_" + rec.UserName + ".log"
	copyLogName := stamp + "_" + rec.UserName + "_Robocopy.log"

	// MigrationLog reflects this attempt from the start, even if the attempt
	// fails before the copy.
	rec.MigrationLog = logName

	ulog := newUserLog(filepath.Join(ctx.LogDir, logName), e.Log)
	result := e.migrate(rec, filepath.Join(ctx.LogDir, copyLogName), ulog)

	rec.LastMigrationResult = result
	rec.LastMigration = ctx.Started.Format(dateLayout)
	if result == control.ResultSuccess && rec.FinalizeMigration {
		rec.Deactivate()
		ulog.Append(fmt.Sprintf("migration finalized, record for %s deactivated", rec.UserName))
	}
	ulog.Append(fmt.Sprintf("migration of user %s finished", rec.UserName))

	observability.RecordMigration(ctx.Mode(), string(result), time.Since(start))
	if result == control.ResultSuccess {
		return OutcomeMigrated
	}
	return OutcomeFailed
}

func (e *Engine) migrate(rec *control.Record, copyLog string, ulog *userLog) control.Result {
	src := joinUser(rec.UserSrcPath, rec.UserName)
	dst := joinUser(rec.UserDstPath, rec.UserName)
	ulog.Append(fmt.Sprintf("starting migration of %s from %s to %s", rec.UserName, src, dst))

	if _, err := os.Stat(src); err != nil {
		ulog.Append(fmt.Sprintf("source path %s does not exist, no copy attempted", src))
		e.Log.Error().Str("user", rec.UserName).Str("src", src).Msg("source path missing")
		return control.ResultFailed
	}

	if _, err := os.Stat(dst); err != nil {
		if err := os.MkdirAll(dst, 0o755); err != nil {
			ulog.Append(fmt.Sprintf("could not create destination %s: %v", dst, err))
			e.Log.Error().Err(err).Str("user", rec.UserName).Str("dst", dst).Msg("destination creation failed")
			return control.ResultFailed
		}
		ulog.Append(fmt.Sprintf("created destination directory %s", dst))
	}

	failed := false
	owned := true
	if err := e.Perms.TakeOwnership(dst); err != nil {
		ulog.Append(fmt.Sprintf("ownership takeover of %s failed: %v", dst, err))
		e.Log.Error().Err(err).Str("user", rec.UserName).Str("dst", dst).Msg("ownership takeover failed")
		failed = true
		owned = false
	}

	if owned {
		code, err := e.Mirror.Run(src, dst, copyLog)
		if err != nil {
			ulog.Append(fmt.Sprintf("mirror copy could not run: %v", err))
			e.Log.Error().Err(err).Str("user", rec.UserName).Msg("mirror copy launch failed")
			failed = true
		} else {
			ulog.Append(fmt.Sprintf("mirror copy finished with exit code %d", code))
			observability.RecordMirrorExit(code)
			if !mirror.Succeeded(code) {
				failed = true
			}
		}
	}

	// Runs even after a failed or partial copy so the destination is left
	// usable and ownable by the right principal.
	if err := e.Perms.GrantUserAndSystem(dst, rec.UserName); err != nil {
		ulog.Append(fmt.Sprintf("permission reset on %s failed: %v", dst, err))
		e.Log.Error().Err(err).Str("user", rec.UserName).Str("dst", dst).Msg("permission reset failed")
		failed = true
	}

	if failed {
		return control.ResultFailed
	}
	return control.ResultSuccess
}

// joinUser appends the user name to a configured root path, tolerating
// trailing separators in the control file.
func joinUser(root, userName string) string {
	return filepath.Join(strings.TrimRight(root, `\/`), userName)
}
