package control

import (
	"fmt"
	"strings"
)

// Result is the recorded outcome of the most recent migration attempt.
type Result string

const (
	ResultUnset   Result = ""
	ResultSuccess Result = "SUCCESS"
	ResultFailed  Result = "FAILED"
)

// Columns is the canonical control file column order. The file itself carries
// no header row; the column list is supplied by the caller at load time.
var Columns = []string{
	"MigrationActive",
	"FinalizeMigration",
	"UserName",
	"UserSrcPath",
	"UserDstPath",
	"LastMigration",
	"LastMigrationResult",
	"MigrationLog",
}

// Record is one user's migration state, one line of the control file.
type Record struct {
	MigrationActive     bool
	FinalizeMigration   bool
	UserName            string
	UserSrcPath         string
	UserDstPath         string
	LastMigration       string
	LastMigrationResult Result
	MigrationLog        string

	// Original textual form of the boolean columns. An untouched record must
	// serialize back byte-identically, whatever casing the file used.
	activeText   string
	finalizeText string
}

// Deactivate flips MigrationActive to false. This is the only legal
// transition for the field and only happens after a successful migration in
// finalize mode.
func (r *Record) Deactivate() {
	r.MigrationActive = false
	r.activeText = "False"
}

// Succeeded reports whether the most recent attempt ended in SUCCESS.
func (r *Record) Succeeded() bool {
	return r.LastMigrationResult == ResultSuccess
}

func (r *Record) set(column, value string) error {
	switch column {
	case "MigrationActive":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("MigrationActive: %w", err)
		}
		r.MigrationActive = b
		r.activeText = value
	case "FinalizeMigration":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("FinalizeMigration: %w", err)
		}
		r.FinalizeMigration = b
		r.finalizeText = value
	case "UserName":
		r.UserName = value
	case "UserSrcPath":
		r.UserSrcPath = value
	case "UserDstPath":
		r.UserDstPath = value
	case "LastMigration":
		r.LastMigration = value
	case "LastMigrationResult":
		r.LastMigrationResult = Result(value)
	case "MigrationLog":
		r.MigrationLog = value
	default:
		return fmt.Errorf("unknown column %q", column)
	}
	return nil
}

func (r *Record) text(column string) (string, error) {
	switch column {
	case "MigrationActive":
		return boolText(r.MigrationActive, r.activeText), nil
	case "FinalizeMigration":
		return boolText(r.FinalizeMigration, r.finalizeText), nil
	case "UserName":
		return r.UserName, nil
	case "UserSrcPath":
		return r.UserSrcPath, nil
	case "UserDstPath":
		return r.UserDstPath, nil
	case "LastMigration":
		return r.LastMigration, nil
	case "LastMigrationResult":
		return string(r.LastMigrationResult), nil
	case "MigrationLog":
		return r.MigrationLog, nil
	default:
		return "", fmt.Errorf("unknown column %q", column)
	}
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean value: %q", raw)
	}
}

func boolText(v bool, raw string) string {
	if raw != "" {
		return raw
	}
	if v {
		return "True"
	}
	return "False"
}
