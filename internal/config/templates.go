package config

import (
	"fmt"
	"os"
)

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(runTemplate), 0o600)
}

const runTemplate = `control_file = "C:/migration/control.csv"
log_dir = "C:/migration/logs"
adhoc = false

# Optional read-only status listener for long runs.
status_addr = ""
cors_origins = []

mirror_tool = "robocopy"
mirror_retries = 5
mirror_retry_wait = 10

# Administrative identity granted full control alongside the target user.
# Defaults to the platform's system account when empty.
admin_principal = ""

# Column order of the control file. Must name every control field exactly once.
columns = [
  "MigrationActive",
  "FinalizeMigration",
  "UserName",
  "UserSrcPath",
  "UserDstPath",
  "LastMigration",
  "LastMigrationResult",
  "MigrationLog",
]
`
