package consts

// Recommended permissions for files and directories ytgrab might create.
const (
	PermsGenericDir = 0o755
	PermsTempDir    = 0o700
	PermsLogFile    = 0o644
	PermsDBFile     = 0o600
)
