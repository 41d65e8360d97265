package testutil

import "github.com/thruflo/rota/internal/rpc"

// Sample directory entry used across server and cli tests.
const (
	TestUsername    = "alice"
	TestPassword    = "correct horse battery staple"
	TestDisplayName = "Alice A."
)

// SampleShift returns the shift assigned to TestUsername in SampleConfigYAML.
func SampleShift() rpc.Shift {
	return rpc.Shift{Group: "A", Start: "08:00", End: "16:00"}
}

// SampleConfigYAML returns a rota.yaml with one user whose password hash is
// passwordHash. Tests hash TestPassword at run time so no fixed salt lives
// in the repository.
func SampleConfigYAML(passwordHash string) string {
	return `server:
  port: 0
  token_ttl: 1h
  rate_limit:
    rps: 100
    burst: 100
  login_limit:
    max_attempts: 3
    window: 1m
    block_after: 5
    block_duration: 1m
branding:
  branch: Test Branch
  credit: Test Credit
log_level: error
users:
  - username: ` + TestUsername + `
    display_name: ` + TestDisplayName + `
    password_hash: ` + passwordHash + `
    shift:
      group: A
      start: "08:00"
      end: "16:00"
`
}
