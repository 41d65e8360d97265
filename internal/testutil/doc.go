// Package testutil provides shared test utilities for rota.
//
// # Fakes
//
//   - FakeBackend - an rpc.Backend with scripted results that records calls
//   - RecordingNavigator - a navigator that records every page it is sent to
//
// # Fixtures
//
//   - SampleShift() - the shift assigned to the sample user
//   - SampleConfigYAML(hash) - a rota.yaml with one user and a shift
//   - TestPassword - plaintext password for fixtures hashed at test time
//
// # Environment Helpers
//
//   - SetupTestDir(t) - creates a temp directory with a rota.yaml
//   - WriteTestFile(t, base, path, content) - writes a file in test dir
//   - MustMarshalJSON(t, v), MustUnmarshalJSON(t, data, v)
//
// # Timeouts
//
//   - ContextWithTestDeadline(t, fallback) - a context bounded by the test deadline
//   - ShortOperationContext(t) - the same with a 30 second fallback
//
// # Usage
//
//	func TestSomething(t *testing.T) {
//	    backend := &testutil.FakeBackend{}
//	    backend.LoginFunc = func(ctx context.Context, u, p string) (rpc.LoginResult, error) {
//	        return rpc.LoginResult{OK: true, Token: "xyz"}, nil
//	    }
//	    nav := &testutil.RecordingNavigator{}
//	    // ... run test ...
//	    assert.Equal(t, []page.ID{page.Work}, nav.Visits())
//	}
package testutil
