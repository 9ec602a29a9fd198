// Package testutil provides shared helpers for tests: a temporary
// configuration with a mock runtime, and forwarded access tokens.
//
//	env := testutil.NewTestEnv(t)
//	env.Runtime.AddContainer("vscs-alice", "tok", 49213)
//	req.Header.Set("X-Forwarded-Access-Token", testutil.AccessToken("alice"))
package testutil
