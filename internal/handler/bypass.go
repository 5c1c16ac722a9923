//go:build !release

package handler

// verificationBypassCompiled gates POST /api/auth/verify-email. Builds tagged
// "release" compile it out.
const verificationBypassCompiled = true
