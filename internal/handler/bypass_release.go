//go:build release

package handler

const verificationBypassCompiled = false
