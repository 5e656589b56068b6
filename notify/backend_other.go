//go:build !linux && !darwin

package notify

var defaultBackend backend
