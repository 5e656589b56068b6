package notify

var defaultBackend backend = freedesktop{}
