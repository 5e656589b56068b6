package notify

var defaultBackend backend = appleScript{}
