package alarmclock

import "context"

type Permission string

const (
	PermissionScheduleExactAlarm Permission = "SCHEDULE_EXACT_ALARM"
	PermissionPostNotifications  Permission = "POST_NOTIFICATIONS"
)

// Key is the preference key a grant is stored under.
func (p Permission) Key() string {
	return "PERMISSION_" + string(p)
}

// DeniedMessage is shown before exiting when the user refuses p.
func (p Permission) DeniedMessage() string {
	switch p {
	case PermissionScheduleExactAlarm:
		return "App cannot work without permission to schedule alarm."
	case PermissionPostNotifications:
		return "App cannot work without permission to post notifications."
	default:
		return "App cannot work without permission " + string(p) + "."
	}
}

type PermissionStore interface {
	Granted(ctx context.Context, p Permission) (bool, error)
	Grant(ctx context.Context, p Permission) error
}

// Prompter asks the user to grant a permission.
type Prompter interface {
	Request(ctx context.Context, p Permission) (bool, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, p Permission) (bool, error)

func (f PrompterFunc) Request(ctx context.Context, p Permission) (bool, error) {
	return f(ctx, p)
}
