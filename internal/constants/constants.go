package constants

// Session and context keys
const (
	SessionCookieName = "taskforce_session"
	ContextKeyUserID  = "user_id"
)

// PendingSubjectPrefix marks placeholder users invited by email before the
// real identity has signed in. The subject is "pending_<email>".
const PendingSubjectPrefix = "pending_"

// Upload limits
const (
	MaxTaskImages       = 10
	DownloadURLLifetime = 15 // minutes
	UploadURLLifetime   = 10 // minutes
)
