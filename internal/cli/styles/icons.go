package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconVersion   = "" // tag
	IconGitBranch = "" // git branch
	IconCalendar  = "" // calendar
	IconGo        = "" // go gopher
	IconGithub    = "" // github
	IconHeart     = "" // heart

	IconCheck   = "" // check
	IconX       = "" // x
	IconWarning = "" // warning
	IconTrash   = "" // trash

	IconUser   = "" // user
	IconTab    = "" // table
	IconRoute  = "" // arrow right
	IconServer = "" // server
	IconConfig = "" // config
)
