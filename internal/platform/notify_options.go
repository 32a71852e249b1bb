package platform

// AppName is the application name reported to notification servers.
const AppName = "MediaEditor"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// TimeoutMS is the display time; zero uses the platform default.
	TimeoutMS int32
}
