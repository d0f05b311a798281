// internal/app/system/imageprep/targets.go
package imageprep

// Layout sizes used across the site.
var (
	BannerTarget         = Target{Width: 1920, Height: 600, Quality: DefaultJPEG}
	AboutTopBannerTarget = Target{Width: 1090, Height: 400, Quality: DefaultJPEG}
	AboutImageTarget     = Target{Width: 525, Height: 675, Quality: DefaultJPEG}
	FacultyTarget        = Target{Width: 1090, Height: 800, Quality: DefaultJPEG}
	TeacherTarget        = Target{Width: 525, Height: 675, Quality: DefaultJPEG}
	CourseTarget         = Target{Width: 800, Height: 600, Quality: DefaultJPEG}
	FocusTarget          = Target{Width: 800, Height: 600, Quality: DefaultJPEG}
	FocusBannerTarget    = Target{Width: 1090, Height: 400, Quality: DefaultJPEG}
	ServiceTarget        = Target{Width: 800, Height: 600, Quality: DefaultJPEG}
	TeamTarget           = Target{Width: 525, Height: 675, Quality: DefaultJPEG}
	GalleryTarget        = Target{Width: 1200, Height: 800, Quality: DefaultJPEG}
	ResultTarget         = Target{Width: 1080, Height: 1350, Quality: DefaultJPEG}
	PopupTarget          = Target{Width: 800, Height: 800, Quality: DefaultJPEG}
)
