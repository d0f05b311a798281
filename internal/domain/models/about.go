// internal/domain/models/about.go
package models

// About is the singleton content of the About page: copy plus three images
// (a 1090×400 top banner and two 525×675 portraits).
type About struct {
	Meta
	Title              string `json:"title"`
	Heading            string `json:"heading"`
	Description        string `json:"description"`
	VisionTitle        string `json:"visionTitle"`
	VisionDescription  string `json:"visionDescription"`
	MissionTitle       string `json:"missionTitle"`
	MissionDescription string `json:"missionDescription"`
	Quote              string `json:"quote"`
	TopBanner          string `json:"topBanner,omitempty"`
	Image1             string `json:"image1,omitempty"`
	Image2             string `json:"image2,omitempty"`
}

func (a About) FieldValues() map[string]string {
	return map[string]string{
		"title":              a.Title,
		"heading":            a.Heading,
		"description":        a.Description,
		"visionTitle":        a.VisionTitle,
		"visionDescription":  a.VisionDescription,
		"missionTitle":       a.MissionTitle,
		"missionDescription": a.MissionDescription,
		"quote":              a.Quote,
	}
}

func (a About) ImageFiles() map[string]string {
	return nonEmpty(map[string]string{
		"topBanner": a.TopBanner,
		"image1":    a.Image1,
		"image2":    a.Image2,
	})
}

func (a About) Summary() (string, string) { return a.Title, a.Heading }
