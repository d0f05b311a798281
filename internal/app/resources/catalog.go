// internal/app/resources/catalog.go
package resources

import (
	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/app/system/crudeditor"
	"github.com/dalemusser/institutehub/internal/app/system/formrules"
	"github.com/dalemusser/institutehub/internal/app/system/imageprep"
	"github.com/dalemusser/institutehub/internal/app/system/listview"
	"github.com/dalemusser/institutehub/internal/domain/models"
)

func text(name, label string, required bool, min, max int) crudeditor.FieldSpec {
	return crudeditor.FieldSpec{
		Name:  name,
		Label: label,
		Kind:  crudeditor.KindText,
		Rules: formrules.Rules{Required: required, MinLen: min, MaxLen: max},
	}
}

func area(name, label string, required bool, min, max int) crudeditor.FieldSpec {
	f := text(name, label, required, min, max)
	f.Kind = crudeditor.KindTextArea
	return f
}

func image(field, label string, limit int64, t imageprep.Target, required bool) crudeditor.ImageSpec {
	return crudeditor.ImageSpec{
		Field:            field,
		Label:            label,
		Constraints:      imageprep.Constraints{MaxBytes: limit, AllowedTypes: []string{imageprep.TypeJPEG, imageprep.TypePNG}},
		Target:           t,
		RequiredOnCreate: required,
	}
}

func withMessage(f crudeditor.FieldSpec, msg string) crudeditor.FieldSpec {
	f.Rules.RequiredMessage = msg
	return f
}

var Banners = Definition[models.Banner]{
	Key:      "banners",
	Title:    "Banners",
	Endpoint: apiclient.Endpoint{Resource: "banners", Path: "/banner", ListPath: "/allbanners"},
	Schema: crudeditor.Schema{
		Fields: []crudeditor.FieldSpec{
			withMessage(area("title", "Banner content", true, 10, 500), "Banner content is required"),
		},
		Images: []crudeditor.ImageSpec{image("image", "Banner image", imageprep.Limit2MB, imageprep.BannerTarget, true)},
	},
}

var Faculty = Definition[models.Faculty]{
	Key:      "faculty",
	Title:    "Faculty",
	Endpoint: apiclient.Endpoint{Resource: "faculty", Path: "/faculty-main"},
	Schema: crudeditor.Schema{
		Fields: []crudeditor.FieldSpec{
			text("title", "Title", true, 10, 500),
			text("subTitle", "Subtitle", true, 10, 500),
		},
		Images: []crudeditor.ImageSpec{func() crudeditor.ImageSpec {
			s := image("photo", "Photo", imageprep.Limit5MB, imageprep.FacultyTarget, true)
			s.RequiredMessage = "Please select an image"
			s.Constraints.SizeMessage = "Image size must not exceed 5MB"
			return s
		}()},
		Toggle: true,
	},
}

var Teachers = Definition[models.Teacher]{
	Key:      "teachers",
	Title:    "Teachers",
	Endpoint: apiclient.Endpoint{Resource: "teachers", Path: "/teacher"},
	Schema: crudeditor.Schema{
		Fields: []crudeditor.FieldSpec{
			withMessage(text("name", "Name", true, 0, 100), "Name is required"),
			{
				Name:   "qualifications",
				Label:  "Qualifications (comma separated)",
				Kind:   crudeditor.KindList,
				Rules:  formrules.Rules{Required: true, RequiredMessage: "Qualifications are required", MaxLen: 200},
				Encode: models.EncodeList,
			},
			text("subject", "Subject", false, 0, 100),
		},
		Images: []crudeditor.ImageSpec{image("photo", "Photo", imageprep.Limit2MB, imageprep.TeacherTarget, true)},
	},
}

var Courses = Definition[models.Course]{
	Key:      "courses",
	Title:    "Courses",
	Endpoint: apiclient.Endpoint{Resource: "courses", Path: "/courses"},
	Schema: crudeditor.Schema{
		Fields: []crudeditor.FieldSpec{
			withMessage(text("heading", "Heading", true, 0, 100), "Heading is required"),
			withMessage(text("subheading", "Subheading", true, 0, 150), "Subheading is required"),
			withMessage(area("description", "Description", true, 0, 500), "Description is required"),
		},
		Images: []crudeditor.ImageSpec{image("image", "Image", imageprep.Limit2MB, imageprep.CourseTarget, true)},
	},
}

var FocusItems = Definition[models.FocusItem]{
	Key:      "focus",
	Title:    "Our focus",
	Endpoint: apiclient.Endpoint{Resource: "focus-items", Path: "/focus-items"},
	Schema: crudeditor.Schema{
		Fields: []crudeditor.FieldSpec{
			text("heading", "Heading", true, 0, 100),
			text("subHeading", "Subheading", true, 0, 150),
			area("description", "Description", true, 0, 500),
		},
		Images: []crudeditor.ImageSpec{image("image", "Image", imageprep.Limit2MB, imageprep.FocusTarget, true)},
	},
}

var FocusMeta = Definition[models.FocusMeta]{
	Key:      "focus-meta",
	Title:    "Our focus page header",
	Endpoint: apiclient.Endpoint{Resource: "focus-meta", Path: "/focus-meta", NoID: true},
	Schema: crudeditor.Schema{
		Fields:    []crudeditor.FieldSpec{withMessage(text("title", "Title", true, 0, 150), "Title is required")},
		Images:    []crudeditor.ImageSpec{image("topBanner", "Top banner", imageprep.Limit2MB, imageprep.FocusBannerTarget, false)},
		Singleton: true,
	},
}

var Services = Definition[models.Service]{
	Key:      "services",
	Title:    "Services",
	Endpoint: apiclient.Endpoint{Resource: "services", Path: "/services"},
	Schema: crudeditor.Schema{
		Fields: []crudeditor.FieldSpec{
			text("title", "Title", true, 0, 100),
			area("description", "Description", true, 0, 500),
		},
		Images: []crudeditor.ImageSpec{image("image", "Image", imageprep.Limit2MB, imageprep.ServiceTarget, true)},
	},
}

var Features = Definition[models.Feature]{
	Key:      "features",
	Title:    "Features",
	Endpoint: apiclient.Endpoint{Resource: "features", Path: "/features", Encoding: apiclient.JSON},
	Schema: crudeditor.Schema{
		Fields: []crudeditor.FieldSpec{
			text("title", "Title", true, 0, 100),
			area("description", "Description", true, 0, 500),
		},
	},
}

var Gallery = Definition[models.GalleryImage]{
	Key:      "gallery",
	Title:    "Gallery",
	Endpoint: apiclient.Endpoint{Resource: "gallery", Path: "/gallery"},
	Schema: crudeditor.Schema{
		Fields: []crudeditor.FieldSpec{text("title", "Caption", true, 0, 100)},
		Images: []crudeditor.ImageSpec{image("image", "Image", imageprep.Limit2MB, imageprep.GalleryTarget, true)},
	},
}

var Results = Definition[models.Result]{
	Key:      "results",
	Title:    "Results",
	Endpoint: apiclient.Endpoint{Resource: "results", Path: "/result"},
	Schema: crudeditor.Schema{
		Fields: []crudeditor.FieldSpec{text("title", "Title", true, 0, 100)},
		Images: []crudeditor.ImageSpec{image("image", "Result poster", imageprep.Limit2MB, imageprep.ResultTarget, true)},
	},
	List: listview.Options{Reverse: true},
}

var Teams = Definition[models.Team]{
	Key:      "teams",
	Title:    "Subject teams",
	Endpoint: apiclient.Endpoint{Resource: "teams", Path: "/team"},
	Schema: crudeditor.Schema{
		Fields: []crudeditor.FieldSpec{withMessage(text("title", "Title", true, 0, 100), "Title is required")},
		Images: []crudeditor.ImageSpec{image("image", "Image", imageprep.Limit2MB, imageprep.TeamTarget, true)},
	},
}

var Popups = Definition[models.Popup]{
	Key:        "popups",
	Title:      "Pop-ups",
	Endpoint:   apiclient.Endpoint{Resource: "popups", Path: "/popup"},
	CreateOnly: true,
	Schema: crudeditor.Schema{
		Fields: []crudeditor.FieldSpec{text("title", "Title", true, 0, 100)},
		Images: []crudeditor.ImageSpec{image("file", "Pop-up image", imageprep.Limit2MB, imageprep.PopupTarget, true)},
	},
}

var Scroll = Definition[models.ScrollMessage]{
	Key:      "scroll",
	Title:    "Scrolling announcements",
	Endpoint: apiclient.Endpoint{Resource: "scroll", Path: "/scroll", EnvelopeKey: "scroll", Encoding: apiclient.JSON},
	Schema: crudeditor.Schema{
		Fields: []crudeditor.FieldSpec{
			withMessage(area("content", "Scroll content", true, 10, 500), "Scroll content is required"),
		},
		Toggle:         true,
		CreateDefaults: map[string]string{"status": models.ScrollActive},
		Carry:          []string{"status"},
		DeletePrompt:   "Are you sure you want to delete this scroll item?",
	},
}

var About = Definition[models.About]{
	Key:      "about",
	Title:    "About",
	Endpoint: apiclient.Endpoint{Resource: "about", Path: "/about"},
	Schema: crudeditor.Schema{
		Fields: []crudeditor.FieldSpec{
			text("title", "Title", true, 0, 100),
			text("heading", "Heading", true, 0, 150),
			area("description", "Description", true, 0, 0),
			text("visionTitle", "Vision title", true, 0, 150),
			area("visionDescription", "Vision", true, 0, 0),
			text("missionTitle", "Mission title", true, 0, 150),
			area("missionDescription", "Mission", true, 0, 0),
			text("quote", "Quote", true, 0, 200),
		},
		Images: []crudeditor.ImageSpec{
			aboutImage("topBanner", "Top banner", imageprep.AboutTopBannerTarget),
			aboutImage("image1", "First image", imageprep.AboutImageTarget),
			aboutImage("image2", "Second image", imageprep.AboutImageTarget),
		},
		Singleton: true,
	},
	List: listview.Options{ThumbField: "topBanner"},
}

func aboutImage(field, label string, t imageprep.Target) crudeditor.ImageSpec {
	s := image(field, label, imageprep.Limit2MB, t, true)
	s.RequiredMessage = "This image is required"
	return s
}

var Contacts = Definition[models.StudentContact]{
	Key:      "contacts",
	Title:    "Student enquiries",
	Endpoint: apiclient.Endpoint{Resource: "contacts", Path: "/contact/student"},
	Table: []listview.Column{
		{Key: "name", Label: "Name"},
		{Key: "email", Label: "Email"},
		{Key: "phone", Label: "Phone"},
		{Key: "place", Label: "Place"},
		{Key: "message", Label: "Message"},
		{Key: "createdAt", Label: "Received"},
	},
	Deletable: true,
}

var Registrations = Definition[models.CourseRegistration]{
	Key:      "registrations",
	Title:    "Course registrations",
	Endpoint: apiclient.Endpoint{Resource: "registrations", Path: "/register/registrations"},
	Table: []listview.Column{
		{Key: "name", Label: "Name"},
		{Key: "email", Label: "Email"},
		{Key: "phone", Label: "Phone"},
		{Key: "course", Label: "Course"},
		{Key: "place", Label: "Place"},
		{Key: "createdAt", Label: "Registered"},
	},
}

// Catalog lists every admin page in navigation order.
func Catalog() []Binding {
	return []Binding{
		Banners, Faculty, Teachers, Teams, Scroll, Popups,
		About, Courses, FocusMeta, FocusItems, Services, Features,
		Gallery, Results, Contacts, Registrations,
	}
}
