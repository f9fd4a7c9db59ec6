package render

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/yoockh/cvcraft/internal/resume"
)

// view is the display form of resume.Data shared by every template. Empty
// sections stay nil so templates can guard them with {{with}}.
type view struct {
	Title          string
	Basics         basicsView
	Profiles       []profileView
	Work           []workView
	Education      []educationView
	Skills         []skillView
	Awards         []awardView
	Certifications []certificationView
	Publications   []publicationView
	Languages      []resume.Language
	Interests      []interestView
	References     []referenceView
	Projects       []projectView
	Volunteer      []volunteerView
}

type basicsView struct {
	Name     string
	Label    string
	Image    string
	Email    string
	Phone    string
	URL      string
	Location string
	Summary  []string
}

// Contact reports whether any contact line is present.
func (b basicsView) Contact() bool {
	return b.Location != "" || b.Phone != "" || b.Email != "" || b.URL != ""
}

type profileView struct {
	Network  string
	Username string
	URL      string
}

type workView struct {
	Name       string
	Position   string
	URL        string
	Period     string
	Summary    []string
	Highlights []string
}

type educationView struct {
	Institution string
	URL         string
	Area        string
	StudyType   string
	Score       string
	Period      string
	Courses     []string
}

type skillView struct {
	Name     string
	Level    string
	Keywords string
}

type awardView struct {
	Title   string
	Date    string
	Awarder string
	Summary []string
}

type certificationView struct {
	Name   string
	Issuer string
	Date   string
	URL    string
	Level  int
	Dots   []bool
}

type publicationView struct {
	Name      string
	Publisher string
	Date      string
	URL       string
	Summary   []string
}

type interestView struct {
	Name     string
	Keywords string
}

type referenceView struct {
	Name      string
	Reference []string
}

type projectView struct {
	Name        string
	Description []string
	URL         string
	Period      string
	Highlights  []string
}

type volunteerView struct {
	Organization string
	Position     string
	URL          string
	Period       string
	Summary      []string
}

func newView(d resume.Data) view {
	b := d.Basics
	v := view{
		Title: "Resume",
		Basics: basicsView{
			Name:    b.Name,
			Label:   b.Label,
			Image:   b.Image,
			Email:   b.Email,
			Phone:   b.Phone,
			URL:     b.URL,
			Summary: resume.Lines(b.Summary),
		},
	}
	if name := strings.TrimSpace(b.Name); name != "" {
		v.Title = name + " - Resume"
	}
	if loc := resume.FormatLocation(b.Location); loc != resume.LocationFallback {
		v.Basics.Location = loc
	}

	for _, p := range b.Profiles {
		v.Profiles = append(v.Profiles, profileView(p))
	}
	for _, w := range d.Work {
		v.Work = append(v.Work, workView{
			Name:       w.Name,
			Position:   w.Position,
			URL:        w.URL,
			Period:     period(w.StartDate, w.EndDate),
			Summary:    resume.Lines(w.Summary),
			Highlights: resume.Lines(w.Highlights),
		})
	}
	for _, e := range d.Education {
		v.Education = append(v.Education, educationView{
			Institution: e.Institution,
			URL:         e.URL,
			Area:        e.Area,
			StudyType:   e.StudyType,
			Score:       e.Score,
			Period:      period(e.StartDate, e.EndDate),
			Courses:     resume.Lines(e.Courses),
		})
	}
	for _, s := range d.Skills {
		v.Skills = append(v.Skills, skillView{
			Name:     s.Name,
			Level:    string(s.Level),
			Keywords: resume.JoinList(resume.Lines(s.Keywords), resume.Separator(resume.SectionSkills, "keywords")),
		})
	}
	for _, a := range d.Awards {
		v.Awards = append(v.Awards, awardView{
			Title:   a.Title,
			Date:    formatDate(a.Date),
			Awarder: a.Awarder,
			Summary: resume.Lines(a.Summary),
		})
	}
	for _, c := range d.Certifications {
		v.Certifications = append(v.Certifications, certificationView{
			Name:   c.Name,
			Issuer: c.Issuer,
			Date:   formatDate(c.Date),
			URL:    c.URL,
			Level:  int(c.Level),
			Dots:   dots(int(c.Level)),
		})
	}
	for _, p := range d.Publications {
		v.Publications = append(v.Publications, publicationView{
			Name:      p.Name,
			Publisher: p.Publisher,
			Date:      formatDate(p.ReleaseDate),
			URL:       p.URL,
			Summary:   resume.Lines(p.Summary),
		})
	}
	if len(d.Languages) > 0 {
		v.Languages = append([]resume.Language(nil), d.Languages...)
	}
	for _, i := range d.Interests {
		v.Interests = append(v.Interests, interestView{
			Name:     i.Name,
			Keywords: strings.Join(resume.Lines(i.Keywords), ", "),
		})
	}
	for _, r := range d.References {
		v.References = append(v.References, referenceView{
			Name:      r.Name,
			Reference: resume.Lines(r.Reference),
		})
	}
	for _, p := range d.Projects {
		v.Projects = append(v.Projects, projectView{
			Name:        p.Name,
			Description: resume.Lines(p.Description),
			URL:         p.URL,
			Period:      period(p.StartDate, p.EndDate),
			Highlights:  resume.Lines(p.Highlights),
		})
	}
	for _, vol := range d.Volunteer {
		v.Volunteer = append(v.Volunteer, volunteerView{
			Organization: vol.Organization,
			Position:     vol.Position,
			URL:          vol.URL,
			Period:       period(vol.StartDate, vol.EndDate),
			Summary:      resume.Lines(vol.Summary),
		})
	}
	return v
}

// formatDate shows parseable dates as "Jan 2006"; a bare year and anything
// else are kept as typed.
func formatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || bareYear.MatchString(s) {
		return s
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return s
	}
	return t.Format("Jan 2006")
}

var bareYear = regexp.MustCompile(`^\d{4}$`)

func period(start, end string) string {
	start, end = formatDate(start), formatDate(end)
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start + " to Present"
	}
	return start + " to " + end
}

func dots(level int) []bool {
	out := make([]bool, resume.MaxRating)
	for i := range out {
		out[i] = i < level
	}
	return out
}
