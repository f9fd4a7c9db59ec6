// Package resume defines the resume document model shared by the editor,
// the templates and persistence, plus the pure helpers that operate on it.
package resume

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Data is the `data` payload of a resume record.
type Data struct {
	Basics         Basics          `json:"basics"`
	Work           []Work          `json:"work"`
	Education      []Education     `json:"education"`
	Skills         []Skill         `json:"skills"`
	Awards         []Award         `json:"awards"`
	Certifications []Certification `json:"certifications"`
	Publications   []Publication   `json:"publications"`
	Languages      []Language      `json:"languages"`
	Interests      []Interest      `json:"interests"`
	References     []Reference     `json:"references"`
	Projects       []Project       `json:"projects"`
	Volunteer      []Volunteer     `json:"volunteer"`
}

type Basics struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Image    string    `json:"image"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	URL      string    `json:"url"`
	Summary  string    `json:"summary"`
	Location Location  `json:"location"`
	Profiles []Profile `json:"profiles"`
}

type Location struct {
	Address     string `json:"address"`
	PostalCode  string `json:"postalCode"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
	Region      string `json:"region"`
}

// Profile.Network is one of Github, Linkedin, Twitter, Portfolio in practice
// but any label is kept.
type Profile struct {
	Network  string `json:"network"`
	Username string `json:"username"`
	URL      string `json:"url"`
}

type Work struct {
	Name       string   `json:"name"`
	Position   string   `json:"position"`
	URL        string   `json:"url"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
}

type Education struct {
	Institution string   `json:"institution"`
	URL         string   `json:"url"`
	Area        string   `json:"area"`
	StudyType   string   `json:"studyType"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Score       string   `json:"score"`
	Courses     []string `json:"courses"`
}

// Skill.Level is a free-text label ("Advanced"), unlike Certification.Level.
type Skill struct {
	Name     string   `json:"name"`
	Level    Label    `json:"level"`
	Keywords []string `json:"keywords"`
}

type Award struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Awarder string `json:"awarder"`
	Summary string `json:"summary"`
}

// Certification.Level is a bounded rating in [MinRating, MaxRating].
type Certification struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Issuer string `json:"issuer"`
	URL    string `json:"url"`
	Level  Rating `json:"level"`
}

type Publication struct {
	Name        string `json:"name"`
	Publisher   string `json:"publisher"`
	ReleaseDate string `json:"releaseDate"`
	URL         string `json:"url"`
	Summary     string `json:"summary"`
}

type Language struct {
	Language string `json:"language"`
	Fluency  string `json:"fluency"`
}

type Interest struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

type Reference struct {
	Name      string `json:"name"`
	Reference string `json:"reference"`
}

type Project struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Highlights  []string `json:"highlights"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
}

type Volunteer struct {
	Organization string `json:"organization"`
	Position     string `json:"position"`
	URL          string `json:"url"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Summary      string `json:"summary"`
}

const (
	MinRating = 0
	MaxRating = 5
)

// Label is a free-text value. Older rows stored skill levels as numbers,
// which are read back as their decimal text.
type Label string

func (l *Label) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Label(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*l = Label(n.String())
	return nil
}

// Rating is a small integer score. Numeric strings are accepted on read.
type Rating int

func (r *Rating) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = 0
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*r = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*r = Rating(f)
	return nil
}

// UnmarshalJSON accepts the canonical object, a plain string, and the
// character-indexed object left behind by older clients.
func (l *Location) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*l = Location{}
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Location{City: s}
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if hasNumericKeys(m) {
		if _, ok := m["city"]; !ok {
			*l = Location{City: joinNumericKeys(m)}
			return nil
		}
	}

	type plain Location
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*l = Location(p)
	return nil
}

// UnmarshalJSON reads the legacy `certificates` key when `certifications`
// is absent.
func (d *Data) UnmarshalJSON(b []byte) error {
	type plain Data
	var p struct {
		plain
		Certificates []Certification `json:"certificates"`
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*d = Data(p.plain)
	if d.Certifications == nil && p.Certificates != nil {
		d.Certifications = p.Certificates
	}
	return nil
}

// Empty returns the record a freshly created resume starts with.
func Empty() Data {
	var d Data
	d.Normalize()
	return d
}

// Normalize replaces every nil list with an empty one so that encoders
// always emit [] and templates can range unconditionally.
func (d *Data) Normalize() {
	d.Basics.Profiles = nonNil(d.Basics.Profiles)
	d.Work = nonNil(d.Work)
	for i := range d.Work {
		d.Work[i].Highlights = nonNil(d.Work[i].Highlights)
	}
	d.Education = nonNil(d.Education)
	for i := range d.Education {
		d.Education[i].Courses = nonNil(d.Education[i].Courses)
	}
	d.Skills = nonNil(d.Skills)
	for i := range d.Skills {
		d.Skills[i].Keywords = nonNil(d.Skills[i].Keywords)
	}
	d.Awards = nonNil(d.Awards)
	d.Certifications = nonNil(d.Certifications)
	d.Publications = nonNil(d.Publications)
	d.Languages = nonNil(d.Languages)
	d.Interests = nonNil(d.Interests)
	for i := range d.Interests {
		d.Interests[i].Keywords = nonNil(d.Interests[i].Keywords)
	}
	d.References = nonNil(d.References)
	d.Projects = nonNil(d.Projects)
	for i := range d.Projects {
		d.Projects[i].Highlights = nonNil(d.Projects[i].Highlights)
	}
	d.Volunteer = nonNil(d.Volunteer)
}

// Decode reads a stored payload. It trusts the shape and only fills gaps.
func Decode(raw []byte) (Data, error) {
	var d Data
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &d); err != nil {
			return Data{}, err
		}
	}
	d.Normalize()
	return d, nil
}

// Encode returns the canonical JSON form of d.
func Encode(d Data) ([]byte, error) {
	d = Clone(d)
	d.Normalize()
	return json.Marshal(d)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
