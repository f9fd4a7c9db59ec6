package resume

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Section names one independently editable part of Data.
type Section string

const (
	SectionBasics         Section = "basics"
	SectionProfiles       Section = "profiles"
	SectionWork           Section = "work"
	SectionEducation      Section = "education"
	SectionSkills         Section = "skills"
	SectionAwards         Section = "awards"
	SectionCertifications Section = "certifications"
	SectionPublications   Section = "publications"
	SectionLanguages      Section = "languages"
	SectionInterests      Section = "interests"
	SectionReferences     Section = "references"
	SectionProjects       Section = "projects"
	SectionVolunteer      Section = "volunteer"
)

var (
	ErrUnknownSection = errors.New("unknown section")
	ErrUnknownField   = errors.New("unknown field")
	ErrFieldType      = errors.New("invalid field value")
	ErrOutOfRange     = errors.New("index out of range")
	ErrNotRepeatable  = errors.New("section is not repeatable")
	ErrIndexRequired  = errors.New("index is required")
)

var sections = []Section{
	SectionBasics,
	SectionProfiles,
	SectionWork,
	SectionEducation,
	SectionSkills,
	SectionAwards,
	SectionCertifications,
	SectionPublications,
	SectionLanguages,
	SectionInterests,
	SectionReferences,
	SectionProjects,
	SectionVolunteer,
}

// Sections lists every section in editor order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

func ParseSection(s string) (Section, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "certificates" {
		s = string(SectionCertifications)
	}
	for _, sec := range sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

// Repeatable reports whether the section is an ordered list of records.
func (s Section) Repeatable() bool {
	return s != SectionBasics && slices.Contains(sections, s)
}

// Separator returns the separator a list field uses when edited as text.
// Fields that are not lists return "".
func Separator(s Section, field string) string {
	switch {
	case s == SectionSkills && field == "keywords":
		return ", "
	case s == SectionWork && field == "highlights",
		s == SectionEducation && field == "courses",
		s == SectionInterests && field == "keywords",
		s == SectionProjects && field == "highlights":
		return "\n"
	}
	return ""
}

// Len returns the number of records in a repeatable section.
func (d *Data) Len(s Section) (int, error) {
	switch s {
	case SectionProfiles:
		return len(d.Basics.Profiles), nil
	case SectionWork:
		return len(d.Work), nil
	case SectionEducation:
		return len(d.Education), nil
	case SectionSkills:
		return len(d.Skills), nil
	case SectionAwards:
		return len(d.Awards), nil
	case SectionCertifications:
		return len(d.Certifications), nil
	case SectionPublications:
		return len(d.Publications), nil
	case SectionLanguages:
		return len(d.Languages), nil
	case SectionInterests:
		return len(d.Interests), nil
	case SectionReferences:
		return len(d.References), nil
	case SectionProjects:
		return len(d.Projects), nil
	case SectionVolunteer:
		return len(d.Volunteer), nil
	case SectionBasics:
		return 0, fmt.Errorf("%w: %s", ErrNotRepeatable, s)
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

func (d *Data) appendEmpty(s Section) error {
	switch s {
	case SectionProfiles:
		d.Basics.Profiles = append(d.Basics.Profiles, Profile{})
	case SectionWork:
		d.Work = append(d.Work, Work{Highlights: []string{}})
	case SectionEducation:
		d.Education = append(d.Education, Education{Courses: []string{}})
	case SectionSkills:
		d.Skills = append(d.Skills, Skill{Keywords: []string{}})
	case SectionAwards:
		d.Awards = append(d.Awards, Award{})
	case SectionCertifications:
		d.Certifications = append(d.Certifications, Certification{})
	case SectionPublications:
		d.Publications = append(d.Publications, Publication{})
	case SectionLanguages:
		d.Languages = append(d.Languages, Language{})
	case SectionInterests:
		d.Interests = append(d.Interests, Interest{Keywords: []string{}})
	case SectionReferences:
		d.References = append(d.References, Reference{})
	case SectionProjects:
		d.Projects = append(d.Projects, Project{Highlights: []string{}})
	case SectionVolunteer:
		d.Volunteer = append(d.Volunteer, Volunteer{})
	case SectionBasics:
		return fmt.Errorf("%w: %s", ErrNotRepeatable, s)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	return nil
}

func (d *Data) removeAt(s Section, index int) (err error) {
	switch s {
	case SectionProfiles:
		d.Basics.Profiles, err = without(d.Basics.Profiles, index)
	case SectionWork:
		d.Work, err = without(d.Work, index)
	case SectionEducation:
		d.Education, err = without(d.Education, index)
	case SectionSkills:
		d.Skills, err = without(d.Skills, index)
	case SectionAwards:
		d.Awards, err = without(d.Awards, index)
	case SectionCertifications:
		d.Certifications, err = without(d.Certifications, index)
	case SectionPublications:
		d.Publications, err = without(d.Publications, index)
	case SectionLanguages:
		d.Languages, err = without(d.Languages, index)
	case SectionInterests:
		d.Interests, err = without(d.Interests, index)
	case SectionReferences:
		d.References, err = without(d.References, index)
	case SectionProjects:
		d.Projects, err = without(d.Projects, index)
	case SectionVolunteer:
		d.Volunteer, err = without(d.Volunteer, index)
	case SectionBasics:
		return fmt.Errorf("%w: %s", ErrNotRepeatable, s)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	return err
}

func (d *Data) setField(s Section, index int, field string, v any) error {
	switch s {
	case SectionBasics:
		return d.Basics.setField(field, v)
	case SectionProfiles:
		return setAt(d.Basics.Profiles, index, field, v)
	case SectionWork:
		return setAt(d.Work, index, field, v)
	case SectionEducation:
		return setAt(d.Education, index, field, v)
	case SectionSkills:
		return setAt(d.Skills, index, field, v)
	case SectionAwards:
		return setAt(d.Awards, index, field, v)
	case SectionCertifications:
		return setAt(d.Certifications, index, field, v)
	case SectionPublications:
		return setAt(d.Publications, index, field, v)
	case SectionLanguages:
		return setAt(d.Languages, index, field, v)
	case SectionInterests:
		return setAt(d.Interests, index, field, v)
	case SectionReferences:
		return setAt(d.References, index, field, v)
	case SectionProjects:
		return setAt(d.Projects, index, field, v)
	case SectionVolunteer:
		return setAt(d.Volunteer, index, field, v)
	}
	return fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

type fieldSetter interface {
	setField(field string, v any) error
}

func setAt[T any, P interface {
	*T
	fieldSetter
}](items []T, index int, field string, v any) error {
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, index, len(items))
	}
	return P(&items[index]).setField(field, v)
}

func without[T any](items []T, index int) ([]T, error) {
	if index < 0 || index >= len(items) {
		return items, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, index, len(items))
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...), nil
}

func (b *Basics) setField(field string, v any) (err error) {
	switch field {
	case "name":
		b.Name, err = text(v)
	case "label":
		b.Label, err = text(v)
	case "image":
		b.Image, err = text(v)
	case "email":
		b.Email, err = text(v)
	case "phone":
		b.Phone, err = text(v)
	case "url":
		b.URL, err = text(v)
	case "summary":
		b.Summary, err = text(v)
	case "location.address":
		b.Location.Address, err = text(v)
	case "location.postalCode":
		b.Location.PostalCode, err = text(v)
	case "location.city":
		b.Location.City, err = text(v)
	case "location.countryCode":
		b.Location.CountryCode, err = text(v)
	case "location.region":
		b.Location.Region, err = text(v)
	default:
		return unknownField(SectionBasics, field)
	}
	return err
}

func (p *Profile) setField(field string, v any) (err error) {
	switch field {
	case "network":
		p.Network, err = text(v)
	case "username":
		p.Username, err = text(v)
	case "url":
		p.URL, err = text(v)
	default:
		return unknownField(SectionProfiles, field)
	}
	return err
}

func (w *Work) setField(field string, v any) (err error) {
	switch field {
	case "name":
		w.Name, err = text(v)
	case "position":
		w.Position, err = text(v)
	case "url":
		w.URL, err = text(v)
	case "startDate":
		w.StartDate, err = text(v)
	case "endDate":
		w.EndDate, err = text(v)
	case "summary":
		w.Summary, err = text(v)
	case "highlights":
		w.Highlights, err = list(v, Separator(SectionWork, field))
	default:
		return unknownField(SectionWork, field)
	}
	return err
}

func (e *Education) setField(field string, v any) (err error) {
	switch field {
	case "institution":
		e.Institution, err = text(v)
	case "url":
		e.URL, err = text(v)
	case "area":
		e.Area, err = text(v)
	case "studyType":
		e.StudyType, err = text(v)
	case "startDate":
		e.StartDate, err = text(v)
	case "endDate":
		e.EndDate, err = text(v)
	case "score":
		e.Score, err = text(v)
	case "courses":
		e.Courses, err = list(v, Separator(SectionEducation, field))
	default:
		return unknownField(SectionEducation, field)
	}
	return err
}

func (s *Skill) setField(field string, v any) (err error) {
	switch field {
	case "name":
		s.Name, err = text(v)
	case "level":
		var l string
		l, err = text(v)
		s.Level = Label(l)
	case "keywords":
		s.Keywords, err = list(v, Separator(SectionSkills, field))
	default:
		return unknownField(SectionSkills, field)
	}
	return err
}

func (a *Award) setField(field string, v any) (err error) {
	switch field {
	case "title":
		a.Title, err = text(v)
	case "date":
		a.Date, err = text(v)
	case "awarder":
		a.Awarder, err = text(v)
	case "summary":
		a.Summary, err = text(v)
	default:
		return unknownField(SectionAwards, field)
	}
	return err
}

func (c *Certification) setField(field string, v any) (err error) {
	switch field {
	case "name":
		c.Name, err = text(v)
	case "date":
		c.Date, err = text(v)
	case "issuer":
		c.Issuer, err = text(v)
	case "url":
		c.URL, err = text(v)
	case "level":
		c.Level, err = rating(v)
	default:
		return unknownField(SectionCertifications, field)
	}
	return err
}

func (p *Publication) setField(field string, v any) (err error) {
	switch field {
	case "name":
		p.Name, err = text(v)
	case "publisher":
		p.Publisher, err = text(v)
	case "releaseDate":
		p.ReleaseDate, err = text(v)
	case "url":
		p.URL, err = text(v)
	case "summary":
		p.Summary, err = text(v)
	default:
		return unknownField(SectionPublications, field)
	}
	return err
}

func (l *Language) setField(field string, v any) (err error) {
	switch field {
	case "language":
		l.Language, err = text(v)
	case "fluency":
		l.Fluency, err = text(v)
	default:
		return unknownField(SectionLanguages, field)
	}
	return err
}

func (i *Interest) setField(field string, v any) (err error) {
	switch field {
	case "name":
		i.Name, err = text(v)
	case "keywords":
		i.Keywords, err = list(v, Separator(SectionInterests, field))
	default:
		return unknownField(SectionInterests, field)
	}
	return err
}

func (r *Reference) setField(field string, v any) (err error) {
	switch field {
	case "name":
		r.Name, err = text(v)
	case "reference":
		r.Reference, err = text(v)
	default:
		return unknownField(SectionReferences, field)
	}
	return err
}

func (p *Project) setField(field string, v any) (err error) {
	switch field {
	case "name":
		p.Name, err = text(v)
	case "description":
		p.Description, err = text(v)
	case "url":
		p.URL, err = text(v)
	case "highlights":
		p.Highlights, err = list(v, Separator(SectionProjects, field))
	case "startDate":
		p.StartDate, err = text(v)
	case "endDate":
		p.EndDate, err = text(v)
	default:
		return unknownField(SectionProjects, field)
	}
	return err
}

func (vo *Volunteer) setField(field string, v any) (err error) {
	switch field {
	case "organization":
		vo.Organization, err = text(v)
	case "position":
		vo.Position, err = text(v)
	case "url":
		vo.URL, err = text(v)
	case "startDate":
		vo.StartDate, err = text(v)
	case "endDate":
		vo.EndDate, err = text(v)
	case "summary":
		vo.Summary, err = text(v)
	default:
		return unknownField(SectionVolunteer, field)
	}
	return err
}

func unknownField(s Section, field string) error {
	return fmt.Errorf("%w: %s.%s", ErrUnknownField, s, field)
}

func text(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case Label:
		return string(t), nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("%w: want text, got %T", ErrFieldType, v)
}

func list(v any, sep string) ([]string, error) {
	switch t := v.(type) {
	case string:
		return SplitList(t, sep), nil
	case []string:
		return keepNonBlank(t), nil
	case []any:
		items := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w: list entries must be text, got %T", ErrFieldType, e)
			}
			items = append(items, s)
		}
		return keepNonBlank(items), nil
	case nil:
		return []string{}, nil
	}
	return nil, fmt.Errorf("%w: want list or text, got %T", ErrFieldType, v)
}

func keepNonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func rating(v any) (Rating, error) {
	var f float64
	switch t := v.(type) {
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case float64:
		f = t
	case Rating:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrFieldType, err)
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: rating must be numeric", ErrFieldType)
		}
		f = n
	default:
		return 0, fmt.Errorf("%w: want rating, got %T", ErrFieldType, v)
	}
	if f != math.Trunc(f) || f < MinRating || f > MaxRating {
		return 0, fmt.Errorf("%w: rating must be an integer in [%d, %d]", ErrFieldType, MinRating, MaxRating)
	}
	return Rating(f), nil
}
