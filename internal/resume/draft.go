package resume

import (
	"errors"
	"fmt"

	"github.com/mohae/deepcopy"

	"github.com/yoockh/cvcraft/internal/utils"
)

// Draft is the in-memory copy of one resume being edited, together with
// the section the editor currently shows. A Draft is never modified in
// place: every operation returns a new Draft.
type Draft struct {
	data    Data
	section Section
}

func NewDraft(d Data) *Draft {
	d = Clone(d)
	d.Normalize()
	return &Draft{data: d, section: SectionBasics}
}

// Data returns a copy of the draft contents.
func (d *Draft) Data() Data { return Clone(d.data) }

func (d *Draft) Section() Section { return d.section }

func (d *Draft) SelectSection(s Section) (*Draft, error) {
	const op = "Draft.SelectSection"

	sec, err := ParseSection(string(s))
	if err != nil {
		return d, classify(op, err)
	}
	return &Draft{data: d.data, section: sec}, nil
}

// SetField updates one field. index selects the record for repeatable
// sections, where it is required, and is ignored for basics.
func (d *Draft) SetField(s Section, field string, value any, index *int) (*Draft, error) {
	const op = "Draft.SetField"

	i := 0
	if s.Repeatable() {
		if index == nil {
			return d, classify(op, fmt.Errorf("%w for section %s", ErrIndexRequired, s))
		}
		i = *index
	}

	next := Clone(d.data)
	if err := next.setField(s, i, field, value); err != nil {
		return d, classify(op, err)
	}
	return &Draft{data: next, section: d.section}, nil
}

// AddItem appends an empty record to a repeatable section.
func (d *Draft) AddItem(s Section) (*Draft, error) {
	const op = "Draft.AddItem"

	next := Clone(d.data)
	if err := next.appendEmpty(s); err != nil {
		return d, classify(op, err)
	}
	return &Draft{data: next, section: d.section}, nil
}

// RemoveItem drops the record at index. Out-of-range indexes fail and leave
// the list untouched.
func (d *Draft) RemoveItem(s Section, index int) (*Draft, error) {
	const op = "Draft.RemoveItem"

	next := Clone(d.data)
	if err := next.removeAt(s, index); err != nil {
		return d, classify(op, err)
	}
	return &Draft{data: next, section: d.section}, nil
}

// Clone returns a deep copy of d.
func Clone(d Data) Data {
	return deepcopy.Copy(d).(Data)
}

func classify(op string, err error) error {
	switch {
	case errors.Is(err, ErrOutOfRange):
		return utils.E(utils.CodeOutOfRange, op, err.Error(), err)
	case errors.Is(err, ErrUnknownSection), errors.Is(err, ErrUnknownField),
		errors.Is(err, ErrFieldType), errors.Is(err, ErrNotRepeatable),
		errors.Is(err, ErrIndexRequired):
		return utils.E(utils.CodeValidation, op, err.Error(), err)
	}
	return utils.E(utils.CodeInternal, op, "draft update failed", err)
}
