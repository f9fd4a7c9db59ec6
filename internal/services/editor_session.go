package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yoockh/cvcraft/internal/resume"
	"github.com/yoockh/cvcraft/internal/utils"
)

// Editor message types sent by the client.
const (
	MsgSelectSection = "select_section"
	MsgSetField      = "set_field"
	MsgAddItem       = "add_item"
	MsgRemoveItem    = "remove_item"
	MsgSetTemplate   = "set_template"
	MsgSave          = "save"
)

// Editor event types pushed to the client.
const (
	EventPreview = "preview"
	EventSaved   = "saved"
	EventError   = "error"
)

type EditorMessage struct {
	Type     string          `json:"type"`
	Section  string          `json:"section,omitempty"`
	Field    string          `json:"field,omitempty"`
	Index    *int            `json:"index,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
	Template string          `json:"template,omitempty"`
}

type EditorEvent struct {
	Type        string     `json:"type"`
	Section     string     `json:"section,omitempty"`
	Template    string     `json:"template,omitempty"`
	HTML        string     `json:"html,omitempty"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	Code        utils.Code `json:"code,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// EditorSession owns one draft for the lifetime of a live editing
// connection. It is not safe for concurrent use; callers handle messages
// one at a time.
type EditorSession struct {
	resumes  ResumeService
	renderer ExportService

	userID   string
	resumeID string
	template string
	draft    *resume.Draft
}

// OpenEditor loads the stored resume into a fresh draft and renders the
// first preview.
func OpenEditor(ctx context.Context, resumes ResumeService, renderer ExportService, userID, resumeID, template string) (*EditorSession, EditorEvent, error) {
	const op = "EditorSession.Open"

	row, err := resumes.Get(ctx, resumeID, userID)
	if err != nil {
		return nil, EditorEvent{}, err
	}
	data, err := row.Document()
	if err != nil {
		return nil, EditorEvent{}, utils.E(utils.CodeInternal, op, "stored resume data is unreadable", err)
	}

	s := &EditorSession{
		resumes:  resumes,
		renderer: renderer,
		userID:   userID,
		resumeID: resumeID,
		draft:    resume.NewDraft(data),
	}
	doc, err := renderer.RenderDraft(template, data)
	if err != nil {
		return nil, EditorEvent{}, err
	}
	s.template = doc.Template
	return s, s.previewEvent(doc.HTML), nil
}

func (s *EditorSession) Draft() *resume.Draft { return s.draft }

func (s *EditorSession) Template() string { return s.template }

// Handle applies one client message. A failed message leaves the draft as
// it was and yields an error event.
func (s *EditorSession) Handle(ctx context.Context, msg EditorMessage) EditorEvent {
	const op = "EditorSession.Handle"

	switch msg.Type {
	case MsgSave:
		return s.save(ctx)
	case MsgSetTemplate:
		doc, err := s.renderer.RenderDraft(msg.Template, s.draft.Data())
		if err != nil {
			return errorEvent(err)
		}
		s.template = doc.Template
		return s.previewEvent(doc.HTML)
	case MsgSelectSection, MsgSetField, MsgAddItem, MsgRemoveItem:
	default:
		return errorEvent(utils.E(utils.CodeInvalidArgument, op, "unknown message type: "+msg.Type, nil))
	}

	section, err := resume.ParseSection(msg.Section)
	if err != nil {
		return errorEvent(utils.E(utils.CodeValidation, op, err.Error(), err))
	}

	var next *resume.Draft
	switch msg.Type {
	case MsgSelectSection:
		next, err = s.draft.SelectSection(section)
	case MsgSetField:
		var value any
		if len(msg.Value) > 0 {
			if err := json.Unmarshal(msg.Value, &value); err != nil {
				return errorEvent(utils.E(utils.CodeValidation, op, "value is not valid JSON", err))
			}
		}
		next, err = s.draft.SetField(section, msg.Field, value, msg.Index)
	case MsgAddItem:
		next, err = s.draft.AddItem(section)
	case MsgRemoveItem:
		if msg.Index == nil {
			return errorEvent(utils.E(utils.CodeValidation, op, "remove_item requires an index", resume.ErrIndexRequired))
		}
		next, err = s.draft.RemoveItem(section, *msg.Index)
	}
	if err != nil {
		return errorEvent(err)
	}
	s.draft = next
	return s.preview()
}

func (s *EditorSession) preview() EditorEvent {
	doc, err := s.renderer.RenderDraft(s.template, s.draft.Data())
	if err != nil {
		return errorEvent(err)
	}
	return s.previewEvent(doc.HTML)
}

func (s *EditorSession) previewEvent(html []byte) EditorEvent {
	return EditorEvent{
		Type:     EventPreview,
		Section:  string(s.draft.Section()),
		Template: s.template,
		HTML:     string(html),
	}
}

func (s *EditorSession) save(ctx context.Context) EditorEvent {
	row, err := s.resumes.Update(ctx, s.resumeID, s.userID, s.draft.Data())
	if err != nil {
		return errorEvent(err)
	}
	ts := row.LastUpdated
	return EditorEvent{Type: EventSaved, LastUpdated: &ts}
}

func errorEvent(err error) EditorEvent {
	return EditorEvent{
		Type:  EventError,
		Code:  utils.CodeOf(err),
		Error: utils.MessageOf(err),
	}
}
