// Package entity defines the registration record, inbound updates and keyboards
// shared by the flows, the stores and the Telegram gateway.
package entity

import (
	"errors"
	"fmt"
	"regbot/lib/validate"
	"strings"
	"time"
)

// Flow identifies one registration state machine; every flow keeps its own records.
type Flow string

const (
	FlowGeneral     Flow = "general"      // school pupils: name, school, grade, subjects
	FlowStudyCenter Flow = "study_center" // study center: subscription first, then name, subjects, phone
)

func (f Flow) IsValid() bool {
	return f == FlowGeneral || f == FlowStudyCenter
}

// Slug is the URL path segment of the flow.
func (f Flow) Slug() string {
	return strings.ReplaceAll(string(f), "_", "-")
}

// FlowFromSlug accepts both "study-center" and "study_center" forms.
func FlowFromSlug(slug string) (Flow, bool) {
	f := Flow(strings.ReplaceAll(slug, "-", "_"))
	return f, f.IsValid()
}

// State is the step a registration currently occupies; it is the only driver of dispatch.
type State string

const (
	StateStart        State = "start"
	StateFullName     State = "full_name"
	StateSchool       State = "school"
	StateGrade        State = "grade"
	StateSubjects     State = "subjects"
	StateSubscription State = "subscription"
	StatePhone        State = "phone"
	StateCompleted    State = "completed"
)

// ErrWrongState is returned by mutation operations called from an unexpected state.
var ErrWrongState = errors.New("registration is in the wrong state")

// Registration is one conversant's record within a flow. Records are created lazily
// on first contact and never deleted; Reset clears them back to StateStart.
type Registration struct {
	ChatId       int64     `json:"chat_id" bson:"chat_id" validate:"required"`
	Flow         Flow      `json:"flow" bson:"flow" validate:"required"`
	FullName     string    `json:"full_name" bson:"full_name"`
	School       string    `json:"school" bson:"school"`
	Grade        int       `json:"grade" bson:"grade" validate:"omitempty,min=1,max=10"`
	Subjects     string    `json:"subjects" bson:"subjects"`
	Phone        string    `json:"phone" bson:"phone"`
	IsSubscribed bool      `json:"is_subscribed" bson:"is_subscribed"`
	State        State     `json:"state" bson:"state" validate:"required"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

func NewRegistration(flow Flow, chatId int64) *Registration {
	now := time.Now()
	return &Registration{
		ChatId:    chatId,
		Flow:      flow,
		State:     StateStart,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (r *Registration) Validate() error {
	return validate.Struct(r)
}

// SubjectList splits comma-joined subjects into trimmed, non-empty names.
func (r *Registration) SubjectList() []string {
	var list []string
	for _, s := range strings.Split(r.Subjects, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			list = append(list, s)
		}
	}
	return list
}

func (r *Registration) expect(state State) error {
	if r.State != state {
		return fmt.Errorf("%w: expected %s, got %s", ErrWrongState, state, r.State)
	}
	return nil
}

// Begin moves a fresh record to the first data-collection state of its flow.
func (r *Registration) Begin(next State) error {
	if err := r.expect(StateStart); err != nil {
		return err
	}
	r.State = next
	return nil
}

func (r *Registration) RecordFullName(name string, next State) error {
	if err := r.expect(StateFullName); err != nil {
		return err
	}
	r.FullName = name
	r.State = next
	return nil
}

func (r *Registration) RecordSchool(school string, next State) error {
	if err := r.expect(StateSchool); err != nil {
		return err
	}
	r.School = school
	r.State = next
	return nil
}

// RecordGrade stores the grade; a non-empty auto set is stored as the subjects
// and replaces the subject selection step.
func (r *Registration) RecordGrade(grade int, auto []string, next State) error {
	if err := r.expect(StateGrade); err != nil {
		return err
	}
	if grade < 1 || grade > 10 {
		return fmt.Errorf("grade out of range: %d", grade)
	}
	r.Grade = grade
	if len(auto) > 0 {
		r.Subjects = strings.Join(auto, ", ")
	}
	r.State = next
	return nil
}

func (r *Registration) RecordSubjects(subjects string, next State) error {
	if err := r.expect(StateSubjects); err != nil {
		return err
	}
	r.Subjects = subjects
	r.State = next
	return nil
}

func (r *Registration) RecordPhone(phone string, next State) error {
	if err := r.expect(StatePhone); err != nil {
		return err
	}
	r.Phone = phone
	r.State = next
	return nil
}

// MarkSubscribed is only reachable from StateSubscription; the flag stays true until Reset.
func (r *Registration) MarkSubscribed(next State) error {
	if err := r.expect(StateSubscription); err != nil {
		return err
	}
	r.IsSubscribed = true
	r.State = next
	return nil
}

// Reset clears every collected field and returns the record to StateStart.
func (r *Registration) Reset() {
	r.FullName = ""
	r.School = ""
	r.Grade = 0
	r.Subjects = ""
	r.Phone = ""
	r.IsSubscribed = false
	r.State = StateStart
}
