package flow

import (
	"context"
	"net/url"
	"regbot/entity"
	"regbot/impl/catalog"
	"strconv"
	"strings"
)

type prompt func(m *Machine, reg *entity.Registration) (string, *entity.Keyboard)

func static(text string) prompt {
	return func(_ *Machine, _ *entity.Registration) (string, *entity.Keyboard) {
		return text, nil
	}
}

func enterWith(p prompt) func(ctx context.Context, m *Machine, reg *entity.Registration) {
	return func(ctx context.Context, m *Machine, reg *entity.Registration) {
		text, kb := p(m, reg)
		m.reply(ctx, reg.ChatId, text, kb)
	}
}

// startStep reacts only to /start; everything else in a fresh session is ignored.
func startStep() Step {
	return Step{
		Handle: func(ctx context.Context, m *Machine, reg *entity.Registration, u *entity.Update) error {
			if u.IsCallback() || u.Text != CmdStart {
				return nil
			}
			return m.begin(ctx, reg)
		},
	}
}

// textStep collects one non-empty free-text value.
func textStep(p prompt, empty string, record func(reg *entity.Registration, value string) error) Step {
	return Step{
		Enter: enterWith(p),
		Handle: func(ctx context.Context, m *Machine, reg *entity.Registration, u *entity.Update) error {
			if u.IsCallback() {
				return nil
			}
			value := strings.TrimSpace(u.Text)
			if value == "" {
				m.reply(ctx, reg.ChatId, empty, nil)
				return nil
			}
			return m.mutate(ctx, reg, func() error {
				return record(reg, value)
			})
		},
	}
}

func gradeKeyboard() *entity.Keyboard {
	var rows [][]entity.Button
	var row []entity.Button
	for g := catalog.MinGrade; g <= catalog.MaxGrade; g++ {
		n := strconv.Itoa(g)
		row = append(row, entity.Button{Text: n, CallbackData: cbGrade + n})
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return entity.InlineKeyboard(rows...)
}

// gradeStep accepts a grade typed or picked from the grid. Grades with an
// auto-assigned subject set skip the subject step.
func gradeStep() Step {
	return Step{
		Enter: enterWith(func(_ *Machine, _ *entity.Registration) (string, *entity.Keyboard) {
			return textAskGrade, gradeKeyboard()
		}),
		Handle: func(ctx context.Context, m *Machine, reg *entity.Registration, u *entity.Update) error {
			input := u.Text
			if u.IsCallback() {
				value, ok := strings.CutPrefix(u.Callback.Data, cbGrade)
				if !ok {
					return nil
				}
				input = value
			}
			grade, ok := catalog.ParseGrade(strings.TrimSpace(input))
			if !ok {
				m.reply(ctx, reg.ChatId, textGradeInvalid, nil)
				return nil
			}
			next := entity.StateSubjects
			var auto []string
			if catalog.IsSkippable(grade) {
				auto = catalog.SubjectsFor(grade)
				next = entity.StateSubscription
			}
			return m.mutate(ctx, reg, func() error {
				return reg.RecordGrade(grade, auto, next)
			})
		},
	}
}

func subjectKeyboard(grade int) *entity.Keyboard {
	var rows [][]entity.Button
	for _, s := range catalog.SubjectsFor(grade) {
		rows = append(rows, []entity.Button{{Text: s, CallbackData: cbSubject + url.QueryEscape(s)}})
	}
	return entity.InlineKeyboard(rows...)
}

// subjectChoiceStep accepts exactly one catalog entry for the stored grade.
func subjectChoiceStep(next entity.State) Step {
	return Step{
		Enter: enterWith(func(_ *Machine, reg *entity.Registration) (string, *entity.Keyboard) {
			return textAskSubject, subjectKeyboard(reg.Grade)
		}),
		Handle: func(ctx context.Context, m *Machine, reg *entity.Registration, u *entity.Update) error {
			choice := u.Text
			if u.IsCallback() {
				value, ok := strings.CutPrefix(u.Callback.Data, cbSubject)
				if !ok {
					return nil
				}
				unescaped, err := url.QueryUnescape(value)
				if err != nil {
					return nil
				}
				choice = unescaped
			}
			if reg.Grade == 0 {
				m.reply(ctx, reg.ChatId, textFallback, nil)
				return nil
			}
			if !catalog.IsValidChoice(reg.Grade, choice) {
				options := strings.Join(catalog.SubjectsFor(reg.Grade), ", ")
				m.reply(ctx, reg.ChatId, textSubjectOneOf+esc(options), nil)
				return nil
			}
			return m.mutate(ctx, reg, func() error {
				return reg.RecordSubjects(choice, next)
			})
		},
	}
}

func subscriptionKeyboard(l Links) *entity.Keyboard {
	var rows [][]entity.Button
	if name := strings.TrimPrefix(l.ChannelUsername, "@"); name != "" {
		rows = append(rows, []entity.Button{{Text: textChannelLink, Url: "https://t.me/" + name}})
	}
	if l.Instagram != "" {
		rows = append(rows, []entity.Button{{Text: "Instagram", Url: l.Instagram}})
	}
	if l.YouTube != "" {
		rows = append(rows, []entity.Button{{Text: "YouTube", Url: l.YouTube}})
	}
	rows = append(rows, []entity.Button{{Text: confirmText, CallbackData: cbConfirm}})
	return entity.InlineKeyboard(rows...)
}

func isConfirmation(u *entity.Update) bool {
	if u.IsCallback() {
		return u.Callback.Data == cbConfirm
	}
	return u.Text == confirmText
}

// subscriptionStep runs the channel membership gate on an explicit confirmation.
// The record only advances when the gate passes.
func subscriptionStep(next entity.State, intro func(l Links) string) Step {
	return Step{
		Enter: enterWith(func(m *Machine, _ *entity.Registration) (string, *entity.Keyboard) {
			return intro(m.links), subscriptionKeyboard(m.links)
		}),
		Handle: func(ctx context.Context, m *Machine, reg *entity.Registration, u *entity.Update) error {
			if !isConfirmation(u) {
				if !u.IsCallback() {
					m.reply(ctx, reg.ChatId, intro(m.links), subscriptionKeyboard(m.links))
				}
				return nil
			}
			if !m.gate.Configured() {
				m.reply(ctx, reg.ChatId, textNoChannel, nil)
				return nil
			}
			if !m.gate.Check(ctx, reg.ChatId) {
				retry := entity.InlineKeyboard([]entity.Button{{Text: confirmText, CallbackData: cbConfirm}})
				m.reply(ctx, reg.ChatId, notSubscribed(m.links), retry)
				return nil
			}
			return m.mutate(ctx, reg, func() error {
				return reg.MarkSubscribed(next)
			})
		},
	}
}

// phoneStep accepts a shared contact as is, or free text with enough digits.
func phoneStep(next entity.State) Step {
	return Step{
		Enter: enterWith(func(_ *Machine, _ *entity.Registration) (string, *entity.Keyboard) {
			return textScAskPhone, entity.ReplyKeyboard([]entity.Button{{Text: contactLabel, RequestContact: true}})
		}),
		Handle: func(ctx context.Context, m *Machine, reg *entity.Registration, u *entity.Update) error {
			if u.IsCallback() {
				return nil
			}
			phone := strings.TrimSpace(u.Phone)
			if phone == "" {
				text := strings.TrimSpace(u.Text)
				if text == "" {
					m.reply(ctx, reg.ChatId, textScPhoneEmpty, nil)
					return nil
				}
				normalized, ok := NormalizePhone(text)
				if !ok {
					m.reply(ctx, reg.ChatId, textScPhoneInvalid, nil)
					return nil
				}
				phone = normalized
			}
			return m.mutate(ctx, reg, func() error {
				return reg.RecordPhone(phone, next)
			})
		},
	}
}

// completedStep sends the final summary on entry and drops any reply keyboard.
func completedStep(summary func(reg *entity.Registration) string) Step {
	return Step{
		Enter: enterWith(func(_ *Machine, reg *entity.Registration) (string, *entity.Keyboard) {
			return summary(reg), entity.RemoveKeyboard()
		}),
		Handle: func(ctx context.Context, m *Machine, reg *entity.Registration, u *entity.Update) error {
			if u.IsCallback() {
				return nil
			}
			if u.Text == CmdStart {
				m.reply(ctx, reg.ChatId, m.flow.Summary(reg), nil)
				return nil
			}
			m.reply(ctx, reg.ChatId, textFallback, nil)
			return nil
		},
	}
}
