package flow

import "regbot/entity"

// StudyCenter puts the subscription gate first, before any personal data is collected.
func StudyCenter() *Flow {
	return &Flow{
		Name:  entity.FlowStudyCenter,
		First: entity.StateSubscription,
		Order: []entity.State{
			entity.StateStart,
			entity.StateSubscription,
			entity.StateFullName,
			entity.StateSubjects,
			entity.StatePhone,
			entity.StateCompleted,
		},
		Summary: studyCenterAlready,
		Steps: map[entity.State]Step{
			entity.StateStart:        startStep(),
			entity.StateSubscription: subscriptionStep(entity.StateFullName, studyCenterSubscriptionIntro),
			entity.StateFullName: textStep(static(textScSubscribed), textFullNameEmpty,
				func(reg *entity.Registration, value string) error {
					return reg.RecordFullName(value, entity.StateSubjects)
				}),
			entity.StateSubjects: textStep(static(textScAskSubjects), textScSubjectsNone,
				func(reg *entity.Registration, value string) error {
					return reg.RecordSubjects(value, entity.StatePhone)
				}),
			entity.StatePhone:     phoneStep(entity.StateCompleted),
			entity.StateCompleted: completedStep(studyCenterCompleted),
		},
	}
}

// ByName returns the flow definition for a flow identifier.
func ByName(name entity.Flow) (*Flow, bool) {
	switch name {
	case entity.FlowGeneral:
		return General(), true
	case entity.FlowStudyCenter:
		return StudyCenter(), true
	default:
		return nil, false
	}
}
