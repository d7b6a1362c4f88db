package flow

import "regbot/entity"

// General is the school registration: name, school, grade, subjects, then the
// subscription gate. Grades 1-4 get their subjects assigned and skip the choice.
func General() *Flow {
	return &Flow{
		Name:  entity.FlowGeneral,
		First: entity.StateFullName,
		Order: []entity.State{
			entity.StateStart,
			entity.StateFullName,
			entity.StateSchool,
			entity.StateGrade,
			entity.StateSubjects,
			entity.StateSubscription,
			entity.StateCompleted,
		},
		RestartNotice: textRestarted,
		Summary: generalAlready,
		Steps: map[entity.State]Step{
			entity.StateStart: startStep(),
			entity.StateFullName: textStep(static(textAskFullName), textFullNameEmpty,
				func(reg *entity.Registration, value string) error {
					return reg.RecordFullName(value, entity.StateSchool)
				}),
			entity.StateSchool: textStep(static(textAskSchool), textSchoolEmpty,
				func(reg *entity.Registration, value string) error {
					return reg.RecordSchool(value, entity.StateGrade)
				}),
			entity.StateGrade:        gradeStep(),
			entity.StateSubjects:     subjectChoiceStep(entity.StateSubscription),
			entity.StateSubscription: subscriptionStep(entity.StateCompleted, generalSubscriptionIntro),
			entity.StateCompleted:    completedStep(generalCompleted),
		},
	}
}
