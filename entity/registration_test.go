package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistration_ForwardOnly(t *testing.T) {
	reg := NewRegistration(FlowGeneral, 1)

	assert.ErrorIs(t, reg.RecordFullName("Ali", StateSchool), ErrWrongState)
	require.NoError(t, reg.Begin(StateFullName))
	assert.ErrorIs(t, reg.Begin(StateFullName), ErrWrongState)
	require.NoError(t, reg.RecordFullName("Ali", StateSchool))
	require.NoError(t, reg.RecordSchool("23-maktab", StateGrade))
	assert.ErrorIs(t, reg.MarkSubscribed(StateCompleted), ErrWrongState)
	assert.False(t, reg.IsSubscribed)
	assert.Equal(t, StateGrade, reg.State)
}

func TestRegistration_RecordGrade(t *testing.T) {
	reg := &Registration{ChatId: 1, Flow: FlowGeneral, State: StateGrade}
	assert.Error(t, reg.RecordGrade(11, nil, StateSubjects))
	assert.Equal(t, StateGrade, reg.State)

	require.NoError(t, reg.RecordGrade(2, []string{"Matematika", "Ingliz tili", "Mantiq"}, StateSubscription))
	assert.Equal(t, "Matematika, Ingliz tili, Mantiq", reg.Subjects)
	assert.Equal(t, []string{"Matematika", "Ingliz tili", "Mantiq"}, reg.SubjectList())
	assert.Equal(t, StateSubscription, reg.State)
}

func TestRegistration_Reset(t *testing.T) {
	reg := &Registration{
		ChatId: 1, Flow: FlowStudyCenter, FullName: "Ali", Subjects: "Fizika",
		Phone: "901234567", IsSubscribed: true, State: StateCompleted,
	}
	reg.Reset()
	assert.Equal(t, StateStart, reg.State)
	assert.False(t, reg.IsSubscribed)
	assert.Empty(t, reg.FullName)
	assert.Empty(t, reg.Phone)
	assert.Equal(t, int64(1), reg.ChatId)
}

func TestRegistration_Validate(t *testing.T) {
	reg := NewRegistration(FlowGeneral, 5)
	assert.NoError(t, reg.Validate())
	reg.Grade = 12
	assert.Error(t, reg.Validate())
	reg.Grade = 0
	reg.ChatId = 0
	assert.Error(t, reg.Validate())
}

func TestFlowFromSlug(t *testing.T) {
	f, ok := FlowFromSlug("study-center")
	assert.True(t, ok)
	assert.Equal(t, FlowStudyCenter, f)
	assert.Equal(t, "study-center", f.Slug())

	f, ok = FlowFromSlug("general")
	assert.True(t, ok)
	assert.Equal(t, FlowGeneral, f)

	_, ok = FlowFromSlug("payments")
	assert.False(t, ok)
}

func TestMemberStatus(t *testing.T) {
	assert.True(t, MemberCreator.IsSubscribed())
	assert.True(t, MemberMember.IsSubscribed())
	assert.False(t, MemberLeft.IsSubscribed())
	assert.False(t, MemberRestricted.IsSubscribed())
}
