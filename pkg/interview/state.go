// Package interview implements the scripted screening dialogue: the
// conversation state machine, the intent keyword matcher, and the
// answer-quality gate with its retry policy.
package interview

// State is a node in the screening dialogue.
type State string

const (
	StateGreeting             State = "greeting"
	StateInterestCheck        State = "interest_check"
	StateExperienceCheck      State = "experience_check"
	StateFresherQualification State = "fresher_qualification"
	StateExpDetails           State = "exp_details"
	StateCustomerStory        State = "customer_story"
	StateCustomerRetry        State = "customer_retry"
	StateFestivalStory        State = "festival_story"
	StateFestivalRetry        State = "festival_retry"
	StateCompleted            State = "completed"
	StateRejected             State = "rejected"
	StateDeclined             State = "declined"
)

// Terminal reports whether no further transitions occur from s.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateRejected || s == StateDeclined
}

// Narrative reports whether s is an open-ended question subject to the
// quality gate and retry policy.
func (s State) Narrative() bool {
	switch s {
	case StateCustomerStory, StateCustomerRetry, StateFestivalStory, StateFestivalRetry:
		return true
	}
	return false
}

// Answer keys recorded per question.
const (
	AnswerQualification = "qualification"
	AnswerExperience    = "experience"
	AnswerCustomerStory = "customer_story"
	AnswerFestival      = "festival"
)
