package interview

// Advance feeds one caller utterance into the dialogue and returns the next
// prompt to speak. It is total: every input, including empty, yields a
// defined next state and a non-empty prompt. Terminal states return a fixed
// closing line and mutate nothing. The caller must hold the session lock.
func (s *Session) Advance(userInput string) string {
	switch s.State {
	case StateGreeting:
		// The opening pitch; input is ignored (the first turn has none).
		s.State = StateInterestCheck
		return PromptOpening

	case StateInterestCheck:
		switch ClassifyInterest(userInput) {
		case IntentNegative:
			s.State = StateDeclined
			return PromptDecline
		case IntentAffirmative:
			s.State = StateExperienceCheck
			return PromptExperienceAsk
		}
		return PromptInterestClarify

	case StateExperienceCheck:
		switch ClassifyExperience(userInput) {
		case IntentFresher:
			s.CandidateType = CandidateFresher
			s.State = StateFresherQualification
			return PromptFresherQualification
		case IntentExperienced:
			s.CandidateType = CandidateExperienced
			s.State = StateExpDetails
			return PromptExpDetails
		}
		return PromptExperienceClarify

	case StateFresherQualification:
		// No quality gate on this turn; record the raw answer.
		s.Answers[AnswerQualification] = userInput
		s.State = StateCustomerStory
		return PromptCustomerStory

	case StateExpDetails:
		s.Answers[AnswerExperience] = userInput
		s.State = StateCustomerStory
		return PromptCustomerStory

	case StateCustomerStory, StateCustomerRetry, StateFestivalStory, StateFestivalRetry:
		return s.advanceNarrative(userInput)

	case StateCompleted, StateRejected, StateDeclined:
		return PromptClosing
	}

	// Unrecognized state: re-prompt without mutating anything.
	return PromptRepeat
}

// HandleSilence applies the turn policy for an empty or failed transcript.
// Mid-narrative-question it counts as a quality-gate failure through the
// same retry policy as Advance; elsewhere it re-prompts without touching
// the state machine. The caller must hold the session lock.
func (s *Session) HandleSilence() string {
	if s.State.Narrative() {
		return s.failNarrative(func(State) string { return PromptSilence })
	}
	return PromptDidNotCatch
}

func (s *Session) advanceNarrative(input string) string {
	if !Sufficient(input) {
		return s.failNarrative(retryPrompt)
	}

	// Accepted: the retry counter belongs to the question just answered.
	s.RetryCount = 0
	switch s.State {
	case StateCustomerStory, StateCustomerRetry:
		s.Answers[AnswerCustomerStory] = input
		s.State = StateFestivalStory
		return PromptFestivalStory
	default:
		s.Answers[AnswerFestival] = input
		s.State = StateCompleted
		return PromptCompleted
	}
}

// failNarrative is the single retry/reject policy shared by the text-driven
// gate and the empty-transcript path: one retry per narrative question, then
// rejection. A failure while already in a retry state rejects regardless of
// the counter value.
func (s *Session) failNarrative(corrective func(State) string) string {
	entry := s.State
	s.RetryCount++
	if entry == StateCustomerRetry || entry == StateFestivalRetry || s.RetryCount >= 2 {
		s.State = StateRejected
		return PromptRejection
	}
	if entry == StateCustomerStory {
		s.State = StateCustomerRetry
	} else {
		s.State = StateFestivalRetry
	}
	return corrective(entry)
}
