package interview

// The screening script. Prompt wording is part of the product contract
// with the recruiting team; edit only with their sign-off.
const (
	PromptOpening = "Hi, this is Riya from Futuresoft Consultancy. We are hiring voice and chat profiles for companies like British Telecom, Teleperformance, and Wipro. Are you interested?"

	PromptDecline         = "I understand. Thank you for your time. Have a great day!"
	PromptExperienceAsk   = "We will surely help you with the same. Could you please confirm me if you are Fresher OR Experienced?"
	PromptInterestClarify = "Could you please confirm if you are interested? Just say Yes or No."

	PromptFresherQualification = "Now, what's your highest qualification like Graduate, Undergraduate, or Graduation drop-out?"
	PromptExpDetails           = "Now, please confirm your highest qualification and experience. Mention your job responsibility part clearly."
	PromptExperienceClarify    = "Could you please clarify - are you a Fresher or Experienced?"

	PromptCustomerStory = "That was very impressive. Could you please speak about any memorable interaction with customer within 10 to 12 sentences. You can start with, 'Once a customer called me for issue related to...' And your time starts now."
	PromptCustomerRetry = "Sorry, you need to speak only 10 to 12 sentences on this topic. It can be done within 15 seconds only. Please speak on this topic now."

	PromptFestivalStory = "Acknowledgment to statement. Could you please speak about any latest festival you celebrated like Diwali, Holi, Christmas or Eid in 10 to 12 sentences. Start with, 'I celebrated my last Diwali along with family...' And your time starts now."
	PromptFestivalRetry = "Sorry, please speak clearly about the festival celebration for 10 to 12 sentences to proceed."

	PromptRejection = "Sorry, we will not be able to help you with job as we hire candidates with good communication skills only."
	PromptCompleted = "That was amazing, now one of our HR Recruiter will connect you for your further interview process."

	PromptClosing     = "Thank you for your time. Have a great day!"
	PromptRepeat      = "I'm sorry, could you please repeat that?"
	PromptSilence     = "Sorry, you need to speak on this topic. Please try now."
	PromptDidNotCatch = "I didn't catch that. Could you please speak up?"
	PromptExpired     = "Sorry, this session has expired. Please call again."
)

// retryPrompt is the corrective line issued when a narrative answer fails
// the quality gate on the first attempt.
func retryPrompt(s State) string {
	if s == StateFestivalStory || s == StateFestivalRetry {
		return PromptFestivalRetry
	}
	return PromptCustomerRetry
}
