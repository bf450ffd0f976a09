package interview

// Fixed candidate-facing messages. These are deterministic outputs of the
// state machine and are returned without an LLM call.
const (
	// TerminationMessage is returned for any turn after the interview has
	// finished.
	TerminationMessage = "The interview has ended. Thank you for taking part! You will receive the outcome as soon as your exercise has been evaluated."

	// SuccessfulFinishMessage closes an interview whose last step was
	// completed on merit.
	SuccessfulFinishMessage = "That completes our case discussion. Congratulations on working through every part of it, and thank you for your time; we will be in touch with the outcome soon."

	// ForcedFinishMessage closes an interview whose last step was concluded
	// after the attempt budget ran out.
	ForcedFinishMessage = "That brings us to the end of the case discussion. Thank you for engaging with every part of it; we will review the conversation and be in touch with the outcome soon."

	// QuestionBudgetMessage is returned when the clarifying-question budget
	// is exhausted.
	QuestionBudgetMessage = "You have used all the questions at your disposal. Please proceed with your analysis now."

	// UnavailableMessage is returned when the language model cannot be
	// reached for a turn. The turn consumes no question or attempt budget.
	UnavailableMessage = "The interview is temporarily unavailable. Please resend your last message in a moment."

	// guidanceFallback keeps the conversation moving when the guidance call
	// itself fails after an attempt has been evaluated.
	guidanceFallback = "That's a reasonable start, but there is more to uncover here. Could you take your analysis one step further?"

	// defaultCriteria stands in for steps whose criteria join was
	// unresolved.
	defaultCriteria = "No specific criteria provided."
)
