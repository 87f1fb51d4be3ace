package model

// Тексты, которые видит пользователь для каждого состояния.
const (
	PlaceholderText   = "Submit a prompt to see the response."
	MissingPromptText = "Error: Prompt is missing."
	failureTextPrefix = "Error: Failed to get response from Gemini. Check your API key and server logs. Details: "
)

// OutcomeKind - активный вариант GenerationOutcome.
type OutcomeKind int

const (
	NotRequested OutcomeKind = iota
	MissingPrompt
	Success
	Failure
)

func (k OutcomeKind) String() string {
	switch k {
	case NotRequested:
		return "not_requested"
	case MissingPrompt:
		return "missing_prompt"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome - результат одного цикла обработки промта.
// Живет в пределах одного запроса и передается по значению.
// Нулевое значение - NotRequested.
type Outcome struct {
	kind OutcomeKind
	// текст ответа модели (Success) или сообщение об ошибке (Failure)
	payload string
}

// NotRequestedOutcome - промт еще не отправлялся.
func NotRequestedOutcome() Outcome { return Outcome{kind: NotRequested} }

// MissingPromptOutcome - форма пришла без промта.
func MissingPromptOutcome() Outcome { return Outcome{kind: MissingPrompt} }

// SuccessOutcome - модель вернула текст.
func SuccessOutcome(text string) Outcome { return Outcome{kind: Success, payload: text} }

// FailureOutcome - вызов модели завершился ошибкой с сообщением message.
func FailureOutcome(message string) Outcome { return Outcome{kind: Failure, payload: message} }

func (o Outcome) Kind() OutcomeKind { return o.kind }

// Text возвращает текст ответа для Success и сообщение ошибки для Failure.
func (o Outcome) Text() string { return o.payload }

// DisplayText возвращает строку, которая показывается в блоке ответа на странице.
func (o Outcome) DisplayText() string {
	switch o.kind {
	case MissingPrompt:
		return MissingPromptText
	case Success:
		return o.payload
	case Failure:
		return failureTextPrefix + o.payload
	default:
		return PlaceholderText
	}
}
