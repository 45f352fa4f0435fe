package constants

import "time"

// ErrorReply is shown in the chat when a question could not be answered
// because of a network or decoding failure.
const ErrorReply = "عذر خواہ ہوں، کچھ غلطی ہوئی۔ براۓ مہربانی دوبارہ کوشش کریں۔"

// FallbackFact is shown in the fact panel when the backend has no fact to offer.
const FallbackFact = "قرآن میں 114 سورتیں ہیں۔"

// WelcomeReply is the first bot message of every session.
const WelcomeReply = "السلام علیکم! میں قرآن کے بارے میں آپ کے سوالات کا جواب دینے کے لیے حاضر ہوں۔"

// FarewellNotice is shown under the transcript once the conversation has ended.
const FarewellNotice = "گفتگو ختم ہو گئی۔ دوبارہ شروع کرنے کے لیے Ctrl+R دبائیں۔"

// LLMSystemPrompt primes the LLM answerer.
const LLMSystemPrompt = `آپ قرآن مجید کے بارے میں سوالات کے جواب دینے والے معاون ہیں۔
مختصر اور درست جواب اردو میں دیں۔ اگر جواب معلوم نہ ہو تو صاف بتا دیں۔`

// DefaultHistoryLimit is the number of messages retained by the message store.
const DefaultHistoryLimit = 10

// MaxInputHistory caps the input recall ring.
const MaxInputHistory = 100

// MaxSearchResults caps the results returned by a search.
const MaxSearchResults = 5

// MinSearchQueryLen is the shortest query sent to the search endpoint.
const MinSearchQueryLen = 2

// MaxSuggestions caps the suggestion bar.
const MaxSuggestions = 4

// DefaultTypingDelay is how long the "thinking" placeholder shows before "typing".
const DefaultTypingDelay = 600 * time.Millisecond

// MinEventBusBufferSize is the minimum buffer per subscriber channel.
const MinEventBusBufferSize = 256

// MaxErrorBodyBytes limits how much of a failed response body is kept in errors.
const MaxErrorBodyBytes = 512

// FarewellReply is the LLM answerer's closing line when the user says goodbye.
const FarewellReply = "اللہ حافظ! دوبارہ تشریف لائیں۔"
