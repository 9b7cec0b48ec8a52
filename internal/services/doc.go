// Package services connects the studio to outside systems.
//
// # Feedback
//
// [GeminiSummarizer] implements [studio.Summarizer] with google.golang.org/genai.
// Without an API key every call reports [shared.ErrMissingCredentials], which the
// studio turns into its "no key" fallback text.
//
// # Sharing
//
// All destinations implement [Sharer]:
//   - [TelegramLinkSharer] opens the messaging host's share link in the system handler
//   - [TelegramBotSharer] posts through the Bot API, rate limited per chat
//   - [WriterSharer] prints locally
//
// [FallbackSharer] chains a primary destination with a local one.
//
// # Identity
//
// [TelegramIdentity] verifies the signed launch payload (initData) with the bot token and
// converts the embedded user. [PlaceholderIdentity] answers the development user.
//
// # Object store
//
// [ParseStore] is a thin Parse REST client; [ParseStore.Check] writes, queries, updates
// and deletes a GameScore object to prove connectivity from the admin view.
//
// All HTTP traffic goes through [APIService].
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrMissingCredentials] : key, token or app id not configured
//   - [shared.ErrAPIRequest] : HTTP request failed or was refused
//   - [shared.ErrInvalidSignature] : initData hash mismatch
//   - [shared.ErrInitDataExpired] : initData older than the configured maximum age
package services
