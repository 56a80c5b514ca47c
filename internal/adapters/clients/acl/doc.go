// Package acl is the anti-corruption layer between downstream HTTP services
// and the domain.
//
// Upstream payloads and error bodies never leave this package: adapters
// decode them into domain types, and every failure comes back as a domain
// error.
//
//   - transport failures, retries exhausted and open circuits become
//     [domain.ErrUnavailable]
//   - HTTP statuses are mapped by [MapHTTPError]
//   - a 2xx body in no recognized shape becomes [domain.ErrResponseFormat]
//
// [StoryClient] is the adapter for the story proxy. The proxy forwards to
// whichever model is configured behind it, so the generated text can arrive
// in several envelopes; [NormalizeStoryResponse] is the one place that knows
// them.
package acl
