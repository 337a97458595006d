// Package notifications delivers the workflow summary to a webhook.
//
// Discord embeds are the default transport; ntfy topics are supported for
// hosts that already publish there. An empty or placeholder webhook URL yields
// a no-op Service so callers never branch on configuration themselves.
package notifications
