package utils

import (
	"regexp"
	"strings"
)

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

// ConvertSlackToPlainText strips Slack mrkdwn artifacts from a message so it
// can be stored as a task body.
func ConvertSlackToPlainText(message string) string {
	result := message

	// Step 1: Convert Slack links <url|text> to just the text, and bare <url> to the url
	labeledLinkRegex := regexp.MustCompile(`<[^|>]+\|([^>]+)>`)
	result = labeledLinkRegex.ReplaceAllString(result, "$1")
	bareLinkRegex := regexp.MustCompile(`<(https?://[^>]+)>`)
	result = bareLinkRegex.ReplaceAllString(result, "$1")

	// Step 2: Drop user/channel mentions like <@U123> and <#C123>
	mentionRegex := regexp.MustCompile(`<[@#][^>]+>`)
	result = mentionRegex.ReplaceAllString(result, "")

	// Step 3: Unwrap *bold* and _italic_ markers
	boldRegex := regexp.MustCompile(`\*([^*]+)\*`)
	result = boldRegex.ReplaceAllString(result, "$1")
	italicRegex := regexp.MustCompile(`_([^_]+)_`)
	result = italicRegex.ReplaceAllString(result, "$1")

	return strings.TrimSpace(result)
}
