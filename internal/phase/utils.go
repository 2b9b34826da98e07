package phase

import "strings"

// CleanResponse removes a markdown code fence wrapped around a whole
// response and trims surrounding whitespace. Inner fences are kept.
func CleanResponse(response string) string {
	response = strings.TrimSpace(response)
	if !strings.HasPrefix(response, "```") || !strings.HasSuffix(response, "```") || len(response) < 6 {
		return response
	}

	body := strings.TrimSuffix(response, "```")
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		return strings.TrimSpace(strings.TrimPrefix(body, "```"))
	}
	// The opening fence line may carry a language tag.
	return strings.TrimSpace(body[nl+1:])
}
