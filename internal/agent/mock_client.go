package agent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exactlyPattern = regexp.MustCompile(`exactly (\d+)`)

// MockClient provides deterministic offline responses. It recognises the
// prompt kind from its wording, so it only understands the built-in templates.
type MockClient struct{}

// NewMockClient creates a mock generator for offline runs and tests
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Name() string {
	return "mock"
}

// Generate returns a canned response for the detected prompt kind.
func (m *MockClient) Generate(ctx context.Context, prompt string, _ Params) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &GenerationError{Backend: m.Name(), Cause: err}
	}

	switch {
	case strings.Contains(prompt, "Apply these requested changes"):
		return m.revise(prompt), nil
	case strings.Contains(prompt, "Previous attempt to create exactly"),
		strings.Contains(prompt, "numbered SCENES"):
		return m.scenes(prompt), nil
	case strings.Contains(prompt, "image-generation prompt"):
		return m.imagePrompt(prompt), nil
	case strings.Contains(prompt, "screenplay-style dialogue"):
		return m.dialogue(prompt), nil
	}
	return m.story(prompt), nil
}

func (m *MockClient) story(prompt string) string {
	idea := "a quiet lighthouse keeper finds a message in a bottle"
	if i := strings.Index(prompt, "DESCRIPTION:"); i >= 0 {
		if d := strings.TrimSpace(prompt[i+len("DESCRIPTION:"):]); d != "" {
			idea = d
		}
	}
	return fmt.Sprintf("Mara had always wondered about %s. "+
		"One stormy night she finally set out to find the truth. "+
		"Her friend Jo warned her that the cliffs were dangerous. "+
		"Halfway up, the rain turned the path to mud and Mara slipped. "+
		"Jo caught her hand at the last moment. "+
		"At the top they found the answer waiting in the lighthouse lamp. "+
		"They walked home at dawn, soaked and laughing.", idea)
}

func (m *MockClient) scenes(prompt string) string {
	count := 6
	if match := exactlyPattern.FindStringSubmatch(prompt); match != nil {
		if n, err := strconv.Atoi(match[1]); err == nil && n > 0 {
			count = n
		}
	}

	blocks := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		blocks = append(blocks, fmt.Sprintf(
			"%d. Beat %d\n   Description: Panel %d of the story, framed to move the action forward.\n   Characters: Mara, Jo",
			i, i, i))
	}
	return strings.Join(blocks, "\n\n")
}

func (m *MockClient) dialogue(prompt string) string {
	title := fieldValue(prompt, "Scene Title:")
	return fmt.Sprintf("MARA: So this is %s.\nJO: Stay close. We are not done yet.", strings.ToLower(title))
}

func (m *MockClient) imagePrompt(prompt string) string {
	title := fieldValue(prompt, "Scene Title:")
	style := fieldValue(prompt, "Add the style hint:")
	return fmt.Sprintf("Mara and Jo in %q, wide shot, stormy night, %s", title, style)
}

func (m *MockClient) revise(prompt string) string {
	previous := prompt
	if i := strings.Index(prompt, ":\n\n"); i >= 0 {
		previous = prompt[i+3:]
	}
	if j := strings.Index(previous, "\n\nApply these requested changes"); j >= 0 {
		previous = previous[:j]
	}
	changes := fieldValue(prompt, "Apply these requested changes in a coherent way:")
	return fmt.Sprintf("%s\n\nRevision note: %s", strings.TrimSpace(previous), changes)
}

func fieldValue(prompt, label string) string {
	for _, line := range strings.Split(prompt, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, label) {
			return strings.TrimSpace(strings.TrimPrefix(line, label))
		}
	}
	return ""
}
