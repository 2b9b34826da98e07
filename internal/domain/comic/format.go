package comic

import (
	"fmt"
	"strings"
)

// FormatScenes renders scenes in the numbered block layout the scene parser
// reads back:
//
//	1. Title
//	   Description: ...
//	   Characters: ...
func FormatScenes(scenes []Scene) string {
	parts := make([]string, 0, len(scenes))
	for i, sc := range scenes {
		parts = append(parts, fmt.Sprintf("%d. %s\n   Description: %s\n   Characters: %s",
			i+1, sc.Title, sc.Description, sc.Characters))
	}
	return strings.Join(parts, "\n\n")
}

// Markdown renders the finished script package for people and for
// downstream panel renderers.
func Markdown(s *Script) string {
	var b strings.Builder

	b.WriteString("# Comic script\n\n")
	if s.RunID != "" {
		fmt.Fprintf(&b, "Run: `%s`\n\n", s.RunID)
	}
	if s.Description != "" {
		fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(strings.TrimSpace(s.Description), "\n", "\n> "))
	}

	b.WriteString("## Short story\n\n")
	b.WriteString(strings.TrimSpace(s.Story))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "## Scenes (%d)\n\n", len(s.Scenes))
	for i, sc := range s.Scenes {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, sc.Title)
		if sc.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", sc.Description)
		}
		if sc.Characters != "" {
			fmt.Fprintf(&b, "*Characters:* %s\n\n", sc.Characters)
		}
	}

	if len(s.Dialogues) > 0 {
		b.WriteString("## Dialogues\n\n")
		for i, d := range s.Dialogues {
			fmt.Fprintf(&b, "### Scene %d\n\n%s\n\n", i+1, strings.TrimSpace(d))
		}
	}

	if len(s.ImagePrompts) > 0 {
		b.WriteString("## Image prompts\n\n")
		for i, p := range s.ImagePrompts {
			fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(p))
		}
	}

	return b.String()
}
