// Package storyboard turns a story into comic material: it parses and
// enforces the scene breakdown and writes the per-stage prompts.
package storyboard

import (
	"strings"

	"github.com/vampirenirmal/comicscript/internal/domain/comic"
)

const (
	fieldNone = iota
	fieldDescription
	fieldCharacters
)

// ParseScenes reads numbered scene blocks:
//
//	1. Title
//	   Description: what happens
//	   Characters: who is there
//
// A block starts at a line holding an integer, a dot and whitespace (or the
// end of the line). Text before the first block is dropped. Scenes come back
// in the order their blocks appear; the numbers themselves are ignored.
// ParseScenes never fails; unparseable input yields no scenes.
func ParseScenes(text string) []comic.Scene {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var (
		scenes  []comic.Scene
		current *blockParser
	)
	for _, line := range strings.Split(text, "\n") {
		if title, ok := markerLine(line); ok {
			if current != nil {
				scenes = append(scenes, current.scene())
			}
			current = &blockParser{title: title}
			continue
		}
		if current != nil {
			current.line(line)
		}
	}
	if current != nil {
		scenes = append(scenes, current.scene())
	}
	return scenes
}

// blockParser accumulates the field lines of one scene block.
type blockParser struct {
	title       string
	description []string
	characters  string

	active  int
	hasDesc bool
	hasChar bool
}

func (b *blockParser) line(line string) {
	if field, value, ok := fieldLine(line); ok {
		b.active = fieldNone
		switch {
		case field == fieldDescription && !b.hasDesc:
			b.hasDesc = true
			b.active = fieldDescription
			b.description = append(b.description, value)
		case field == fieldCharacters && !b.hasChar:
			b.hasChar = true
			b.characters = value
		}
		return
	}
	if b.active == fieldDescription {
		b.description = append(b.description, strings.TrimSpace(line))
	}
}

func (b *blockParser) scene() comic.Scene {
	return comic.Scene{
		Title:       b.title,
		Description: strings.TrimSpace(strings.Join(b.description, "\n")),
		Characters:  b.characters,
	}
}

// markerLine reports whether line opens a scene block and returns its title.
func markerLine(line string) (string, bool) {
	s := strings.TrimLeft(line, " \t")

	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits >= len(s) || s[digits] != '.' {
		return "", false
	}

	rest := s[digits+1:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

var fieldLabels = []struct {
	label string
	field int
}{
	{"description", fieldDescription},
	{"characters", fieldCharacters},
	{"character", fieldCharacters},
}

// fieldLine recognises "Description:" and "Characters:" lines, case
// insensitively, with an optional list bullet and markdown emphasis around
// the label ("- **Description:** ...", "**Characters**: ...").
func fieldLine(line string) (int, string, bool) {
	s := strings.TrimSpace(line)
	for _, bullet := range []string{"- ", "* ", "+ ", "• "} {
		if strings.HasPrefix(s, bullet) {
			s = strings.TrimSpace(s[len(bullet):])
			break
		}
	}

	emphasis := strings.TrimLeft(s, "*_")
	emphasised := len(emphasis) != len(s)
	s = emphasis

	for _, fl := range fieldLabels {
		if len(s) < len(fl.label) || !strings.EqualFold(s[:len(fl.label)], fl.label) {
			continue
		}
		rest := s[len(fl.label):]
		if emphasised {
			rest = strings.TrimLeft(rest, "*_")
		}
		rest = strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(rest, ":") {
			continue
		}
		value := rest[1:]
		if emphasised {
			value = strings.TrimLeft(value, "*_")
		}
		return fl.field, strings.TrimSpace(value), true
	}
	return fieldNone, "", false
}
